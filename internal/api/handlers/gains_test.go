package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/zackdotcomputer/capital-gains/internal/api/handlers"
	"github.com/zackdotcomputer/capital-gains/internal/model"
	"github.com/zackdotcomputer/capital-gains/internal/testutil"
)

// gainsRequest builds a request carrying both the uuid route parameter and
// the from/to query parameters.
func gainsRequest(id, from, to string) *http.Request {
	req := testutil.NewRequestWithQueryParams(http.MethodGet,
		"/api/statement/"+id+"/gains", map[string]string{"from": from, "to": to})

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uuid", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// TestGainsHandler_Gains tests the GET /api/statement/{uuid}/gains endpoint.
//
// WHY: Gains is the endpoint the whole service exists for. The 409 for
// insufficient purchase history is load-bearing: it tells callers to upload a
// statement covering the account's full history rather than retry.
func TestGainsHandler_Gains(t *testing.T) {
	t.Run("returns 200 with the calculations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		statementSvc, gainsSvc := testutil.NewTestServices(t, db)
		handler := handlers.NewGainsHandler(gainsSvc)

		record, err := statementSvc.Digest(context.Background(), digestDocument(), "")
		if err != nil {
			t.Fatalf("Digest() returned unexpected error: %v", err)
		}

		w := httptest.NewRecorder()
		handler.Gains(w, gainsRequest(record.ID, "2021-01-01", "2021-12-31"))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var calc model.Calculations
		if err := json.NewDecoder(w.Body).Decode(&calc); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if calc.Gains.Total != 50 {
			t.Errorf("Expected total gain 50, got %v", calc.Gains.Total)
		}
		if calc.Gains.Long != 50 {
			t.Errorf("Expected long-term gain 50, got %v", calc.Gains.Long)
		}
		if len(calc.RichSalesInWindow) != 1 {
			t.Errorf("Expected 1 sale in window, got %d", len(calc.RichSalesInWindow))
		}
	})

	t.Run("the window includes sales on its boundary days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		statementSvc, gainsSvc := testutil.NewTestServices(t, db)
		handler := handlers.NewGainsHandler(gainsSvc)

		record, err := statementSvc.Digest(context.Background(), digestDocument(), "")
		if err != nil {
			t.Fatalf("Digest() returned unexpected error: %v", err)
		}

		// The sale happened on 2021-05-01 exactly.
		w := httptest.NewRecorder()
		handler.Gains(w, gainsRequest(record.ID, "2021-05-01", "2021-05-01"))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var calc model.Calculations
		if err := json.NewDecoder(w.Body).Decode(&calc); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(calc.RichSalesInWindow) != 1 {
			t.Errorf("Expected the boundary-day sale included, got %d sales", len(calc.RichSalesInWindow))
		}
	})

	t.Run("returns 400 for missing window parameters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		_, gainsSvc := testutil.NewTestServices(t, db)
		handler := handlers.NewGainsHandler(gainsSvc)

		w := httptest.NewRecorder()
		handler.Gains(w, gainsRequest("11111111-1111-1111-1111-111111111111", "", ""))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for an inverted window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		_, gainsSvc := testutil.NewTestServices(t, db)
		handler := handlers.NewGainsHandler(gainsSvc)

		w := httptest.NewRecorder()
		handler.Gains(w, gainsRequest("11111111-1111-1111-1111-111111111111",
			"2021-12-31", "2021-01-01"))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for an unknown statement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		_, gainsSvc := testutil.NewTestServices(t, db)
		handler := handlers.NewGainsHandler(gainsSvc)

		w := httptest.NewRecorder()
		handler.Gains(w, gainsRequest("99999999-9999-9999-9999-999999999999",
			"2021-01-01", "2021-12-31"))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("returns 409 when the ledger cannot cover a sale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		statementSvc, gainsSvc := testutil.NewTestServices(t, db)
		handler := handlers.NewGainsHandler(gainsSvc)

		doc := digestDocument()
		tranList := doc["OFX"].(map[string]any)["INVSTMTMSGSRSV1"].(map[string]any)["INVSTMTTRNRS"].(map[string]any)["INVSTMTRS"].(map[string]any)["INVTRANLIST"].(map[string]any)
		delete(tranList, "BUYSTOCK")

		record, err := statementSvc.Digest(context.Background(), doc, "")
		if err != nil {
			t.Fatalf("Digest() returned unexpected error: %v", err)
		}

		w := httptest.NewRecorder()
		handler.Gains(w, gainsRequest(record.ID, "2021-01-01", "2021-12-31"))

		if w.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", w.Code)
		}
	})
}
