package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zackdotcomputer/capital-gains/internal/api/handlers"
	"github.com/zackdotcomputer/capital-gains/internal/model"
	"github.com/zackdotcomputer/capital-gains/internal/testutil"
)

// digestDocument builds a minimal decoded statement document with one buy and
// one sale of the same security.
func digestDocument() map[string]any {
	trade := func(invKey, units, unitPrice, total, date string) map[string]any {
		return map[string]any{
			invKey: map[string]any{
				"SUBACCTFUND": "CASH",
				"SUBACCTSEC":  "CASH",
				"SECID":       map[string]any{"UNIQUEID": "037833100", "UNIQUEIDTYPE": "CUSIP"},
				"UNITS":       units,
				"UNITPRICE":   unitPrice,
				"TOTAL":       total,
				"INVTRAN":     map[string]any{"DTTRADE": date},
			},
		}
	}

	return map[string]any{
		"OFX": map[string]any{
			"SECLISTMSGSRSV1": map[string]any{
				"SECLIST": map[string]any{
					"STOCKINFO": map[string]any{
						"SECINFO": map[string]any{
							"SECID":   map[string]any{"UNIQUEID": "037833100", "UNIQUEIDTYPE": "CUSIP"},
							"SECNAME": "APPLE INC",
							"TICKER":  "AAPL",
						},
					},
				},
			},
			"INVSTMTMSGSRSV1": map[string]any{
				"INVSTMTTRNRS": map[string]any{
					"INVSTMTRS": map[string]any{
						"CURDEF": "USD",
						"DTASOF": "20210601000000.000",
						"INVBAL": map[string]any{"AVAILCASH": "500.00"},
						"INVTRANLIST": map[string]any{
							"BUYSTOCK":  trade("INVBUY", "10", "10.00", "-100.00", "20200101000000.000"),
							"SELLSTOCK": trade("INVSELL", "-10", "15.00", "150.00", "20210501000000.000"),
						},
					},
				},
			},
		},
	}
}

func digestBody(t *testing.T, label string, document map[string]any) *bytes.Buffer {
	t.Helper()

	body, err := json.Marshal(map[string]any{"label": label, "document": document})
	if err != nil {
		t.Fatalf("Failed to encode request body: %v", err)
	}
	return bytes.NewBuffer(body)
}

// TestStatementHandler_Digest tests the POST /api/statement/digest endpoint.
//
// WHY: Digest is the entry point of the whole pipeline. Its status codes
// distinguish caller mistakes (400), statements we cannot process (422) and
// server faults (500); clients branch on them.
func TestStatementHandler_Digest(t *testing.T) {
	t.Run("POST /api/statement/digest returns 201 with the cached record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStatementService(t, db)
		handler := handlers.NewStatementHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/statement/digest",
			digestBody(t, "Q2 statement", digestDocument()))
		w := httptest.NewRecorder()

		handler.Digest(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("Expected status 201, got %d", w.Code)
		}

		var record model.StatementRecord
		if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if record.ID == "" {
			t.Error("Expected a generated statement ID")
		}
		if record.Label != "Q2 statement" {
			t.Errorf("Expected label 'Q2 statement', got %q", record.Label)
		}
		if len(record.Statement.Account.Transactions) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(record.Statement.Account.Transactions))
		}
	})

	t.Run("returns 400 for a body that is not JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStatementHandler(testutil.NewTestStatementService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/statement/digest",
			bytes.NewBufferString("not json"))
		w := httptest.NewRecorder()

		handler.Digest(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 when the document is missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStatementHandler(testutil.NewTestStatementService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/statement/digest",
			bytes.NewBufferString(`{"label":"no document"}`))
		w := httptest.NewRecorder()

		handler.Digest(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("returns 422 for a document without an OFX envelope", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStatementHandler(testutil.NewTestStatementService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/statement/digest",
			digestBody(t, "", map[string]any{"whoops": true}))
		w := httptest.NewRecorder()

		handler.Digest(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", w.Code)
		}
	})

	t.Run("returns 422 for a malformed as-of date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStatementHandler(testutil.NewTestStatementService(t, db))

		doc := digestDocument()
		stmt := doc["OFX"].(map[string]any)["INVSTMTMSGSRSV1"].(map[string]any)["INVSTMTTRNRS"].(map[string]any)["INVSTMTRS"].(map[string]any)
		stmt["DTASOF"] = "whenever"

		req := httptest.NewRequest(http.MethodPost, "/api/statement/digest",
			digestBody(t, "", doc))
		w := httptest.NewRecorder()

		handler.Digest(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", w.Code)
		}
	})
}

func TestStatementHandler_ListStatements(t *testing.T) {
	t.Run("GET /api/statement returns 200 with empty array", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStatementHandler(testutil.NewTestStatementService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/statement", nil)
		w := httptest.NewRecorder()

		handler.ListStatements(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		contentType := w.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
		}

		var summaries []model.StatementSummary
		if err := json.NewDecoder(w.Body).Decode(&summaries); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(summaries) != 0 {
			t.Errorf("Expected empty array, got %d items", len(summaries))
		}
	})

	t.Run("GET /api/statement returns cached summaries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStatementService(t, db)
		handler := handlers.NewStatementHandler(svc)

		record, err := svc.Digest(context.Background(),
			digestDocument(), "cached")
		if err != nil {
			t.Fatalf("Digest() returned unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/statement", nil)
		w := httptest.NewRecorder()

		handler.ListStatements(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var summaries []model.StatementSummary
		if err := json.NewDecoder(w.Body).Decode(&summaries); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary, got %d", len(summaries))
		}
		if summaries[0].ID != record.ID {
			t.Errorf("Expected ID %s, got %s", record.ID, summaries[0].ID)
		}
	})
}

func TestStatementHandler_GetStatement(t *testing.T) {
	t.Run("GET /api/statement/{uuid} returns the full record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStatementService(t, db)
		handler := handlers.NewStatementHandler(svc)

		record, err := svc.Digest(context.Background(),
			digestDocument(), "")
		if err != nil {
			t.Fatalf("Digest() returned unexpected error: %v", err)
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/statement/"+record.ID, map[string]string{"uuid": record.ID})
		w := httptest.NewRecorder()

		handler.GetStatement(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var got model.StatementRecord
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.ID != record.ID {
			t.Errorf("Expected ID %s, got %s", record.ID, got.ID)
		}
		if len(got.Statement.Securities) != 1 {
			t.Errorf("Expected 1 security, got %d", len(got.Statement.Securities))
		}
	})

	t.Run("returns 404 for an unknown id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStatementHandler(testutil.NewTestStatementService(t, db))

		id := "99999999-9999-9999-9999-999999999999"
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/statement/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetStatement(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestStatementHandler_DeleteStatement(t *testing.T) {
	t.Run("DELETE /api/statement/{uuid} removes the statement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStatementService(t, db)
		handler := handlers.NewStatementHandler(svc)

		record, err := svc.Digest(context.Background(),
			digestDocument(), "")
		if err != nil {
			t.Fatalf("Digest() returned unexpected error: %v", err)
		}

		req := testutil.NewRequestWithURLParams(http.MethodDelete,
			"/api/statement/"+record.ID, map[string]string{"uuid": record.ID})
		w := httptest.NewRecorder()

		handler.DeleteStatement(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}

		// A second delete finds nothing.
		w = httptest.NewRecorder()
		handler.DeleteStatement(w, testutil.NewRequestWithURLParams(http.MethodDelete,
			"/api/statement/"+record.ID, map[string]string{"uuid": record.ID}))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}
