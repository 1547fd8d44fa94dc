package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zackdotcomputer/capital-gains/internal/api/middleware"
)

func corsHandler() http.Handler {
	corsMW := middleware.NewCORS([]string{"http://localhost:3000"})
	return corsMW.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func preflight(requestHeaders string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/statement/digest", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", requestHeaders)
	return req
}

func TestNewCORS(t *testing.T) {
	t.Run("preflight allows Content-Type from an allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		corsHandler().ServeHTTP(w, preflight("Content-Type"))

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Expected allowed origin echoed, got %q", got)
		}
		allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
		if !strings.Contains(allowed, "content-type") {
			t.Errorf("Expected Content-Type allowed, got %q", allowed)
		}
	})

	t.Run("preflight rejects headers outside the allow list", func(t *testing.T) {
		w := httptest.NewRecorder()
		corsHandler().ServeHTTP(w, preflight("X-API-Key"))

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected preflight rejected, got allowed origin %q", got)
		}
	})

	t.Run("preflight rejects an unknown origin", func(t *testing.T) {
		req := preflight("Content-Type")
		req.Header.Set("Origin", "http://evil.example")

		w := httptest.NewRecorder()
		corsHandler().ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected unknown origin rejected, got %q", got)
		}
	})
}
