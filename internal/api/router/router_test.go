package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

func TestRouter_Health(t *testing.T) {
	r := New(&Config{Logger: logging.Default()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("expected ok body, got %q", w.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := New(&Config{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
