package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"delivery-dashboard/internal/dashboard"
	"delivery-dashboard/internal/snapshot"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct {
	snap *snapshot.Snapshot
	err  error
}

func (s stubFetcher) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.snap, s.err
}

func testRouter(f snapshot.Fetcher) *gin.Engine {
	now := func() time.Time { return time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return New(dashboard.NewWithClock(f, now))
}

func TestDashboardEndpoint(t *testing.T) {
	snap, err := snapshot.Parse([]byte(`{"checklist":[{"Curso":"Solda","Tipo":"Curso novo","Etapa Atual":"Entregue"}]}`))
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	testRouter(stubFetcher{snap: snap}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q, want '*'", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "s-maxage=60, stale-while-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["anoFiltrado"] != "Geral" {
		t.Errorf("anoFiltrado = %v, want 'Geral'", body["anoFiltrado"])
	}
}

func TestDashboardEndpointYearParam(t *testing.T) {
	snap := &snapshot.Snapshot{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?ano=2025", nil)
	testRouter(stubFetcher{snap: snap}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["anoFiltrado"] != "2025" {
		t.Errorf("anoFiltrado = %v, want '2025'", body["anoFiltrado"])
	}
}

func TestDashboardEndpointBadYear(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?ano=abc", nil)
	testRouter(stubFetcher{snap: &snapshot.Snapshot{}}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDashboardEndpointFetchFailure(t *testing.T) {
	ferr := &snapshot.FetchError{URL: "http://example", Err: errors.New("unreachable")}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	testRouter(stubFetcher{err: ferr}).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] == nil || body["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	testRouter(stubFetcher{snap: &snapshot.Snapshot{}}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
