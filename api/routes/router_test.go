package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hansbeauty/dashboard-backend/internal/dashboard"
	"github.com/hansbeauty/dashboard-backend/internal/orders"
	"github.com/hansbeauty/dashboard-backend/internal/upstream"
	"github.com/hansbeauty/dashboard-backend/pkg/config"
)

func newTestRouter(t *testing.T, origin *httptest.Server) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		Upstream: config.UpstreamConfig{
			BaseURL:      origin.URL,
			Timeout:      5 * time.Second,
			PreviewBytes: 500,
		},
		Sessions: config.SessionConfig{TTL: time.Hour},
	}

	client := upstream.NewClient(cfg.Upstream, nil, nil)
	svc, err := dashboard.NewService(client, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	return NewRouter(cfg, nil, client, nil, svc, orders.NewStatusLog(cfg.Sessions.TTL), nil)
}

func upstreamStub() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Rose Serum"}]`))
	})
	mux.HandleFunc("/api/purchases/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"user_id":7,"status":"delivered","product_id":3,"product_name":"Rose Serum","product_price":"10.00"}]`))
	})
	mux.HandleFunc("/api/purchase/stats/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bar_chart":[],"pie_chart":[]}`))
	})
	return httptest.NewServer(mux)
}

func TestRouterProxyEndpoints(t *testing.T) {
	origin := upstreamStub()
	defer origin.Close()
	router := newTestRouter(t, origin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("products: expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `[{"id":1,"name":"Rose Serum"}]` {
		t.Fatalf("products body should relay verbatim, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/purchases", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("purchases: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"user":{`) {
		t.Fatalf("purchases should be normalized, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/purchase/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"bar_chart":[],"pie_chart":[]}` {
		t.Fatalf("stats body should relay verbatim, got %s", rec.Body.String())
	}
}

func TestRouterChartEndpoints(t *testing.T) {
	origin := upstreamStub()
	defer origin.Close()
	router := newTestRouter(t, origin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts/revenue", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("revenue chart: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts/province", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("province chart: expected 200, got %d", rec.Code)
	}
}

func TestRouterDashboardComposition(t *testing.T) {
	origin := upstreamStub()
	defer origin.Close()
	router := newTestRouter(t, origin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/overview", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Data struct {
			Summary struct {
				TotalOrders  int     `json:"total_orders"`
				TotalRevenue float64 `json:"total_revenue"`
			} `json:"summary"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if payload.Data.Summary.TotalOrders != 1 || payload.Data.Summary.TotalRevenue != 10 {
		t.Fatalf("unexpected summary %+v", payload.Data.Summary)
	}
}

func TestRouterOrderStatusRoundTrip(t *testing.T) {
	origin := upstreamStub()
	defer origin.Close()
	router := newTestRouter(t, origin)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/1/status", strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set("X-Session-Id", "sess-router")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("X-Session-Id", "sess-router")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"status":"cancelled"`) {
		t.Fatalf("expected override applied, got %s", rec.Body.String())
	}
}

func TestRouterHealthLive(t *testing.T) {
	origin := upstreamStub()
	defer origin.Close()
	router := newTestRouter(t, origin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterUpstreamDownProxiesFetchFailed(t *testing.T) {
	origin := upstreamStub()
	origin.Close()
	router := newTestRouter(t, origin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Fetch failed"`) {
		t.Fatalf("expected Fetch failed envelope, got %s", rec.Body.String())
	}
}
