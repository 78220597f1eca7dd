package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	jobmetrics "github.com/laporan-latin/laporan-latin/internal/jobs"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
)

var _ upstream.Observer = (*Metrics)(nil)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesJobMetrics(t *testing.T) {
	metrics := NewMetrics()
	jobs := jobmetrics.NewMetrics(metrics.Registerer())
	_ = jobs.Track("lalin:report_warmup").End(nil)

	body := scrape(t, metrics)
	if !strings.Contains(body, `latin_jobs_total{job="lalin:report_warmup",status="success"} 1`) {
		t.Fatalf("expected body to contain latin_jobs_total, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/laporan-latin")

	req := httptest.NewRequest(http.MethodGet, "/laporan-latin", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, `latin_http_requests_total{code="418",route="/laporan-latin"} 1`) {
		t.Fatalf("expected metrics to record request, got: %s", body)
	}
	if !strings.Contains(body, `latin_http_request_duration_seconds_bucket{route="/laporan-latin"`) {
		t.Fatalf("expected duration histogram to be present, got: %s", body)
	}
}

func TestObserveUpstream(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveUpstream("/lalins", http.StatusOK, 120*time.Millisecond)
	metrics.ObserveUpstream("/lalins", 0, time.Second)

	body := scrape(t, metrics)
	if !strings.Contains(body, `latin_upstream_request_duration_seconds_count{endpoint="/lalins",status="200"} 1`) {
		t.Fatalf("expected upstream histogram, got: %s", body)
	}
	if !strings.Contains(body, `latin_upstream_request_duration_seconds_count{endpoint="/lalins",status="0"} 1`) {
		t.Fatalf("expected transport failure sample, got: %s", body)
	}
}

func TestNilMetricsAreInert(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveUpstream("/lalins", 200, time.Millisecond)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	metrics.Middleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("expected nil metrics middleware to pass through")
	}

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from nil metrics, got %d", rr.Code)
	}
}
