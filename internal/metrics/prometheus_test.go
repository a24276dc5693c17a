package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	collector := NewPrometheus("test")

	collector.ObserveOperation("create", "ok", 10*time.Millisecond)
	collector.ObserveOperation("create", "ok", 20*time.Millisecond)
	collector.ObserveOperation("list", "degraded", time.Millisecond)
	collector.BestEffortFailed("church_pointer")
	collector.RetryAttempted("assignment.list", 1, errors.New("conn reset"))
	collector.RetryAttempted("assignment.list", 2, errors.New("conn reset"))
	collector.RateLimited("registration")

	if got := testutil.ToFloat64(collector.operations.WithLabelValues("create", "ok")); got != 2 {
		t.Fatalf("expected 2 create operations, got %v", got)
	}
	if got := testutil.ToFloat64(collector.operations.WithLabelValues("list", "degraded")); got != 1 {
		t.Fatalf("expected 1 degraded list, got %v", got)
	}
	if got := testutil.ToFloat64(collector.bestEffort.WithLabelValues("church_pointer")); got != 1 {
		t.Fatalf("expected 1 best effort failure, got %v", got)
	}
	if got := testutil.ToFloat64(collector.retries.WithLabelValues("assignment.list")); got != 2 {
		t.Fatalf("expected 2 retries, got %v", got)
	}
	if got := testutil.ToFloat64(collector.rateLimited.WithLabelValues("registration")); got != 1 {
		t.Fatalf("expected 1 rate limited request, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	collector := NewPrometheus("")
	collector.ObserveRequest(http.MethodGet, "/api/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `church_admin_http_requests_total{method="GET",route="/api/health",status="200"} 1`) {
		t.Fatalf("expected request counter in output:\n%s", body)
	}
}
