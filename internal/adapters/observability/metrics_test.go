package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staybook/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveBooking("create", "ok")
	observability.ObserveCache("redis", "hit")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"staybook_http_requests_total",
		"staybook_bookings_total",
		"staybook_cache_events_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
