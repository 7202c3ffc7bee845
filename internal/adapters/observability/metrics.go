package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staybook", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "staybook", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	Bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staybook", Name: "bookings_total", Help: "Booking operations by outcome."},
		[]string{"op", "outcome"}, // op: create|cancel|confirm, outcome: ok|rejected|error
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staybook", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, Bookings, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveBooking(op, outcome string) {
	Bookings.WithLabelValues(op, outcome).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
