package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ErlanBelekov/voltforge-storefront/internal/health"
)

var (
	// Store metrics

	StoreOpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "store_op_duration_seconds",
		Help:      "Latency of a single key read or write, including (de)serialization.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"op"})

	// Collection metrics

	CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_mutations_total",
		Help:      "Cart writes, by operation.",
	}, []string{"op"})

	CheckoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkouts_total",
		Help:      "Carts emptied by a successful checkout.",
	})

	FavoriteMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "favorite_mutations_total",
		Help:      "Favorites writes, by operation.",
	}, []string{"op"})

	AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "auth_attempts_total",
		Help:      "Sign-up, sign-in and gate checks, by outcome.",
	}, []string{"op", "outcome"})

	// UI synchronizer

	UIResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "ui_resolutions_total",
		Help:      "Pointer events resolved to an action, by the strategy that matched.",
	}, []string{"strategy"})

	// Janitor

	JanitorPurgedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "janitor_purged_total",
		Help:      "Idle client state removed by the janitor.",
	}, []string{"kind"})

	JanitorRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "janitor_run_duration_seconds",
		Help:      "Time taken for one janitor run.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		StoreOpDuration,
		CartMutationsTotal,
		CheckoutsTotal,
		FavoriteMutationsTotal,
		AuthAttemptsTotal,
		UIResolutionsTotal,
		JanitorPurgedTotal,
		JanitorRunDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
