package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	submissionsTotal    *prometheus.CounterVec
	leaderboardRequests *prometheus.CounterVec
	seedRunsTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pydays",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pydays",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pydays",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pydays",
			Name:      "submissions_total",
			Help:      "Graded submissions by outcome and grading path.",
		}, []string{"outcome", "graded_by"})

		leaderboardRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pydays",
			Name:      "leaderboard_requests_total",
			Help:      "Leaderboard lookups by cache result.",
		}, []string{"result"})

		seedRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pydays",
			Name:      "seed_runs_total",
			Help:      "Curriculum seed runs by status.",
		}, []string{"status"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, submissionsTotal, leaderboardRequests, seedRunsTotal)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Submissions exposes the graded submission counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// LeaderboardRequests exposes the leaderboard cache counter.
func LeaderboardRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return leaderboardRequests
}

// SeedRuns exposes the seed run counter.
func SeedRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return seedRunsTotal
}
