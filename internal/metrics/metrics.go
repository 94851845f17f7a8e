package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "submission_total",
			Help:      "Count of booking submissions by result.",
		},
		[]string{"result"},
	)

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "reservations_created_total",
			Help:      "Count of reservation records created.",
		},
	)

	reservationsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "reservations_deleted_total",
			Help:      "Count of reservation records hard-deleted.",
		},
	)

	conflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "conflict_total",
			Help:      "Count of submissions rejected for overlapping blocks.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(submissions, reservationsCreated, reservationsDeleted, conflicts, httpRequests)
	})
}

func IncSubmission(result string) {
	submissions.WithLabelValues(result).Inc()
}

func AddReservationsCreated(n int) {
	reservationsCreated.Add(float64(n))
}

func AddReservationsDeleted(n int64) {
	reservationsDeleted.Add(float64(n))
}

func IncConflict() {
	conflicts.Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
