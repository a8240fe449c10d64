package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AdmissionsTotal counts booking decisions by outcome: confirmed or the
	// rejection code.
	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_admissions_total",
			Help: "Total number of booking requests by outcome",
		},
		[]string{"outcome"},
	)

	AdmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courtbook_admission_duration_seconds",
			Help:    "Time spent admitting a booking request, lock wait included",
			Buckets: prometheus.DefBuckets,
		},
	)

	LockWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courtbook_lock_wait_seconds",
			Help:    "Time spent waiting for a court/date lock",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	ReservationTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_reservation_transitions_total",
			Help: "Total number of reservation status transitions",
		},
		[]string{"status"},
	)

	InvoiceTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_invoice_transitions_total",
			Help: "Total number of invoice status transitions",
		},
		[]string{"status"},
	)

	KafkaMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtbook_kafka_messages_total",
			Help: "Total number of Kafka messages by direction and result",
		},
		[]string{"direction", "topic", "result"},
	)

	KafkaMessageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtbook_kafka_message_duration_seconds",
			Help:    "Kafka publish or handle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction", "topic"},
	)

	SweepCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtbook_sweep_completed_total",
			Help: "Total number of reservations completed by the sweeper",
		},
	)
)

func RecordHTTPRequest(method, path, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func RecordAdmission(outcome string, seconds float64) {
	AdmissionsTotal.WithLabelValues(outcome).Inc()
	AdmissionDuration.Observe(seconds)
}

func RecordLockWait(seconds float64) {
	LockWaitDuration.Observe(seconds)
}

func RecordReservationTransition(status string) {
	ReservationTransitionsTotal.WithLabelValues(status).Inc()
}

func RecordInvoiceTransition(status string) {
	InvoiceTransitionsTotal.WithLabelValues(status).Inc()
}

func RecordKafkaMessage(direction, topic, result string, seconds float64) {
	KafkaMessagesTotal.WithLabelValues(direction, topic, result).Inc()
	KafkaMessageDuration.WithLabelValues(direction, topic).Observe(seconds)
}

func RecordSweep(completed int) {
	SweepCompletedTotal.Add(float64(completed))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
