package adapters

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trip-planner/backend/internal/application/adapter"
)

const metricsNamespace = "ledger"

// prometheusObserver records replication telemetry as Prometheus metrics.
type prometheusObserver struct {
	writes  *prometheus.CounterVec
	fanOut  prometheus.Histogram
	copies  prometheus.Histogram
	repairs *prometheus.CounterVec
}

// NewPrometheusObserver registers the replication metrics on reg.
func NewPrometheusObserver(reg prometheus.Registerer) adapter.ReplicationObserver {
	o := &prometheusObserver{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replication_writes_total",
			Help:      "Contributor copy writes performed during fan-out.",
		}, []string{"result"}),
		fanOut: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fanout_duration_seconds",
			Help:      "Duration of a full contributor fan-out.",
			Buckets:   prometheus.DefBuckets,
		}),
		copies: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fanout_copies",
			Help:      "Contributor copies touched by one fan-out.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "repair_jobs_total",
			Help:      "Replication repair jobs processed by the worker.",
		}, []string{"result"}),
	}

	reg.MustRegister(o.writes, o.fanOut, o.copies, o.repairs)
	return o
}

func (o *prometheusObserver) ContributorWrite(success bool) {
	o.writes.WithLabelValues(result(success)).Inc()
}

func (o *prometheusObserver) FanOut(duration time.Duration, copies int) {
	o.fanOut.Observe(duration.Seconds())
	o.copies.Observe(float64(copies))
}

func (o *prometheusObserver) RepairJob(success bool) {
	o.repairs.WithLabelValues(result(success)).Inc()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
