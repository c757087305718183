package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}

// Metrics holds the bridge's Prometheus collectors.
type Metrics struct {
	RecordsAdmitted prometheus.Counter
	RecordsAcked    prometheus.Counter
	RecordsFailed   *prometheus.CounterVec // stage: admission|flush
	FlushCycles     *prometheus.CounterVec // result: ok|error
	PendingBytes    prometheus.Gauge
	PendingRecords  prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sinkbridge",
			Name:      "records_admitted_total",
			Help:      "Records translated and handed downstream.",
		}),
		RecordsAcked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sinkbridge",
			Name:      "records_acked_total",
			Help:      "Records acknowledged to the upstream log.",
		}),
		RecordsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sinkbridge",
			Name:      "records_failed_total",
			Help:      "Records failed back to the upstream log, by stage.",
		}, []string{"stage"}),
		FlushCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sinkbridge",
			Name:      "flush_cycles_total",
			Help:      "Completed flush cycles, by result.",
		}, []string{"result"}),
		PendingBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sinkbridge",
			Name:      "pending_bytes",
			Help:      "Bytes admitted but not yet acknowledged or failed.",
		}),
		PendingRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sinkbridge",
			Name:      "pending_records",
			Help:      "Records admitted but not yet acknowledged or failed.",
		}),
	}
}

// NewMetrics creates the collectors and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsAdmitted,
		m.RecordsAcked,
		m.RecordsFailed,
		m.FlushCycles,
		m.PendingBytes,
		m.PendingRecords,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many bridges as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
