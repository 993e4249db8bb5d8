package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Sync Metrics
var (
	SnapshotExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotExportsTotal,
			Help: HelpTextSnapshotExportsTotal,
		},
		[]string{LabelOutcome},
	)

	SnapshotImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotImportsTotal,
			Help: HelpTextSnapshotImportsTotal,
		},
		[]string{LabelOutcome},
	)

	SnapshotImportedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotImportedRows,
			Help: HelpTextSnapshotImportedRows,
		},
		[]string{LabelTable},
	)

	ServiceActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameServiceActionsTotal,
			Help: HelpTextServiceActionsTotal,
		},
		[]string{LabelAction},
	)

	ExtinguishersDue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameExtinguishersDue,
			Help: HelpTextExtinguishersDue,
		},
		[]string{LabelSchedule},
	)
)
