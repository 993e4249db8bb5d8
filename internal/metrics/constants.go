package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameSnapshotExportsTotal = "snapshot_exports_total"
	MetricNameSnapshotImportsTotal = "snapshot_imports_total"
	MetricNameSnapshotImportedRows = "snapshot_imported_rows_total"
	MetricNameServiceActionsTotal  = "service_actions_recorded_total"
	MetricNameExtinguishersDue     = "extinguishers_due"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextSnapshotExportsTotal = "Total number of snapshot exports by outcome"
	HelpTextSnapshotImportsTotal = "Total number of snapshot imports by outcome"
	HelpTextSnapshotImportedRows = "Total number of rows created by snapshot imports"
	HelpTextServiceActionsTotal  = "Total number of service actions recorded"
	HelpTextExtinguishersDue     = "Number of extinguishers with an overdue schedule, by schedule kind"
)

// Metric label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelOutcome  = "outcome"
	LabelTable    = "table"
	LabelAction   = "action"
	LabelSchedule = "schedule"
)

// Schedule label values for the due gauge
const (
	ScheduleInspection   = "inspection"
	SchedulePeriodicTest = "periodic_test"
)

// Import outcome label values
const (
	OutcomeSuccess    = "success"
	OutcomeSchemaErr  = "schema_error"
	OutcomeValidation = "validation_error"
	OutcomeFailure    = "failure"
)

// HTTPLatencyBuckets are the histogram buckets for request latency.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
