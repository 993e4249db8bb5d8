package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Due-Schedule Scan
// ============================================================================

// Log messages for the due-schedule scan job
const (
	LogMsgDueScanCompleted = "Due-schedule scan completed"
	LogMsgDueScanFailed    = "Due-schedule scan failed"
)
