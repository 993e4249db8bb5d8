package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/metrics"
	"github.com/firesafe-io/firesafe/internal/repository"
)

// DueScanJob counts extinguishers whose inspection or periodic test is
// overdue and publishes the counts as gauges. The service log stays the
// source of truth; this job only reads the derived schedule fields.
type DueScanJob struct {
	extinguishers repository.Extinguisher
	now           func() time.Time
}

// NewDueScanJob creates a new DueScanJob
func NewDueScanJob(extinguishers repository.Extinguisher) *DueScanJob {
	return &DueScanJob{
		extinguishers: extinguishers,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Process implements Job
func (j *DueScanJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := j.now()

	exts, err := j.extinguishers.ListDue(ctx, now)
	if err != nil {
		log.Error(LogMsgDueScanFailed, "error", err)
		return fmt.Errorf("failed to scan due schedules: %w", err)
	}

	var inspections, periodicTests int
	for _, e := range exts {
		if e.NextInspection != nil && !e.NextInspection.After(now) {
			inspections++
		}
		if e.NextPeriodicTest != nil && !e.NextPeriodicTest.After(now) {
			periodicTests++
		}
	}

	metrics.ExtinguishersDue.WithLabelValues(metrics.ScheduleInspection).Set(float64(inspections))
	metrics.ExtinguishersDue.WithLabelValues(metrics.SchedulePeriodicTest).Set(float64(periodicTests))

	log.Info(LogMsgDueScanCompleted,
		"due_inspections", inspections, "due_periodic_tests", periodicTests)
	return nil
}
