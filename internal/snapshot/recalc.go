package snapshot

import (
	"context"
	"time"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/repository"
)

// ApplyAction computes the effect of one service action on an extinguisher's
// derived schedule fields, in place. It reports whether anything changed.
// Each action encodes its own effect relative to its own timestamp, so no
// history lookback is needed.
func ApplyAction(ext *domain.Extinguisher, action domain.ServiceAction) bool {
	switch action.ActionType {
	case domain.ActionInspection:
		next := action.CreatedAt.AddDate(1, 0, 0)
		ext.NextInspection = &next
		return true
	case domain.ActionPeriodicTest:
		next := action.CreatedAt.AddDate(1, 0, 0)
		ext.NextInspection = &next
		years := 5
		if ext.Kind == domain.KindWater || ext.Kind == domain.KindFoam {
			years = 3
		}
		test := action.CreatedAt.AddDate(years, 0, 0)
		ext.NextPeriodicTest = &test
		return true
	case domain.ActionElimination:
		ext.Eliminated = true
		ext.NextInspection = nil
		ext.NextPeriodicTest = nil
		return true
	default:
		return false
	}
}

// Recalculator replays committed service actions onto the extinguishers'
// derived fields. It runs after the import transaction commits: a crash in
// between leaves correct raw history and stale derived fields, repairable by
// replaying.
type Recalculator struct {
	extinguishers repository.Extinguisher
}

// NewRecalculator creates a new Recalculator
func NewRecalculator(extinguishers repository.Extinguisher) *Recalculator {
	return &Recalculator{extinguishers: extinguishers}
}

// Replay applies the actions strictly in the given order so that when several
// actions target the same extinguisher, the last one wins.
func (r *Recalculator) Replay(ctx context.Context, actions []domain.ServiceAction) error {
	log := logger.FromContext(ctx)

	for _, action := range actions {
		ext, err := r.extinguishers.GetByID(ctx, action.ExtinguisherID)
		if err != nil {
			return err
		}
		if !ApplyAction(ext, action) {
			log.Debug("service action has no derived-field effect",
				"action_type", action.ActionType, "extinguisher_id", action.ExtinguisherID)
			continue
		}
		if err := r.extinguishers.UpdateSchedule(ctx, ext.ID, ext.NextInspection, ext.NextPeriodicTest, ext.Eliminated); err != nil {
			return err
		}
	}
	return nil
}

// Stale schedule detection helper used by maintenance tooling; an
// extinguisher is due when its next inspection is on or before now.
func Due(ext domain.Extinguisher, now time.Time) bool {
	if ext.Eliminated || ext.NextInspection == nil {
		return false
	}
	return !ext.NextInspection.After(now)
}
