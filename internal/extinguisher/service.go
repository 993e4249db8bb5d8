package extinguisher

import (
	"context"
	"fmt"
	"time"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/metrics"
	"github.com/firesafe-io/firesafe/internal/repository"
	"github.com/firesafe-io/firesafe/internal/snapshot"
)

// Detail is an extinguisher with its derived current placement. Placement is
// nil for an asset that was never placed.
type Detail struct {
	domain.Extinguisher
	Placement *domain.Placement `json:"current_placement,omitempty"`
}

// Service defines the interface for extinguisher operations. The placement
// and service-action histories are append-only; the schedule fields on the
// asset are derived from the action log and never edited directly.
type Service interface {
	List(ctx context.Context, companyID int64) ([]domain.Extinguisher, error)
	Get(ctx context.Context, companyID, id int64) (*Detail, error)
	Create(ctx context.Context, companyID int64, ext *domain.Extinguisher, buildingID int64, placementNote string) error
	Update(ctx context.Context, companyID int64, ext domain.Extinguisher) error
	Delete(ctx context.Context, companyID, id int64) error

	ListPlacements(ctx context.Context, companyID, id int64) ([]domain.Placement, error)
	AddPlacement(ctx context.Context, companyID, id, buildingID int64, description string) (*domain.Placement, error)

	ListServiceActions(ctx context.Context, companyID, id int64) ([]domain.ServiceAction, error)
	RecordServiceAction(ctx context.Context, companyID, id int64, actionType domain.ActionType, description string) (*domain.ServiceAction, error)
}

type service struct {
	extinguishers repository.Extinguisher
	buildings     repository.Building
	recalc        *snapshot.Recalculator
	now           func() time.Time
}

// NewService creates a new extinguisher service
func NewService(extinguishers repository.Extinguisher, buildings repository.Building, recalc *snapshot.Recalculator) Service {
	return &service{
		extinguishers: extinguishers,
		buildings:     buildings,
		recalc:        recalc,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) List(ctx context.Context, companyID int64) ([]domain.Extinguisher, error) {
	return s.extinguishers.ListByCompany(ctx, companyID)
}

// inCompany loads an extinguisher and hides it from other tenants.
func (s *service) inCompany(ctx context.Context, companyID, id int64) (*domain.Extinguisher, error) {
	ext, err := s.extinguishers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ext.ManagedBy != companyID {
		return nil, domain.ErrExtinguisherNotFound
	}
	return ext, nil
}

func (s *service) Get(ctx context.Context, companyID, id int64) (*Detail, error) {
	ext, err := s.inCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	placements, err := s.extinguishers.ListPlacements(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Extinguisher: *ext, Placement: currentPlacement(placements)}, nil
}

// currentPlacement derives the current placement from the append-only
// history: latest CreatedAt wins, exact-timestamp ties go to the highest ID.
// Returns nil for an asset that was never placed. Does not rely on the input
// being sorted.
func currentPlacement(placements []domain.Placement) *domain.Placement {
	var current *domain.Placement
	for i := range placements {
		p := &placements[i]
		if current == nil ||
			p.CreatedAt.After(current.CreatedAt) ||
			(p.CreatedAt.Equal(current.CreatedAt) && p.ID > current.ID) {
			current = p
		}
	}
	return current
}

// Create registers a new asset and its initial placement in one call; an
// extinguisher without any placement is only reachable through imports of
// historic data.
func (s *service) Create(ctx context.Context, companyID int64, ext *domain.Extinguisher, buildingID int64, placementNote string) error {
	if _, err := s.buildings.GetInCompany(ctx, buildingID, companyID); err != nil {
		return err
	}

	ext.ManagedBy = companyID
	ext.Eliminated = false
	ext.NextInspection = nil
	ext.NextPeriodicTest = nil
	if err := s.extinguishers.Create(ctx, ext); err != nil {
		return err
	}

	placement := &domain.Placement{
		Description:    placementNote,
		CreatedAt:      s.now(),
		ExtinguisherID: ext.ID,
		BuildingID:     buildingID,
	}
	if err := s.extinguishers.AddPlacement(ctx, placement); err != nil {
		return fmt.Errorf("extinguisher created but initial placement failed: %w", err)
	}
	return nil
}

func (s *service) Update(ctx context.Context, companyID int64, ext domain.Extinguisher) error {
	if _, err := s.inCompany(ctx, companyID, ext.ID); err != nil {
		return err
	}
	return s.extinguishers.Update(ctx, ext)
}

func (s *service) Delete(ctx context.Context, companyID, id int64) error {
	if _, err := s.inCompany(ctx, companyID, id); err != nil {
		return err
	}
	return s.extinguishers.Delete(ctx, id)
}

func (s *service) ListPlacements(ctx context.Context, companyID, id int64) ([]domain.Placement, error) {
	if _, err := s.inCompany(ctx, companyID, id); err != nil {
		return nil, err
	}
	return s.extinguishers.ListPlacements(ctx, id)
}

func (s *service) AddPlacement(ctx context.Context, companyID, id, buildingID int64, description string) (*domain.Placement, error) {
	if _, err := s.inCompany(ctx, companyID, id); err != nil {
		return nil, err
	}
	if _, err := s.buildings.GetInCompany(ctx, buildingID, companyID); err != nil {
		return nil, err
	}

	placement := &domain.Placement{
		Description:    description,
		CreatedAt:      s.now(),
		ExtinguisherID: id,
		BuildingID:     buildingID,
	}
	if err := s.extinguishers.AddPlacement(ctx, placement); err != nil {
		return nil, err
	}
	return placement, nil
}

func (s *service) ListServiceActions(ctx context.Context, companyID, id int64) ([]domain.ServiceAction, error) {
	if _, err := s.inCompany(ctx, companyID, id); err != nil {
		return nil, err
	}
	return s.extinguishers.ListServiceActions(ctx, id)
}

// RecordServiceAction appends one event to the service log and immediately
// replays it onto the asset's derived schedule fields.
func (s *service) RecordServiceAction(ctx context.Context, companyID, id int64, actionType domain.ActionType, description string) (*domain.ServiceAction, error) {
	log := logger.FromContext(ctx)

	if !actionType.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidActionType, actionType)
	}
	if _, err := s.inCompany(ctx, companyID, id); err != nil {
		return nil, err
	}

	action := &domain.ServiceAction{
		ActionType:     actionType,
		Description:    description,
		CreatedAt:      s.now(),
		ExtinguisherID: id,
	}
	if err := s.extinguishers.AddServiceAction(ctx, action); err != nil {
		return nil, err
	}
	metrics.ServiceActionsTotal.WithLabelValues(string(actionType)).Inc()

	if err := s.recalc.Replay(ctx, []domain.ServiceAction{*action}); err != nil {
		// The event is durable; only the derived fields are stale. A later
		// replay repairs them.
		log.Error("derived-state recalculation failed", "extinguisher_id", id, "error", err)
	}

	log.Info("service action recorded", "extinguisher_id", id, "action_type", actionType)
	return action, nil
}
