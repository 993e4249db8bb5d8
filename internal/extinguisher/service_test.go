package extinguisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/snapshot"
)

// MockExtinguisherRepository
type MockExtinguisherRepository struct {
	mock.Mock
}

func (m *MockExtinguisherRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Extinguisher, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Extinguisher), args.Error(1)
}

func (m *MockExtinguisherRepository) GetByID(ctx context.Context, id int64) (*domain.Extinguisher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Extinguisher), args.Error(1)
}

func (m *MockExtinguisherRepository) Create(ctx context.Context, ext *domain.Extinguisher) error {
	args := m.Called(ctx, ext)
	return args.Error(0)
}

func (m *MockExtinguisherRepository) Update(ctx context.Context, ext domain.Extinguisher) error {
	args := m.Called(ctx, ext)
	return args.Error(0)
}

func (m *MockExtinguisherRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExtinguisherRepository) UpdateSchedule(ctx context.Context, id int64, nextInspection, nextPeriodicTest *time.Time, eliminated bool) error {
	args := m.Called(ctx, id, nextInspection, nextPeriodicTest, eliminated)
	return args.Error(0)
}

func (m *MockExtinguisherRepository) ListDue(ctx context.Context, now time.Time) ([]domain.Extinguisher, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Extinguisher), args.Error(1)
}

func (m *MockExtinguisherRepository) ListPlacements(ctx context.Context, extinguisherID int64) ([]domain.Placement, error) {
	args := m.Called(ctx, extinguisherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Placement), args.Error(1)
}

func (m *MockExtinguisherRepository) ListPlacementsByCompany(ctx context.Context, companyID int64) ([]domain.Placement, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Placement), args.Error(1)
}

func (m *MockExtinguisherRepository) AddPlacement(ctx context.Context, placement *domain.Placement) error {
	args := m.Called(ctx, placement)
	return args.Error(0)
}

func (m *MockExtinguisherRepository) ListServiceActions(ctx context.Context, extinguisherID int64) ([]domain.ServiceAction, error) {
	args := m.Called(ctx, extinguisherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceAction), args.Error(1)
}

func (m *MockExtinguisherRepository) ListServiceActionsByCompany(ctx context.Context, companyID int64) ([]domain.ServiceAction, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceAction), args.Error(1)
}

func (m *MockExtinguisherRepository) AddServiceAction(ctx context.Context, action *domain.ServiceAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

// MockBuildingRepository
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Building, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) GetByID(ctx context.Context, id int64) (*domain.Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) GetInCompany(ctx context.Context, id, companyID int64) (*domain.Building, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) Create(ctx context.Context, building *domain.Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockBuildingRepository) Update(ctx context.Context, building domain.Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockBuildingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(exts *MockExtinguisherRepository, buildings *MockBuildingRepository) Service {
	return NewService(exts, buildings, snapshot.NewRecalculator(exts))
}

func TestGet_WithCurrentPlacement(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)
	buildings := new(MockBuildingRepository)

	exts.On("GetByID", ctx, int64(40)).Return(&domain.Extinguisher{ID: 40, ManagedBy: 5, Kind: "water"}, nil)
	exts.On("ListPlacements", ctx, int64(40)).Return([]domain.Placement{
		{ID: 7, BuildingID: 10, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 6, BuildingID: 11, CreatedAt: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	svc := newTestService(exts, buildings)
	detail, err := svc.Get(ctx, 5, 40)

	require.NoError(t, err)
	assert.Equal(t, int64(40), detail.ID)
	require.NotNil(t, detail.Placement)
	assert.Equal(t, int64(7), detail.Placement.ID)
	exts.AssertExpectations(t)
}

func TestGet_NeverPlaced(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)

	exts.On("GetByID", ctx, int64(40)).Return(&domain.Extinguisher{ID: 40, ManagedBy: 5}, nil)
	exts.On("ListPlacements", ctx, int64(40)).Return([]domain.Placement{}, nil)

	svc := newTestService(exts, new(MockBuildingRepository))
	detail, err := svc.Get(ctx, 5, 40)

	require.NoError(t, err)
	assert.Nil(t, detail.Placement)
}

func TestGet_OtherTenantSeesNotFound(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)

	exts.On("GetByID", ctx, int64(40)).Return(&domain.Extinguisher{ID: 40, ManagedBy: 5}, nil)

	svc := newTestService(exts, new(MockBuildingRepository))
	_, err := svc.Get(ctx, 999, 40)

	assert.ErrorIs(t, err, domain.ErrExtinguisherNotFound)
	exts.AssertNotCalled(t, "ListPlacements", mock.Anything, mock.Anything)
}

func TestCurrentPlacement(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		placements []domain.Placement
		wantID     int64
	}{
		{
			name: "latest created_at wins regardless of input order",
			placements: []domain.Placement{
				{ID: 3, CreatedAt: day(2)},
				{ID: 1, CreatedAt: day(5)},
				{ID: 2, CreatedAt: day(1)},
			},
			wantID: 1,
		},
		{
			name: "exact timestamp tie goes to highest id",
			placements: []domain.Placement{
				{ID: 9, CreatedAt: day(5)},
				{ID: 12, CreatedAt: day(5)},
				{ID: 11, CreatedAt: day(5)},
			},
			wantID: 12,
		},
		{
			name: "single placement",
			placements: []domain.Placement{
				{ID: 4, CreatedAt: day(1)},
			},
			wantID: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := currentPlacement(tt.placements)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestCurrentPlacement_EmptyHistory(t *testing.T) {
	assert.Nil(t, currentPlacement(nil))
	assert.Nil(t, currentPlacement([]domain.Placement{}))
}

func TestCreate_ZeroesDerivedFieldsAndPlacesAsset(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)
	buildings := new(MockBuildingRepository)

	buildings.On("GetInCompany", ctx, int64(10), int64(5)).Return(&domain.Building{ID: 10, CompanyID: 5}, nil)
	exts.On("Create", ctx, mock.AnythingOfType("*domain.Extinguisher")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Extinguisher).ID = 41
	}).Return(nil)
	exts.On("AddPlacement", ctx, mock.AnythingOfType("*domain.Placement")).Return(nil)

	stale := time.Now()
	ext := &domain.Extinguisher{
		Kind: "powder", SerialNumber: "S-41",
		Eliminated: true, NextInspection: &stale, NextPeriodicTest: &stale,
	}

	svc := newTestService(exts, buildings)
	err := svc.Create(ctx, 5, ext, 10, "lobby")

	require.NoError(t, err)
	assert.Equal(t, int64(5), ext.ManagedBy)
	assert.False(t, ext.Eliminated)
	assert.Nil(t, ext.NextInspection)
	assert.Nil(t, ext.NextPeriodicTest)

	placement := exts.Calls[1].Arguments.Get(1).(*domain.Placement)
	assert.Equal(t, int64(41), placement.ExtinguisherID)
	assert.Equal(t, int64(10), placement.BuildingID)
	assert.Equal(t, "lobby", placement.Description)
	assert.False(t, placement.CreatedAt.IsZero())
}

func TestCreate_RejectsForeignBuilding(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)
	buildings := new(MockBuildingRepository)

	buildings.On("GetInCompany", ctx, int64(10), int64(5)).Return(nil, domain.ErrBuildingNotFound)

	svc := newTestService(exts, buildings)
	err := svc.Create(ctx, 5, &domain.Extinguisher{Kind: "powder"}, 10, "")

	assert.ErrorIs(t, err, domain.ErrBuildingNotFound)
	exts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddPlacement_ValidatesBuilding(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)
	buildings := new(MockBuildingRepository)

	exts.On("GetByID", ctx, int64(40)).Return(&domain.Extinguisher{ID: 40, ManagedBy: 5}, nil)
	buildings.On("GetInCompany", ctx, int64(10), int64(5)).Return(nil, domain.ErrBuildingNotFound)

	svc := newTestService(exts, buildings)
	_, err := svc.AddPlacement(ctx, 5, 40, 10, "moved to lobby")

	assert.ErrorIs(t, err, domain.ErrBuildingNotFound)
	exts.AssertNotCalled(t, "AddPlacement", mock.Anything, mock.Anything)
}

func TestRecordServiceAction_InvalidType(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)

	svc := newTestService(exts, new(MockBuildingRepository))
	_, err := svc.RecordServiceAction(ctx, 5, 40, "polishing", "")

	assert.ErrorIs(t, err, domain.ErrInvalidActionType)
	exts.AssertNotCalled(t, "AddServiceAction", mock.Anything, mock.Anything)
}

func TestRecordServiceAction_AppendsAndRecalculates(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)

	exts.On("GetByID", ctx, int64(40)).Return(&domain.Extinguisher{ID: 40, ManagedBy: 5, Kind: "water"}, nil)
	exts.On("AddServiceAction", ctx, mock.AnythingOfType("*domain.ServiceAction")).Return(nil)
	// the replay writes the derived schedule a year out from the event
	exts.On("UpdateSchedule", ctx, int64(40),
		mock.AnythingOfType("*time.Time"), (*time.Time)(nil), false).Return(nil)

	svc := newTestService(exts, new(MockBuildingRepository))
	action, err := svc.RecordServiceAction(ctx, 5, 40, domain.ActionInspection, "annual check")

	require.NoError(t, err)
	assert.Equal(t, domain.ActionInspection, action.ActionType)
	assert.Equal(t, int64(40), action.ExtinguisherID)
	assert.False(t, action.CreatedAt.IsZero())
	exts.AssertExpectations(t)

	call := exts.Calls[len(exts.Calls)-1]
	require.Equal(t, "UpdateSchedule", call.Method)
	next := call.Arguments.Get(2).(*time.Time)
	require.NotNil(t, next)
	assert.Equal(t, action.CreatedAt.AddDate(1, 0, 0), *next)
}

func TestDelete_OtherTenantSeesNotFound(t *testing.T) {
	ctx := context.Background()
	exts := new(MockExtinguisherRepository)

	exts.On("GetByID", ctx, int64(40)).Return(&domain.Extinguisher{ID: 40, ManagedBy: 5}, nil)

	svc := newTestService(exts, new(MockBuildingRepository))
	err := svc.Delete(ctx, 999, 40)

	assert.ErrorIs(t, err, domain.ErrExtinguisherNotFound)
	exts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
