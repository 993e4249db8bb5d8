package facility

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/firesafe-io/firesafe/internal/blob"
	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/repository"
)

// Service defines the interface for facility-register operations: the tenant
// company, its building owners, the shared manager pool, buildings and the
// fault catalog. Everything tenant-owned is checked against the caller's
// company before it is returned or changed.
type Service interface {
	GetCompany(ctx context.Context, companyID int64) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
	UpdateCompanyLogo(ctx context.Context, companyID int64, filename string, content io.Reader) (string, error)

	ListOwners(ctx context.Context, companyID int64) ([]domain.BuildingOwner, error)
	GetOwner(ctx context.Context, companyID, id int64) (*domain.BuildingOwner, error)
	CreateOwner(ctx context.Context, companyID int64, owner *domain.BuildingOwner) error
	UpdateOwner(ctx context.Context, companyID int64, owner domain.BuildingOwner) error
	DeleteOwner(ctx context.Context, companyID, id int64) error

	ListManagers(ctx context.Context) ([]domain.BuildingManager, error)
	GetManager(ctx context.Context, id int64) (*domain.BuildingManager, error)
	CreateManager(ctx context.Context, manager *domain.BuildingManager) error
	UpdateManager(ctx context.Context, manager domain.BuildingManager) error
	DeleteManager(ctx context.Context, id int64) error

	ListBuildings(ctx context.Context, companyID int64) ([]domain.Building, error)
	GetBuilding(ctx context.Context, companyID, id int64) (*domain.Building, error)
	CreateBuilding(ctx context.Context, companyID int64, building *domain.Building) error
	UpdateBuilding(ctx context.Context, companyID int64, building domain.Building) error
	DeleteBuilding(ctx context.Context, companyID, id int64) error

	ListFaults(ctx context.Context) ([]domain.Fault, error)
	CreateFault(ctx context.Context, fault *domain.Fault) error
	UpdateFault(ctx context.Context, fault domain.Fault) error
	DeleteFault(ctx context.Context, id int64) error
	ListPossibleFaults(ctx context.Context, companyID, buildingID int64) ([]domain.PossibleFault, error)
	AddPossibleFault(ctx context.Context, companyID, faultID, buildingID int64) error
	RemovePossibleFault(ctx context.Context, companyID, faultID, buildingID int64) error
}

type service struct {
	companies repository.Company
	owners    repository.Owner
	managers  repository.Manager
	buildings repository.Building
	faults    repository.Fault
	blobs     blob.Store
}

// NewService creates a new facility service
func NewService(
	companies repository.Company,
	owners repository.Owner,
	managers repository.Manager,
	buildings repository.Building,
	faults repository.Fault,
	blobs blob.Store,
) Service {
	return &service{
		companies: companies,
		owners:    owners,
		managers:  managers,
		buildings: buildings,
		faults:    faults,
		blobs:     blobs,
	}
}

func (s *service) GetCompany(ctx context.Context, companyID int64) (*domain.Company, error) {
	return s.companies.GetByID(ctx, companyID)
}

func (s *service) UpdateCompany(ctx context.Context, company domain.Company) error {
	existing, err := s.companies.GetByID(ctx, company.ID)
	if err != nil {
		return err
	}
	// Logo changes go through UpdateCompanyLogo only.
	company.LogoPath = existing.LogoPath
	return s.companies.Update(ctx, company)
}

func (s *service) UpdateCompanyLogo(ctx context.Context, companyID int64, filename string, content io.Reader) (string, error) {
	log := logger.FromContext(ctx)

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("logos/company_%d_%s", companyID, filepath.Base(filename))
	if _, err := s.blobs.Put(ctx, name, content); err != nil {
		return "", fmt.Errorf("failed to store logo: %w", err)
	}

	old := company.LogoPath
	company.LogoPath = &name
	if err := s.companies.Update(ctx, *company); err != nil {
		s.blobs.Delete(ctx, name)
		return "", err
	}
	if old != nil && *old != name {
		if err := s.blobs.Delete(ctx, *old); err != nil {
			log.Warn("failed to remove previous logo", "blob", *old, "error", err)
		}
	}
	return name, nil
}

func (s *service) ListOwners(ctx context.Context, companyID int64) ([]domain.BuildingOwner, error) {
	return s.owners.ListByCompany(ctx, companyID)
}

// ownerInCompany loads an owner and hides it from other tenants.
func (s *service) ownerInCompany(ctx context.Context, companyID, id int64) (*domain.BuildingOwner, error) {
	owner, err := s.owners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner.ManagedBy == nil || *owner.ManagedBy != companyID {
		return nil, domain.ErrOwnerNotFound
	}
	return owner, nil
}

func (s *service) GetOwner(ctx context.Context, companyID, id int64) (*domain.BuildingOwner, error) {
	return s.ownerInCompany(ctx, companyID, id)
}

func (s *service) CreateOwner(ctx context.Context, companyID int64, owner *domain.BuildingOwner) error {
	owner.ManagedBy = &companyID
	return s.owners.Create(ctx, owner)
}

func (s *service) UpdateOwner(ctx context.Context, companyID int64, owner domain.BuildingOwner) error {
	if _, err := s.ownerInCompany(ctx, companyID, owner.ID); err != nil {
		return err
	}
	owner.ManagedBy = &companyID
	return s.owners.Update(ctx, owner)
}

func (s *service) DeleteOwner(ctx context.Context, companyID, id int64) error {
	if _, err := s.ownerInCompany(ctx, companyID, id); err != nil {
		return err
	}
	return s.owners.Delete(ctx, id)
}

func (s *service) ListManagers(ctx context.Context) ([]domain.BuildingManager, error) {
	return s.managers.List(ctx)
}

func (s *service) GetManager(ctx context.Context, id int64) (*domain.BuildingManager, error) {
	return s.managers.GetByID(ctx, id)
}

func (s *service) CreateManager(ctx context.Context, manager *domain.BuildingManager) error {
	return s.managers.Create(ctx, manager)
}

func (s *service) UpdateManager(ctx context.Context, manager domain.BuildingManager) error {
	return s.managers.Update(ctx, manager)
}

func (s *service) DeleteManager(ctx context.Context, id int64) error {
	return s.managers.Delete(ctx, id)
}

func (s *service) ListBuildings(ctx context.Context, companyID int64) ([]domain.Building, error) {
	return s.buildings.ListByCompany(ctx, companyID)
}

func (s *service) GetBuilding(ctx context.Context, companyID, id int64) (*domain.Building, error) {
	return s.buildings.GetInCompany(ctx, id, companyID)
}

// checkBuildingRefs validates the owner and manager references of a building.
func (s *service) checkBuildingRefs(ctx context.Context, companyID int64, building domain.Building) error {
	if _, err := s.ownerInCompany(ctx, companyID, building.OwnerID); err != nil {
		return err
	}
	if building.ManagerID != nil {
		if _, err := s.managers.GetByID(ctx, *building.ManagerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) CreateBuilding(ctx context.Context, companyID int64, building *domain.Building) error {
	building.CompanyID = companyID
	if err := s.checkBuildingRefs(ctx, companyID, *building); err != nil {
		return err
	}
	return s.buildings.Create(ctx, building)
}

func (s *service) UpdateBuilding(ctx context.Context, companyID int64, building domain.Building) error {
	if _, err := s.buildings.GetInCompany(ctx, building.ID, companyID); err != nil {
		return err
	}
	building.CompanyID = companyID
	if err := s.checkBuildingRefs(ctx, companyID, building); err != nil {
		return err
	}
	return s.buildings.Update(ctx, building)
}

func (s *service) DeleteBuilding(ctx context.Context, companyID, id int64) error {
	if _, err := s.buildings.GetInCompany(ctx, id, companyID); err != nil {
		return err
	}
	return s.buildings.Delete(ctx, id)
}

func (s *service) ListFaults(ctx context.Context) ([]domain.Fault, error) {
	return s.faults.List(ctx)
}

func (s *service) CreateFault(ctx context.Context, fault *domain.Fault) error {
	return s.faults.Create(ctx, fault)
}

func (s *service) UpdateFault(ctx context.Context, fault domain.Fault) error {
	return s.faults.Update(ctx, fault)
}

func (s *service) DeleteFault(ctx context.Context, id int64) error {
	return s.faults.Delete(ctx, id)
}

func (s *service) ListPossibleFaults(ctx context.Context, companyID, buildingID int64) ([]domain.PossibleFault, error) {
	if _, err := s.buildings.GetInCompany(ctx, buildingID, companyID); err != nil {
		return nil, err
	}
	return s.faults.ListPossibleByBuilding(ctx, buildingID)
}

func (s *service) AddPossibleFault(ctx context.Context, companyID, faultID, buildingID int64) error {
	if _, err := s.buildings.GetInCompany(ctx, buildingID, companyID); err != nil {
		return err
	}
	if _, err := s.faults.GetByID(ctx, faultID); err != nil {
		return err
	}
	return s.faults.AddPossible(ctx, &domain.PossibleFault{FaultID: faultID, BuildingID: buildingID})
}

func (s *service) RemovePossibleFault(ctx context.Context, companyID, faultID, buildingID int64) error {
	if _, err := s.buildings.GetInCompany(ctx, buildingID, companyID); err != nil {
		return err
	}
	return s.faults.RemovePossible(ctx, faultID, buildingID)
}
