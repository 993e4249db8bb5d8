package inspection

import (
	"context"
	"io"

	"github.com/firesafe-io/firesafe/internal/blob"
	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/repository"
)

// Detail is one inspection visit with its findings and their photos.
type Detail struct {
	domain.InspectionRecord
	Findings []Finding `json:"findings"`
}

// Finding is one fault observation with its photo attachments.
type Finding struct {
	domain.FaultInspection
	Photos []domain.FaultPhoto `json:"photos"`
}

// Service defines the read interface for imported inspection data. Inspection
// rows are created exclusively by the snapshot import pipeline.
type Service interface {
	ListByBuilding(ctx context.Context, companyID, buildingID int64) ([]domain.InspectionRecord, error)
	Get(ctx context.Context, companyID, id int64) (*Detail, error)
	// OpenPhoto streams a fault photo after checking the photo's inspection
	// belongs to the caller's company.
	OpenPhoto(ctx context.Context, companyID, inspectionID, findingID, photoID int64) (io.ReadCloser, error)
}

type service struct {
	inspections repository.Inspection
	buildings   repository.Building
	blobs       blob.Store
}

// NewService creates a new inspection service
func NewService(inspections repository.Inspection, buildings repository.Building, blobs blob.Store) Service {
	return &service{inspections: inspections, buildings: buildings, blobs: blobs}
}

func (s *service) ListByBuilding(ctx context.Context, companyID, buildingID int64) ([]domain.InspectionRecord, error) {
	if _, err := s.buildings.GetInCompany(ctx, buildingID, companyID); err != nil {
		return nil, err
	}
	return s.inspections.ListByBuilding(ctx, buildingID)
}

// inCompany loads an inspection record and hides it from other tenants.
func (s *service) inCompany(ctx context.Context, companyID, id int64) (*domain.InspectionRecord, error) {
	rec, err := s.inspections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.buildings.GetInCompany(ctx, rec.BuildingID, companyID); err != nil {
		return nil, domain.ErrInspectionNotFound
	}
	return rec, nil
}

func (s *service) Get(ctx context.Context, companyID, id int64) (*Detail, error) {
	rec, err := s.inCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	findings, err := s.inspections.ListFaultInspections(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{InspectionRecord: *rec, Findings: make([]Finding, 0, len(findings))}
	for _, fi := range findings {
		photos, err := s.inspections.ListFaultPhotos(ctx, fi.ID)
		if err != nil {
			return nil, err
		}
		detail.Findings = append(detail.Findings, Finding{FaultInspection: fi, Photos: photos})
	}
	return detail, nil
}

func (s *service) OpenPhoto(ctx context.Context, companyID, inspectionID, findingID, photoID int64) (io.ReadCloser, error) {
	if _, err := s.inCompany(ctx, companyID, inspectionID); err != nil {
		return nil, err
	}

	photos, err := s.inspections.ListFaultPhotos(ctx, findingID)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		if p.ID == photoID {
			return s.blobs.Open(ctx, p.PhotoPath)
		}
	}
	return nil, domain.ErrInspectionNotFound
}
