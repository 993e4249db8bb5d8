package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firesafe-io/firesafe/internal/domain"
)

// InspectionRepository implements read access to imported inspection data
type InspectionRepository struct {
	db *pgxpool.Pool
}

// NewInspectionRepository creates a new InspectionRepository
func NewInspectionRepository(db *pgxpool.Pool) *InspectionRepository {
	return &InspectionRepository{db: db}
}

const inspectionColumns = `id, inspector_id, date::text, notes, building_id, created_at, uploaded_file`

// ListByBuilding returns the inspection visits recorded for a building
func (r *InspectionRepository) ListByBuilding(ctx context.Context, buildingID int64) ([]domain.InspectionRecord, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspection_records WHERE building_id = $1 ORDER BY date DESC`
	rows, err := r.db.Query(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspection records: %w", err)
	}
	defer rows.Close()

	var records []domain.InspectionRecord
	for rows.Next() {
		var rec domain.InspectionRecord
		if err := rows.Scan(&rec.ID, &rec.InspectorID, &rec.Date, &rec.Notes,
			&rec.BuildingID, &rec.CreatedAt, &rec.UploadedFile); err != nil {
			return nil, fmt.Errorf("failed to scan inspection record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID returns one inspection record
func (r *InspectionRepository) GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspection_records WHERE id = $1`
	var rec domain.InspectionRecord
	err := r.db.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.InspectorID, &rec.Date, &rec.Notes,
		&rec.BuildingID, &rec.CreatedAt, &rec.UploadedFile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInspectionNotFound
		}
		return nil, fmt.Errorf("failed to get inspection record: %w", err)
	}
	return &rec, nil
}

// ListFaultInspections returns the findings of one inspection visit
func (r *InspectionRepository) ListFaultInspections(ctx context.Context, inspectionID int64) ([]domain.FaultInspection, error) {
	query := `
		SELECT id, fault_id, short_name, description, inspection_id, notes, responsible_person, fix_due_date, resolved, present
		FROM fault_inspections WHERE inspection_id = $1 ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fault inspections: %w", err)
	}
	defer rows.Close()

	var findings []domain.FaultInspection
	for rows.Next() {
		var fi domain.FaultInspection
		if err := rows.Scan(&fi.ID, &fi.FaultID, &fi.ShortName, &fi.Description, &fi.InspectionID,
			&fi.Notes, &fi.ResponsiblePerson, &fi.FixDueDate, &fi.Resolved, &fi.Present); err != nil {
			return nil, fmt.Errorf("failed to scan fault inspection: %w", err)
		}
		findings = append(findings, fi)
	}
	return findings, rows.Err()
}

// ListFaultPhotos returns the photo attachments of one finding
func (r *InspectionRepository) ListFaultPhotos(ctx context.Context, faultInspectionID int64) ([]domain.FaultPhoto, error) {
	query := `SELECT id, fault_inspection_id, photo_path, uploaded_at FROM fault_photos WHERE fault_inspection_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, faultInspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fault photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.FaultPhoto
	for rows.Next() {
		var p domain.FaultPhoto
		if err := rows.Scan(&p.ID, &p.FaultInspectionID, &p.PhotoPath, &p.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fault photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
