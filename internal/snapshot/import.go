package snapshot

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/firesafe-io/firesafe/internal/blob"
	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/logger"
	"github.com/firesafe-io/firesafe/internal/metrics"
	"github.com/firesafe-io/firesafe/internal/repository"
)

// ImportResult summarizes one successful import.
type ImportResult struct {
	Created int `json:"created"`
}

// Importer merges an uploaded field-device snapshot into live storage. All
// row writes happen on one transaction: either the whole upload lands or
// nothing does. Blob writes are outside the transaction and are deleted by
// path when the transaction aborts.
type Importer struct {
	sync   repository.Sync
	blobs  blob.Store
	recalc *Recalculator
	tmpDir string
}

// NewImporter creates a new Importer
func NewImporter(sync repository.Sync, blobs blob.Store, recalc *Recalculator, tmpDir string) *Importer {
	return &Importer{sync: sync, blobs: blobs, recalc: recalc, tmpDir: tmpDir}
}

// Import validates and applies one uploaded snapshot on behalf of the
// importing company. inspectorID is the importing user; the snapshot's
// inspection record must name the same inspector. The upload stream is
// decoded to a temp file which is removed on every exit path.
func (i *Importer) Import(ctx context.Context, companyID int64, inspectorID string, upload io.Reader) (*ImportResult, error) {
	log := logger.FromContext(ctx)

	raw, err := io.ReadAll(upload)
	if err != nil {
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	tmp, err := os.CreateTemp(i.tmpDir, "import_*.db")
	if err != nil {
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	result, err := i.importFile(ctx, companyID, inspectorID, tmp.Name(), raw)
	if err != nil {
		i.countFailure(err)
		return nil, err
	}

	metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Info("snapshot imported", "company_id", companyID, "rows_created", result.Created)
	return result, nil
}

func (i *Importer) countFailure(err error) {
	var schemaErr *SchemaError
	var corruptErr *CorruptError
	var importErr *ImportError
	switch {
	case errors.As(err, &schemaErr), errors.As(err, &corruptErr):
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeSchemaErr).Inc()
	case errors.As(err, &importErr):
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeValidation).Inc()
	default:
		metrics.SnapshotImportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
	}
}

func (i *Importer) importFile(ctx context.Context, companyID int64, inspectorID, path string, raw []byte) (*ImportResult, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if err := c.Verify(ctx); err != nil {
		return nil, err
	}

	tx, err := i.sync.BeginImport(ctx)
	if err != nil {
		return nil, err
	}

	state := &importState{
		companyID:   companyID,
		inspectorID: inspectorID,
		inspections: make(map[int64]int64),
		findings:    make(map[int64]int64),
		exts:        make(map[int64]int64),
	}

	// Blobs live outside the transaction; on abort they are deleted by path
	// so no orphaned files survive a rolled-back import.
	committed := false
	defer func() {
		if committed {
			return
		}
		tx.Rollback(ctx)
		for _, name := range state.written {
			if err := i.blobs.Delete(ctx, name); err != nil {
				logger.FromContext(ctx).Error("failed to remove orphaned blob", "blob", name, "error", err)
			}
		}
	}()

	if err := i.ingestInspection(ctx, c, tx, state, raw); err != nil {
		return nil, err
	}
	if err := i.ingestFindings(ctx, c, tx, state); err != nil {
		return nil, err
	}
	if err := i.ingestExtinguishers(ctx, c, tx, state); err != nil {
		return nil, err
	}
	if err := i.ingestPlacements(ctx, c, tx, state); err != nil {
		return nil, err
	}
	if err := i.ingestServiceActions(ctx, c, tx, state); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		// A concurrent import can commit the same (date, building) pair
		// between our existence check and this commit; the unique
		// constraint turns that race into a clean validation failure.
		if errors.Is(err, domain.ErrDuplicateInspection) {
			return nil, &ImportError{Msg: domain.ErrMsgDuplicateInspection}
		}
		return nil, err
	}
	committed = true

	for table, n := range state.rowCounts {
		metrics.SnapshotImportedRows.WithLabelValues(table).Add(float64(n))
	}

	// Deliberately after commit: a crash here leaves correct raw history and
	// stale derived fields, repaired by replaying the actions.
	if err := i.recalc.Replay(ctx, state.insertedActions); err != nil {
		logger.FromContext(ctx).Error("derived-state recalculation failed after commit",
			"company_id", companyID, "error", err)
	}

	return &ImportResult{Created: state.created}, nil
}

// importState carries the snapshot-id → server-id maps across phases.
// Snapshot ids are device-local and never reused as server ids.
type importState struct {
	companyID       int64
	inspectorID     string
	inspections     map[int64]int64
	findings        map[int64]int64
	exts            map[int64]int64
	written         []string
	insertedActions []domain.ServiceAction
	created         int
	rowCounts       map[string]int
}

func (s *importState) countRow(table string) {
	if s.rowCounts == nil {
		s.rowCounts = make(map[string]int)
	}
	s.rowCounts[table]++
	s.created++
}

// ingestInspection enforces the one-trip-per-upload rule: the snapshot must
// contain exactly one inspection record, signed by the importing user, for a
// building of the importing company, with a (date, building) pair not yet
// seen server-side. The raw upload is attached to the new record as evidence.
func (i *Importer) ingestInspection(ctx context.Context, c *Container, tx repository.ImportTx, state *importState, raw []byte) error {
	type snapInspection struct {
		id        int64
		inspector string
		date      string
		notes     sql.NullString
		building  int64
		createdAt sql.NullString
	}

	var recs []snapInspection
	err := c.ReadRows(ctx, TableInspection, func(scan func(dest ...any) error) error {
		var rec snapInspection
		var uploadedFile sql.NullString
		if err := scan(&rec.id, &rec.inspector, &rec.date, &rec.notes,
			&rec.building, &rec.createdAt, &uploadedFile); err != nil {
			return &CorruptError{Err: err}
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return err
	}

	if len(recs) != 1 {
		return importErrorf("snapshot must contain exactly one inspection record, found %d", len(recs))
	}
	rec := recs[0]

	if len(rec.date) > 10 {
		rec.date = rec.date[:10]
	}
	if _, err := time.Parse(DateLayout, rec.date); err != nil {
		return importErrorf("inspection record has invalid date %q", rec.date)
	}

	if rec.inspector != state.inspectorID {
		return importErrorf("inspection was recorded by a different user")
	}

	if _, err := tx.BuildingInCompany(ctx, rec.building, state.companyID); err != nil {
		if errors.Is(err, domain.ErrBuildingNotFound) {
			return importErrorf("building not found in company")
		}
		return err
	}

	exists, err := tx.InspectionExists(ctx, rec.date, rec.building)
	if err != nil {
		return err
	}
	if exists {
		return &ImportError{Msg: domain.ErrMsgDuplicateInspection}
	}

	evidence := filepath.ToSlash(filepath.Join("inspections", uuid.NewString()+".bin"))
	if _, err := i.blobs.Put(ctx, evidence, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to store inspection evidence: %w", err)
	}
	state.written = append(state.written, evidence)

	createdAt := time.Now().UTC()
	if rec.createdAt.Valid {
		if t, err := time.Parse(TimeLayout, rec.createdAt.String); err == nil {
			createdAt = t
		}
	}

	server := &domain.InspectionRecord{
		InspectorID:  rec.inspector,
		Date:         rec.date,
		Notes:        rec.notes.String,
		BuildingID:   rec.building,
		CreatedAt:    createdAt,
		UploadedFile: evidence,
	}
	if err := tx.InsertInspectionRecord(ctx, server); err != nil {
		return err
	}
	state.inspections[rec.id] = server.ID
	state.countRow(TableInspection)
	return nil
}

// ingestFindings imports fault_inspection rows and their photos. Every
// finding must reference the one imported inspection; defended even though
// the exactly-one rule makes a dangling reference impossible in practice.
func (i *Importer) ingestFindings(ctx context.Context, c *Container, tx repository.ImportTx, state *importState) error {
	err := c.ReadRows(ctx, TableFaultInspection, func(scan func(dest ...any) error) error {
		var (
			snapID            int64
			faultID           sql.NullInt64
			shortName         sql.NullString
			description       sql.NullString
			inspection        int64
			notes             sql.NullString
			responsiblePerson sql.NullString
			fixDueDate        sql.NullString
			resolved          int64
			present           int64
		)
		if err := scan(&snapID, &faultID, &shortName, &description, &inspection,
			&notes, &responsiblePerson, &fixDueDate, &resolved, &present); err != nil {
			return &CorruptError{Err: err}
		}

		serverInspection, ok := state.inspections[inspection]
		if !ok {
			return importErrorf("finding %d references unknown inspection %d", snapID, inspection)
		}

		fi := &domain.FaultInspection{
			ShortName:         shortName.String,
			Description:       description.String,
			InspectionID:      serverInspection,
			Notes:             notes.String,
			ResponsiblePerson: responsiblePerson.String,
			Resolved:          resolved != 0,
			Present:           present != 0,
		}
		if faultID.Valid {
			fi.FaultID = &faultID.Int64
		}
		if fixDueDate.Valid {
			// Field devices sometimes append a time-of-day suffix; keep the
			// plain date.
			due := fixDueDate.String
			if len(due) > 10 {
				due = due[:10]
			}
			fi.FixDueDate = &due
		}

		if err := tx.InsertFaultInspection(ctx, fi); err != nil {
			return err
		}
		state.findings[snapID] = fi.ID
		state.countRow(TableFaultInspection)
		return nil
	})
	if err != nil {
		return err
	}

	return c.ReadRows(ctx, TableFaultPhoto, func(scan func(dest ...any) error) error {
		var (
			snapID          int64
			faultInspection int64
			photo           []byte
			uploadedAt      sql.NullString
		)
		if err := scan(&snapID, &faultInspection, &photo, &uploadedAt); err != nil {
			return &CorruptError{Err: err}
		}

		serverFinding, ok := state.findings[faultInspection]
		if !ok {
			return importErrorf("photo %d references unknown finding %d", snapID, faultInspection)
		}

		// Deterministic name derived from the finding and photo ids so two
		// photos can never collide.
		name := fmt.Sprintf("fault_photos/fault_%d_photo_%d.jpg", serverFinding, snapID)
		if _, err := i.blobs.Put(ctx, name, bytes.NewReader(photo)); err != nil {
			return fmt.Errorf("failed to store fault photo: %w", err)
		}
		state.written = append(state.written, name)

		when := time.Now().UTC()
		if uploadedAt.Valid {
			if t, err := time.Parse(TimeLayout, uploadedAt.String); err == nil {
				when = t
			}
		}

		rec := &domain.FaultPhoto{
			FaultInspectionID: serverFinding,
			PhotoPath:         name,
			UploadedAt:        when,
		}
		if err := tx.InsertFaultPhoto(ctx, rec); err != nil {
			return err
		}
		state.countRow(TableFaultPhoto)
		return nil
	})
}

// ingestExtinguishers dedupes by serial number: a snapshot row whose serial
// already exists server-side maps onto the existing asset and its attributes
// are left untouched. Unknown serials become new assets owned by the
// importing company.
func (i *Importer) ingestExtinguishers(ctx context.Context, c *Container, tx repository.ImportTx, state *importState) error {
	return c.ReadRows(ctx, TableExtinguisher, func(scan func(dest ...any) error) error {
		var (
			snapID           int64
			kind             sql.NullString
			size             sql.NullString
			power            sql.NullString
			manufacturer     sql.NullString
			serialNumber     string
			eliminated       int64
			manufacturedYear sql.NullInt64
			managedBy        sql.NullInt64
			nextInspection   sql.NullString
			nextPeriodicTest sql.NullString
		)
		if err := scan(&snapID, &kind, &size, &power, &manufacturer, &serialNumber,
			&eliminated, &manufacturedYear, &managedBy, &nextInspection, &nextPeriodicTest); err != nil {
			return &CorruptError{Err: err}
		}

		existing, err := tx.FindExtinguisherBySerial(ctx, serialNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			state.exts[snapID] = existing.ID
			return nil
		}

		ext := &domain.Extinguisher{
			Kind:             kind.String,
			Size:             size.String,
			Power:            power.String,
			Manufacturer:     manufacturer.String,
			SerialNumber:     serialNumber,
			Eliminated:       eliminated != 0,
			ManufacturedYear: int(manufacturedYear.Int64),
			ManagedBy:        state.companyID,
			NextInspection:   parseNullDate(nextInspection),
			NextPeriodicTest: parseNullDate(nextPeriodicTest),
		}
		if err := tx.InsertExtinguisher(ctx, ext); err != nil {
			return err
		}
		state.exts[snapID] = ext.ID
		state.countRow(TableExtinguisher)
		return nil
	})
}

// ingestPlacements appends every placement row as new history; placements
// are never deduplicated. Extinguisher references are rewritten through the
// dedupe map, so both fresh and pre-existing assets resolve to server ids.
func (i *Importer) ingestPlacements(ctx context.Context, c *Container, tx repository.ImportTx, state *importState) error {
	return c.ReadRows(ctx, TablePlacement, func(scan func(dest ...any) error) error {
		var (
			snapID       int64
			description  sql.NullString
			createdAt    sql.NullString
			extinguisher int64
			building     int64
		)
		if err := scan(&snapID, &description, &createdAt, &extinguisher, &building); err != nil {
			return &CorruptError{Err: err}
		}

		serverExt, ok := state.exts[extinguisher]
		if !ok {
			return importErrorf("placement %d references unknown extinguisher %d", snapID, extinguisher)
		}

		placement := &domain.Placement{
			Description:    description.String,
			CreatedAt:      parseTimeOrNow(createdAt),
			ExtinguisherID: serverExt,
			BuildingID:     building,
		}
		if err := tx.InsertPlacement(ctx, placement); err != nil {
			return err
		}
		state.countRow(TablePlacement)
		return nil
	})
}

// ingestServiceActions appends to the service log and remembers the inserted
// events, in insertion order, for post-commit recalculation.
func (i *Importer) ingestServiceActions(ctx context.Context, c *Container, tx repository.ImportTx, state *importState) error {
	return c.ReadRows(ctx, TableServiceAction, func(scan func(dest ...any) error) error {
		var (
			snapID       int64
			actionType   string
			description  sql.NullString
			createdAt    sql.NullString
			extinguisher int64
		)
		if err := scan(&snapID, &actionType, &description, &createdAt, &extinguisher); err != nil {
			return &CorruptError{Err: err}
		}

		serverExt, ok := state.exts[extinguisher]
		if !ok {
			return importErrorf("service action %d references unknown extinguisher %d", snapID, extinguisher)
		}

		action := &domain.ServiceAction{
			ActionType:     domain.ActionType(actionType),
			Description:    description.String,
			CreatedAt:      parseTimeOrNow(createdAt),
			ExtinguisherID: serverExt,
		}
		if err := tx.InsertServiceAction(ctx, action); err != nil {
			return err
		}
		state.insertedActions = append(state.insertedActions, *action)
		state.countRow(TableServiceAction)
		return nil
	})
}

func parseNullDate(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	s := v.String
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimeOrNow(v sql.NullString) time.Time {
	if v.Valid {
		if t, err := time.Parse(TimeLayout, v.String); err == nil {
			return t
		}
		if t, err := time.Parse(DateLayout, v.String); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
