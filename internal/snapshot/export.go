package snapshot

import (
	"context"
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

// Exporter serializes one company's complete current state into a snapshot
// file. The whole tenant dataset is held in memory during export; this is a
// deliberate scale limit, tenants are small.
type Exporter struct {
	companies     repository.Company
	owners        repository.Owner
	managers      repository.Manager
	buildings     repository.Building
	faults        repository.Fault
	extinguishers repository.Extinguisher
	blobs         blob.Store
	tmpDir        string
}

// NewExporter creates a new Exporter. tmpDir holds the in-progress snapshot
// files; each export gets its own file which is removed after streaming.
func NewExporter(
	companies repository.Company,
	owners repository.Owner,
	managers repository.Manager,
	buildings repository.Building,
	faults repository.Fault,
	extinguishers repository.Extinguisher,
	blobs blob.Store,
	tmpDir string,
) *Exporter {
	return &Exporter{
		companies:     companies,
		owners:        owners,
		managers:      managers,
		buildings:     buildings,
		faults:        faults,
		extinguishers: extinguishers,
		blobs:         blobs,
		tmpDir:        tmpDir,
	}
}

// Export writes a compacted snapshot of the company's state to w.
func (e *Exporter) Export(ctx context.Context, companyID int64, w io.Writer) error {
	log := logger.FromContext(ctx)

	company, err := e.companies.GetByID(ctx, companyID)
	if err != nil {
		metrics.SnapshotExportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return err
	}

	path := filepath.Join(e.tmpDir, "export_"+uuid.NewString()+".db")
	defer os.Remove(path)

	if err := e.writeSnapshot(ctx, company, path); err != nil {
		metrics.SnapshotExportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		metrics.SnapshotExportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("failed to open snapshot for streaming: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		metrics.SnapshotExportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("failed to stream snapshot: %w", err)
	}

	metrics.SnapshotExportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Info("snapshot exported", "company_id", companyID, "bytes", n)
	return nil
}

func (e *Exporter) writeSnapshot(ctx context.Context, company *domain.Company, path string) error {
	c, err := Create(ctx, path)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := e.writeCompany(ctx, c, company); err != nil {
		return err
	}

	owners, err := e.owners.ListByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, o := range owners {
		if err := c.InsertRow(ctx, TableOwner,
			o.ID, o.Name, o.Address, o.City, o.Zipcode, o.ICO, o.DIC, o.ManagedBy); err != nil {
			return err
		}
	}

	// Managers are a shared pool; the snapshot carries all of them.
	managers, err := e.managers.List(ctx)
	if err != nil {
		return err
	}
	for _, m := range managers {
		if err := c.InsertRow(ctx, TableManager,
			m.ID, m.Name, m.Address, m.Phone, m.Phone2, m.Email); err != nil {
			return err
		}
	}

	buildings, err := e.buildings.ListByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		if err := c.InsertRow(ctx, TableBuilding,
			b.ID, b.BuildingID, b.Address, b.City, b.Zipcode, b.Note,
			b.CompanyID, b.OwnerID, b.ManagerID,
			nullDate(b.LastInspectionDate), b.InspectionIntervalDays); err != nil {
			return err
		}
	}

	// The fault catalog is global, like managers.
	faults, err := e.faults.List(ctx)
	if err != nil {
		return err
	}
	for _, f := range faults {
		if err := c.InsertRow(ctx, TableFault,
			f.ID, f.ShortName, f.Description, f.DefaultFixTimeDays); err != nil {
			return err
		}
	}

	possible, err := e.faults.ListPossibleByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, pf := range possible {
		if err := c.InsertRow(ctx, TablePossibleFault, pf.ID, pf.FaultID, pf.BuildingID); err != nil {
			return err
		}
	}

	exts, err := e.extinguishers.ListByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, x := range exts {
		if err := c.InsertRow(ctx, TableExtinguisher,
			x.ID, x.Kind, x.Size, x.Power, x.Manufacturer, x.SerialNumber,
			x.Eliminated, x.ManufacturedYear, x.ManagedBy,
			nullDate(x.NextInspection), nullDate(x.NextPeriodicTest)); err != nil {
			return err
		}
	}

	placements, err := e.extinguishers.ListPlacementsByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, p := range placements {
		if err := c.InsertRow(ctx, TablePlacement,
			p.ID, p.Description, p.CreatedAt.Format(TimeLayout), p.ExtinguisherID, p.BuildingID); err != nil {
			return err
		}
	}

	actions, err := e.extinguishers.ListServiceActionsByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	for _, a := range actions {
		if err := c.InsertRow(ctx, TableServiceAction,
			a.ID, string(a.ActionType), a.Description, a.CreatedAt.Format(TimeLayout), a.ExtinguisherID); err != nil {
			return err
		}
	}

	// inspection_record, fault_inspection and fault_photo stay empty on
	// export; the field device fills them in before upload.

	return c.Compact(ctx)
}

// writeCompany writes the company row plus, when a logo exists, its bytes
// into the generic files table so the snapshot needs no asset sidecar.
func (e *Exporter) writeCompany(ctx context.Context, c *Container, company *domain.Company) error {
	var logo []byte
	if company.LogoPath != nil {
		r, err := e.blobs.Open(ctx, *company.LogoPath)
		if err != nil {
			logger.FromContext(ctx).Warn("company logo unreadable, exporting without it",
				"company_id", company.ID, "error", err)
		} else {
			logo, err = io.ReadAll(r)
			r.Close()
			if err != nil {
				return fmt.Errorf("failed to read company logo: %w", err)
			}
		}
	}

	if err := c.InsertRow(ctx, TableCompany,
		company.ID, company.Name, company.Address, company.City,
		company.Zipcode, company.ICO, company.DIC, logo); err != nil {
		return err
	}

	if logo != nil {
		now := time.Now().UTC().Format(TimeLayout)
		if err := c.InsertRow(ctx, TableFiles,
			1, filepath.Base(*company.LogoPath), *company.LogoPath, logo, now, now); err != nil {
			return err
		}
	}
	return nil
}
