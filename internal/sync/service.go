package sync

import (
	"context"
	"io"

	"github.com/firesafe-io/firesafe/internal/repository"
	"github.com/firesafe-io/firesafe/internal/snapshot"
)

// SnapshotFilename is the attachment name under which exports are served.
const SnapshotFilename = "db_snapshot.bin"

// Service defines the interface for the offline sync surface: snapshot
// export for field devices and import of their collected data.
type Service interface {
	// Export streams a snapshot of the project's company to w.
	Export(ctx context.Context, projectID string, w io.Writer) error
	// Import applies one uploaded snapshot on behalf of the project's company.
	// inspectorID is the importing user; the snapshot must be signed by them.
	Import(ctx context.Context, projectID, inspectorID string, upload io.Reader) (*snapshot.ImportResult, error)
}

type service struct {
	companies repository.Company
	exporter  *snapshot.Exporter
	importer  *snapshot.Importer
}

// NewService creates a new sync service
func NewService(companies repository.Company, exporter *snapshot.Exporter, importer *snapshot.Importer) Service {
	return &service{companies: companies, exporter: exporter, importer: importer}
}

func (s *service) Export(ctx context.Context, projectID string, w io.Writer) error {
	company, err := s.companies.GetByProject(ctx, projectID)
	if err != nil {
		return err
	}
	return s.exporter.Export(ctx, company.ID, w)
}

func (s *service) Import(ctx context.Context, projectID, inspectorID string, upload io.Reader) (*snapshot.ImportResult, error) {
	company, err := s.companies.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.importer.Import(ctx, company.ID, inspectorID, upload)
}
