package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/repository"
)

// memBlobStore is an in-memory blob.Store recording writes and deletes.
type memBlobStore struct {
	blobs   map[string][]byte
	deleted []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Put(ctx context.Context, name string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.blobs[name] = data
	return name, nil
}

func (m *memBlobStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, ok := m.blobs[name]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobStore) Delete(ctx context.Context, name string) error {
	delete(m.blobs, name)
	m.deleted = append(m.deleted, name)
	return nil
}

// fakeImportTx is an in-memory repository.ImportTx capturing all inserts.
type fakeImportTx struct {
	buildings      map[int64]*domain.Building
	existing       map[string]bool // "date|buildingID" pairs already imported
	extsBySerial   map[string]*domain.Extinguisher
	nextID         int64
	inspections    []*domain.InspectionRecord
	findings       []*domain.FaultInspection
	photos         []*domain.FaultPhoto
	newExts        []*domain.Extinguisher
	placements     []*domain.Placement
	serviceActions []*domain.ServiceAction
	committed      bool
	rolledBack     bool
}

func newFakeImportTx() *fakeImportTx {
	return &fakeImportTx{
		buildings:    make(map[int64]*domain.Building),
		existing:     make(map[string]bool),
		extsBySerial: make(map[string]*domain.Extinguisher),
		nextID:       100,
	}
}

func (f *fakeImportTx) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeImportTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeImportTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	return nil
}

func (f *fakeImportTx) BuildingInCompany(ctx context.Context, buildingID, companyID int64) (*domain.Building, error) {
	b, ok := f.buildings[buildingID]
	if !ok || b.CompanyID != companyID {
		return nil, domain.ErrBuildingNotFound
	}
	return b, nil
}

func (f *fakeImportTx) InspectionExists(ctx context.Context, date string, buildingID int64) (bool, error) {
	return f.existing[fmt.Sprintf("%s|%d", date, buildingID)], nil
}

func (f *fakeImportTx) InsertInspectionRecord(ctx context.Context, rec *domain.InspectionRecord) error {
	rec.ID = f.id()
	f.inspections = append(f.inspections, rec)
	return nil
}

func (f *fakeImportTx) InsertFaultInspection(ctx context.Context, fi *domain.FaultInspection) error {
	fi.ID = f.id()
	f.findings = append(f.findings, fi)
	return nil
}

func (f *fakeImportTx) InsertFaultPhoto(ctx context.Context, photo *domain.FaultPhoto) error {
	photo.ID = f.id()
	f.photos = append(f.photos, photo)
	return nil
}

func (f *fakeImportTx) FindExtinguisherBySerial(ctx context.Context, serialNumber string) (*domain.Extinguisher, error) {
	if ext, ok := f.extsBySerial[serialNumber]; ok {
		return ext, nil
	}
	return nil, nil
}

func (f *fakeImportTx) InsertExtinguisher(ctx context.Context, ext *domain.Extinguisher) error {
	ext.ID = f.id()
	f.newExts = append(f.newExts, ext)
	return nil
}

func (f *fakeImportTx) InsertPlacement(ctx context.Context, placement *domain.Placement) error {
	placement.ID = f.id()
	f.placements = append(f.placements, placement)
	return nil
}

func (f *fakeImportTx) InsertServiceAction(ctx context.Context, action *domain.ServiceAction) error {
	action.ID = f.id()
	f.serviceActions = append(f.serviceActions, action)
	return nil
}

// fakeSyncRepo hands out a prepared fakeImportTx.
type fakeSyncRepo struct {
	tx *fakeImportTx
}

func (f *fakeSyncRepo) BeginImport(ctx context.Context) (repository.ImportTx, error) {
	return f.tx, nil
}

// Export-side fakes returning canned data; unimplemented methods panic
// through the embedded interface.

type fakeCompanyRepo struct {
	repository.Company
	company *domain.Company
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, domain.ErrCompanyNotFound
	}
	return f.company, nil
}

type fakeOwnerRepo struct {
	repository.Owner
	owners []domain.BuildingOwner
}

func (f *fakeOwnerRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.BuildingOwner, error) {
	return f.owners, nil
}

type fakeManagerRepo struct {
	repository.Manager
	managers []domain.BuildingManager
}

func (f *fakeManagerRepo) List(ctx context.Context) ([]domain.BuildingManager, error) {
	return f.managers, nil
}

type fakeBuildingRepo struct {
	repository.Building
	buildings []domain.Building
}

func (f *fakeBuildingRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Building, error) {
	return f.buildings, nil
}

type fakeFaultRepo struct {
	repository.Fault
	faults   []domain.Fault
	possible []domain.PossibleFault
}

func (f *fakeFaultRepo) List(ctx context.Context) ([]domain.Fault, error) {
	return f.faults, nil
}

func (f *fakeFaultRepo) ListPossibleByCompany(ctx context.Context, companyID int64) ([]domain.PossibleFault, error) {
	return f.possible, nil
}

type fakeExtListRepo struct {
	repository.Extinguisher
	exts       []domain.Extinguisher
	placements []domain.Placement
	actions    []domain.ServiceAction
}

func (f *fakeExtListRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Extinguisher, error) {
	return f.exts, nil
}

func (f *fakeExtListRepo) ListPlacementsByCompany(ctx context.Context, companyID int64) ([]domain.Placement, error) {
	return f.placements, nil
}

func (f *fakeExtListRepo) ListServiceActionsByCompany(ctx context.Context, companyID int64) ([]domain.ServiceAction, error) {
	return f.actions, nil
}
