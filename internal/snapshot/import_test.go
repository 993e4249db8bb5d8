package snapshot

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firesafe-io/firesafe/internal/domain"
)

const (
	testCompanyID   = int64(5)
	testInspectorID = "inspector-1"
)

// buildSnapshot creates a full snapshot file and returns its raw bytes.
func buildSnapshot(t *testing.T, fill func(ctx context.Context, c *Container)) []byte {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "device.db")

	c, err := Create(ctx, path)
	require.NoError(t, err)
	if fill != nil {
		fill(ctx, c)
	}
	require.NoError(t, c.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

type importFixture struct {
	tx       *fakeImportTx
	blobs    *memBlobStore
	extStore *fakeExtinguisherStore
	importer *Importer
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	tx := newFakeImportTx()
	tx.buildings[10] = &domain.Building{ID: 10, CompanyID: testCompanyID}
	blobs := newMemBlobStore()
	extStore := &fakeExtinguisherStore{exts: map[int64]*domain.Extinguisher{}}
	return &importFixture{
		tx:       tx,
		blobs:    blobs,
		extStore: extStore,
		importer: NewImporter(&fakeSyncRepo{tx: tx}, blobs, NewRecalculator(extStore), t.TempDir()),
	}
}

func insertInspectionRow(t *testing.T, ctx context.Context, c *Container, id int64, date string, building int64) {
	t.Helper()
	require.NoError(t, c.InsertRow(ctx, TableInspection,
		id, "inspector-1", date, "routine walkthrough", building, "2024-03-02 08:15:00", nil))
}

func TestImport_FullSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.tx.extsBySerial["S-EXIST"] = &domain.Extinguisher{ID: 40, SerialNumber: "S-EXIST", Kind: "water"}

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01", 10)
		require.NoError(t, c.InsertRow(ctx, TableFaultInspection,
			1, 3, "broken hose", "hose is cracked", 1, "replace asap", "J. Novak",
			"2024-03-15 00:00:00", 0, 1))
		require.NoError(t, c.InsertRow(ctx, TableFaultInspection,
			2, nil, "ad-hoc issue", "", 1, "", "", nil, 0, 1))
		require.NoError(t, c.InsertRow(ctx, TableFaultPhoto,
			9, 1, []byte("jpeg-bytes"), "2024-03-01 10:30:00"))
		require.NoError(t, c.InsertRow(ctx, TableExtinguisher,
			100, "water", "6kg", "21A", "Acme", "S-EXIST", 0, 2019, testCompanyID, nil, nil))
		require.NoError(t, c.InsertRow(ctx, TableExtinguisher,
			101, "powder", "9kg", "34A", "Acme", "S-NEW", 0, 2021, testCompanyID, nil, nil))
		require.NoError(t, c.InsertRow(ctx, TablePlacement,
			1, "ground floor hallway", "2024-03-01 09:00:00", 100, 10))
		require.NoError(t, c.InsertRow(ctx, TablePlacement,
			2, "server room", "2024-03-01 09:05:00", 101, 10))
		require.NoError(t, c.InsertRow(ctx, TableServiceAction,
			1, string(domain.ActionInspection), "annual check", "2024-03-01 09:10:00", 100))
	})

	result, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, f.tx.committed)
	assert.False(t, f.tx.rolledBack)
	// 1 inspection + 2 findings + 1 photo + 1 new extinguisher + 2 placements + 1 action
	assert.Equal(t, 8, result.Created)

	require.Len(t, f.tx.inspections, 1)
	rec := f.tx.inspections[0]
	assert.Equal(t, "inspector-1", rec.InspectorID)
	assert.Equal(t, "2024-03-01", rec.Date)
	assert.Equal(t, int64(10), rec.BuildingID)
	assert.True(t, strings.HasPrefix(rec.UploadedFile, "inspections/"))
	_, evidenceStored := f.blobs.blobs[rec.UploadedFile]
	assert.True(t, evidenceStored)

	require.Len(t, f.tx.findings, 2)
	require.NotNil(t, f.tx.findings[0].FixDueDate)
	assert.Equal(t, "2024-03-15", *f.tx.findings[0].FixDueDate)
	assert.Nil(t, f.tx.findings[1].FixDueDate)
	assert.Equal(t, rec.ID, f.tx.findings[0].InspectionID)

	require.Len(t, f.tx.photos, 1)
	wantName := fmt.Sprintf("fault_photos/fault_%d_photo_9.jpg", f.tx.findings[0].ID)
	assert.Equal(t, wantName, f.tx.photos[0].PhotoPath)
	assert.Equal(t, []byte("jpeg-bytes"), f.blobs.blobs[wantName])

	// the known serial maps onto the existing asset, only the unknown one is created
	require.Len(t, f.tx.newExts, 1)
	assert.Equal(t, "S-NEW", f.tx.newExts[0].SerialNumber)
	assert.Equal(t, testCompanyID, f.tx.newExts[0].ManagedBy)

	require.Len(t, f.tx.placements, 2)
	assert.Equal(t, int64(40), f.tx.placements[0].ExtinguisherID)
	assert.Equal(t, f.tx.newExts[0].ID, f.tx.placements[1].ExtinguisherID)

	require.Len(t, f.tx.serviceActions, 1)
	assert.Equal(t, int64(40), f.tx.serviceActions[0].ExtinguisherID)
}

func TestImport_RecalculatesAfterCommit(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.tx.extsBySerial["S-EXIST"] = &domain.Extinguisher{ID: 40, SerialNumber: "S-EXIST", Kind: "water"}
	f.extStore.exts[40] = &domain.Extinguisher{ID: 40, Kind: "water"}

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01", 10)
		require.NoError(t, c.InsertRow(ctx, TableExtinguisher,
			100, "water", "6kg", "21A", "Acme", "S-EXIST", 0, 2019, testCompanyID, nil, nil))
		require.NoError(t, c.InsertRow(ctx, TableServiceAction,
			1, string(domain.ActionPeriodicTest), "", "2024-03-01 09:10:00", 100))
	})

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))
	require.NoError(t, err)

	require.NotNil(t, f.extStore.exts[40].NextInspection)
	assert.Equal(t, date("2025-03-01"), *f.extStore.exts[40].NextInspection)
	require.NotNil(t, f.extStore.exts[40].NextPeriodicTest)
	assert.Equal(t, date("2027-03-01"), *f.extStore.exts[40].NextPeriodicTest)
}

func TestImport_RejectsWithoutExactlyOneInspection(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		fill func(ctx context.Context, c *Container)
	}{
		{name: "no inspection record", fill: nil},
		{name: "two inspection records", fill: func(ctx context.Context, c *Container) {
			insertInspectionRow(t, ctx, c, 1, "2024-03-01", 10)
			insertInspectionRow(t, ctx, c, 2, "2024-03-02", 10)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newImportFixture(t)
			raw := buildSnapshot(t, tt.fill)

			_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))

			var importErr *ImportError
			require.ErrorAs(t, err, &importErr)
			assert.Contains(t, importErr.Msg, "exactly one inspection record")
			assert.True(t, f.tx.rolledBack)
			assert.False(t, f.tx.committed)
		})
	}
}

func TestImport_RejectsForeignBuilding(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.tx.buildings[77] = &domain.Building{ID: 77, CompanyID: 999}

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01", 77)
	})

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "building not found in company", importErr.Msg)
	assert.True(t, f.tx.rolledBack)
}

func TestImport_RejectsForeignInspector(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01", 10)
	})

	_, err := f.importer.Import(ctx, testCompanyID, "someone-else", bytes.NewReader(raw))

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Msg, "different user")
	assert.True(t, f.tx.rolledBack)
}

func TestImport_RejectsDuplicateInspection(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	f.tx.existing["2024-03-01|10"] = true

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01", 10)
	})

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, domain.ErrMsgDuplicateInspection, importErr.Msg)
	assert.True(t, f.tx.rolledBack)
	assert.False(t, f.tx.committed)
}

func TestImport_TruncatesDateWithTimeSuffix(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01 00:00:00", 10)
	})

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))
	require.NoError(t, err)

	require.Len(t, f.tx.inspections, 1)
	assert.Equal(t, "2024-03-01", f.tx.inspections[0].Date)
}

func TestImport_RejectsInvalidInspectionDate(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "yesterday", 10)
	})

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Msg, "invalid date")
}

func TestImport_UnknownExtinguisherReferenceRollsBackBlobs(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	raw := buildSnapshot(t, func(ctx context.Context, c *Container) {
		insertInspectionRow(t, ctx, c, 1, "2024-03-01", 10)
		// placement references extinguisher 999 which the snapshot never declares
		require.NoError(t, c.InsertRow(ctx, TablePlacement,
			1, "lobby", "2024-03-01 09:00:00", 999, 10))
	})

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Msg, "unknown extinguisher")
	assert.True(t, f.tx.rolledBack)

	// the evidence blob written before the failure must not survive the rollback
	assert.Empty(t, f.blobs.blobs)
	require.Len(t, f.blobs.deleted, 1)
	assert.True(t, strings.HasPrefix(f.blobs.deleted[0], "inspections/"))
}

func TestImport_RejectsMissingTables(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	path := filepath.Join(t.TempDir(), "partial.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE company (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = f.importer.Import(ctx, testCompanyID, testInspectorID, bytes.NewReader(raw))

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.False(t, f.tx.committed)
	assert.False(t, f.tx.rolledBack)
}

func TestImport_RejectsGarbageUpload(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	_, err := f.importer.Import(ctx, testCompanyID, testInspectorID, strings.NewReader("definitely not sqlite"))

	var corrupt *CorruptError
	assert.ErrorAs(t, err, &corrupt)
	assert.False(t, f.tx.committed)
}
