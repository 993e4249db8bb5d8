package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/firesafe-io/firesafe/internal/auth"
	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/snapshot"
	"github.com/firesafe-io/firesafe/internal/sync"
)

// MockSyncService
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Export(ctx context.Context, projectID string, w io.Writer) error {
	args := m.Called(ctx, projectID, w)
	return args.Error(0)
}

func (m *MockSyncService) Import(ctx context.Context, projectID, inspectorID string, upload io.Reader) (*snapshot.ImportResult, error) {
	args := m.Called(ctx, projectID, inspectorID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snapshot.ImportResult), args.Error(1)
}

func withPrincipal(req *http.Request, companyID int64) *http.Request {
	ctx := auth.WithPrincipal(req.Context(), auth.Principal{
		UserID:    "u1",
		Username:  "alice",
		ProjectID: "p1",
		CompanyID: companyID,
	})
	return req.WithContext(ctx)
}

func snapshotUpload(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "db_snapshot.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestHandleImportSnapshot_Success(t *testing.T) {
	svc := new(MockSyncService)
	svc.On("Import", mock.Anything, "p1", "u1", mock.Anything).
		Return(&snapshot.ImportResult{Created: 8}, nil)

	body, contentType := snapshotUpload(t, "file", []byte("snapshot-bytes"))
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/sync/inspections", body), 5)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleImportSnapshot(svc)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Imported 8 records")
	assert.Contains(t, rec.Body.String(), `"created":8`)
	svc.AssertExpectations(t)
}

func TestHandleImportSnapshot_MissingFilePart(t *testing.T) {
	svc := new(MockSyncService)

	body, contentType := snapshotUpload(t, "wrong_field", []byte("x"))
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/sync/inspections", body), 5)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleImportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgMissingFile)
	svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleImportSnapshot_ValidationFailure(t *testing.T) {
	svc := new(MockSyncService)
	svc.On("Import", mock.Anything, "p1", "u1", mock.Anything).
		Return(nil, &snapshot.ImportError{Msg: "building not found in company"})

	body, contentType := snapshotUpload(t, "file", []byte("snapshot-bytes"))
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/sync/inspections", body), 5)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleImportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "building not found in company")
}

func TestHandleImportSnapshot_CorruptUpload(t *testing.T) {
	svc := new(MockSyncService)
	svc.On("Import", mock.Anything, "p1", "u1", mock.Anything).
		Return(nil, &snapshot.CorruptError{Err: io.ErrUnexpectedEOF})

	body, contentType := snapshotUpload(t, "file", []byte("garbage"))
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/sync/inspections", body), 5)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleImportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgSnapshotCorruptError)
}

func TestHandleImportSnapshot_NoCompany(t *testing.T) {
	svc := new(MockSyncService)

	body, contentType := snapshotUpload(t, "file", []byte("x"))
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/sync/inspections", body), 0)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleImportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgCompanyNotFoundError)
	svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleImportSnapshot_NoPrincipal(t *testing.T) {
	svc := new(MockSyncService)

	body, contentType := snapshotUpload(t, "file", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/inspections", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleImportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleExportSnapshot_StreamsAttachment(t *testing.T) {
	svc := new(MockSyncService)
	svc.On("Export", mock.Anything, "p1", mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(2).(io.Writer).Write([]byte("snapshot-bytes"))
		}).Return(nil)

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/sync/snapshot", nil), 5)
	rec := httptest.NewRecorder()

	HandleExportSnapshot(svc)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), sync.SnapshotFilename)
	assert.Equal(t, "snapshot-bytes", rec.Body.String())
}

func TestHandleExportSnapshot_FailureBeforeStreamReturnsJSONError(t *testing.T) {
	svc := new(MockSyncService)
	svc.On("Export", mock.Anything, "p1", mock.Anything).Return(domain.ErrCompanyNotFound)

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/sync/snapshot", nil), 5)
	rec := httptest.NewRecorder()

	HandleExportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), ErrMsgCompanyNotFoundError)
}

func TestHandleExportSnapshot_NoCompany(t *testing.T) {
	svc := new(MockSyncService)

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/sync/snapshot", nil), 0)
	rec := httptest.NewRecorder()

	HandleExportSnapshot(svc)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}
