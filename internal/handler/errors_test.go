package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/firesafe-io/firesafe/internal/domain"
	"github.com/firesafe-io/firesafe/internal/snapshot"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "nil error", err: nil, wantStatus: http.StatusInternalServerError, wantMsg: ErrMsgUnknownError},
		{name: "company not found", err: domain.ErrCompanyNotFound, wantStatus: http.StatusNotFound, wantMsg: ErrMsgCompanyNotFoundError},
		{name: "building not found", err: domain.ErrBuildingNotFound, wantStatus: http.StatusNotFound, wantMsg: ErrMsgBuildingNotFoundError},
		{name: "wrapped extinguisher not found", err: fmt.Errorf("lookup: %w", domain.ErrExtinguisherNotFound), wantStatus: http.StatusNotFound, wantMsg: ErrMsgExtinguisherNotFoundError},
		{name: "duplicate inspection", err: domain.ErrDuplicateInspection, wantStatus: http.StatusBadRequest, wantMsg: domain.ErrMsgDuplicateInspection},
		{name: "invalid action type", err: domain.ErrInvalidActionType, wantStatus: http.StatusBadRequest, wantMsg: ErrMsgInvalidActionTypeError},
		{name: "forbidden", err: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantMsg: ErrMsgForbiddenError},
		{name: "corrupt snapshot", err: &snapshot.CorruptError{Err: errors.New("bad header")}, wantStatus: http.StatusBadRequest, wantMsg: ErrMsgSnapshotCorruptError},
		{name: "import validation carries its message", err: &snapshot.ImportError{Msg: "building not found in company"}, wantStatus: http.StatusBadRequest, wantMsg: "building not found in company"},
		{name: "unexpected error is masked", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantMsg: ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestMapServiceErrorToUserMessage_SchemaErrorNamesTables(t *testing.T) {
	err := &snapshot.SchemaError{Missing: []string{"inspection_record", "fault_photo"}}

	status, msg := mapServiceErrorToUserMessage(err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "inspection_record")
	assert.Contains(t, msg, "fault_photo")
}
