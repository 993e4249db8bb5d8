package snapshot

import (
	"fmt"
	"strings"
)

// SchemaError means the uploaded file opened as a container but is missing
// required tables. Always fatal to the import; nothing is persisted.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("snapshot is missing required tables: %s", strings.Join(e.Missing, ", "))
}

// CorruptError means the file could not be opened or read as a snapshot
// container at all.
type CorruptError struct {
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("snapshot file is not a valid container: %v", e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// ImportError is a validation failure of otherwise well-formed snapshot
// content: wrong record counts, unknown references, duplicate submissions.
// The message is safe to show to the uploading user.
type ImportError struct {
	Msg string
}

func (e *ImportError) Error() string {
	return e.Msg
}

func importErrorf(format string, args ...any) *ImportError {
	return &ImportError{Msg: fmt.Sprintf(format, args...)}
}
