package blob

import (
	"context"
	"io"
)

// Store persists uploaded binary attachments (inspection documents, fault
// photos, company logos) under caller-chosen relative names.
type Store interface {
	// Put writes the content under name, creating parent directories as
	// needed, and returns the stored name.
	Put(ctx context.Context, name string, content io.Reader) (string, error)
	// Open returns a reader for a stored blob.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes a stored blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}
