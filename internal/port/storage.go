package port

import "context"

// ReferenceSource reads reference documents by file name.
// A missing document is reported as domain.ErrReferenceNotFound.
type ReferenceSource interface {
	Read(ctx context.Context, name string) ([]byte, error)
	// Ping reports whether the source is reachable.
	Ping(ctx context.Context) error
}
