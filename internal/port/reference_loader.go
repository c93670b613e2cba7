package port

import (
	"context"

	"ppoeval/internal/domain"
)

// ReferenceLoader returns the extracted text of every reference document.
// Unavailable documents come back as placeholders, never as errors.
type ReferenceLoader interface {
	LoadAll(ctx context.Context) domain.References
}
