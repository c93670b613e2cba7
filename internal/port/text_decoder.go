package port

import (
	"context"

	"ppoeval/internal/domain"
)

// TextDecoder turns the bytes of one document format into plain text.
type TextDecoder interface {
	Decode(ctx context.Context, data []byte) (string, error)
}

// TextExtractor turns any uploaded document into text. It never fails.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.UploadedDocument) string
}
