// Package extractor turns uploaded documents into plain text. Every format
// has one port.TextDecoder; failures never leave this package.
package extractor

import (
	"context"
	"fmt"
	"log"

	"ppoeval/internal/domain"
	"ppoeval/internal/port"
)

// Extractor dispatches a document to the decoder registered for its format.
type Extractor struct {
	decoders map[domain.DocumentFormat]port.TextDecoder
}

// New creates an Extractor with the built-in decoder for every format.
func New() *Extractor {
	return NewWithDecoders(map[domain.DocumentFormat]port.TextDecoder{
		domain.FormatDOCX:  NewDOCXDecoder(),
		domain.FormatPDF:   NewPDFDecoder(),
		domain.FormatRTF:   NewRTFDecoder(),
		domain.FormatXLSX:  NewXLSXDecoder(),
		domain.FormatPlain: NewPlainDecoder(),
	})
}

// NewWithDecoders creates an Extractor from an explicit decoder set.
// Formats without a decoder fall back to plain text.
func NewWithDecoders(decoders map[domain.DocumentFormat]port.TextDecoder) *Extractor {
	own := make(map[domain.DocumentFormat]port.TextDecoder, len(decoders)+1)
	for format, d := range decoders {
		own[format] = d
	}
	if _, ok := own[domain.FormatPlain]; !ok {
		own[domain.FormatPlain] = NewPlainDecoder()
	}
	return &Extractor{decoders: own}
}

// Extract returns the document's text. It never fails: a decoder error or
// panic is logged and replaced by an inline diagnostic marker.
func (e *Extractor) Extract(ctx context.Context, doc domain.UploadedDocument) (text string) {
	format := doc.Format()
	decoder, ok := e.decoders[format]
	if !ok {
		decoder = e.decoders[domain.FormatPlain]
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("extractor.Extract: %s decoder panicked on %q: %v", format, doc.Name, r)
			text = DiagnosticText(doc.Name, format)
		}
	}()

	out, err := decoder.Decode(ctx, doc.Bytes)
	if err != nil {
		log.Printf("extractor.Extract: %v: %s decoder on %q: %v", domain.ErrExtractionFailed, format, doc.Name, err)
		return DiagnosticText(doc.Name, format)
	}
	return out
}

// DiagnosticText is the marker embedded in place of text that could not be extracted.
func DiagnosticText(name string, format domain.DocumentFormat) string {
	return fmt.Sprintf("[No se pudo extraer el texto de %q (%s)]", name, format)
}
