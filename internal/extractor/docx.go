package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// DOCXDecoder extracts raw text from Office Open XML word documents.
type DOCXDecoder struct{}

// NewDOCXDecoder creates a DOCX decoder.
func NewDOCXDecoder() *DOCXDecoder {
	return &DOCXDecoder{}
}

// Decode reads word/document.xml from the archive and flattens it to text.
func (d *DOCXDecoder) Decode(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != docxBodyPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", docxBodyPart, err)
		}
		defer func() { _ = rc.Close() }()

		return parseDocumentXML(rc)
	}
	return "", fmt.Errorf("docx archive has no %s", docxBodyPart)
}

// parseDocumentXML walks the WordprocessingML token stream. Text runs are
// kept, tabs and breaks inside runs become \t and \n, and every paragraph
// (table cells included) ends with a newline.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	runDepth := 0
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				runDepth++
			case "t":
				inText = runDepth > 0
			case "tab":
				// w:tab also defines tab stops inside paragraph properties
				if runDepth > 0 {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if runDepth > 0 {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
