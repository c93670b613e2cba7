package domain

import "strings"

// DocumentFormat identifies the decoder used to turn an upload into text.
type DocumentFormat string

const (
	FormatDOCX  DocumentFormat = "docx"
	FormatPDF   DocumentFormat = "pdf"
	FormatRTF   DocumentFormat = "rtf"
	FormatXLSX  DocumentFormat = "xlsx"
	FormatPlain DocumentFormat = "plain"
)

// MIMETypePDF is the only PDF media type recognised from a MIME hint.
const MIMETypePDF = "application/pdf"

// ResolveFormat picks the document format from a file name and an optional
// MIME hint. The first matching rule wins:
// docx (extension or a "word" MIME), pdf (extension or application/pdf),
// rtf (extension), xlsx (extension or a "spreadsheetml" MIME), plain.
func ResolveFormat(fileName, mimeType string) DocumentFormat {
	ext := FileExtension(fileName)
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case ext == "docx" || strings.Contains(mimeType, "word"):
		return FormatDOCX
	case ext == "pdf" || mimeType == MIMETypePDF:
		return FormatPDF
	case ext == "rtf":
		return FormatRTF
	case ext == "xlsx" || strings.Contains(mimeType, "spreadsheetml"):
		return FormatXLSX
	default:
		return FormatPlain
	}
}

// FileExtension returns the lower-cased text after the last dot. A name with
// no dot is returned whole, so it never matches a known extension.
func FileExtension(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		fileName = fileName[i+1:]
	}
	return strings.ToLower(fileName)
}

// ReferenceRole names one of the fixed reference documents included in
// every prompt.
type ReferenceRole string

const (
	RoleInstructivo ReferenceRole = "instructivo"
	RolePlanilla    ReferenceRole = "planilla"
	RolePlantilla   ReferenceRole = "plantilla"
	RoleResolucion  ReferenceRole = "resolucion"
	RoleMarco       ReferenceRole = "marco"
)

// AllReferenceRoles lists the reference roles in prompt order (1-5).
var AllReferenceRoles = []ReferenceRole{
	RoleInstructivo,
	RolePlanilla,
	RolePlantilla,
	RoleResolucion,
	RoleMarco,
}

// ReferenceLabels maps each role to the label used in the prompt.
var ReferenceLabels = map[ReferenceRole]string{
	RoleInstructivo: "Instructivo",
	RolePlanilla:    "Planilla de Evaluación",
	RolePlantilla:   "Plantilla Oficial",
	RoleResolucion:  "Resolución Curricular",
	RoleMarco:       "Marco Pedagógico",
}

// DefaultReferenceFiles maps each role to its default file name inside the
// reference directory.
var DefaultReferenceFiles = map[ReferenceRole]string{
	RoleInstructivo: "instructivo.docx",
	RolePlanilla:    "planilla.pdf",
	RolePlantilla:   "plantilla.docx",
	RoleResolucion:  "resolucion.docx",
	RoleMarco:       "proyecto.rtf",
}

// Label returns the prompt label for the role, or the role itself if unknown.
func (r ReferenceRole) Label() string {
	if l, ok := ReferenceLabels[r]; ok {
		return l
	}
	return string(r)
}
