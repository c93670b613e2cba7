package extractor

import (
	"context"
	"regexp"
	"strings"
)

// rtfControlPattern matches the control words scrubbed from RTF input: font
// and font-size selectors, paragraph and tab markers, smart quotes, the
// escaped Spanish accented letters and unicode escapes. Anything else is left
// in the text.
var rtfControlPattern = regexp.MustCompile(
	`\\f[0-9x]|\\fs[0-9x]|\\par|\\tab|\\ldblquote|\\rdblquote|\\lquote|\\rquote|` +
		`\\'e1|\\'e9|\\'ed|\\'f3|\\'fa|\\'f1|\\u[0-9]{4,5}\??`,
)

// RTFDecoder performs a best-effort cleanup of RTF documents. It is not an
// RTF parser.
type RTFDecoder struct{}

// NewRTFDecoder creates an RTF decoder.
func NewRTFDecoder() *RTFDecoder {
	return &RTFDecoder{}
}

// Decode decodes the bytes as UTF-8 and scrubs known control words.
func (d *RTFDecoder) Decode(_ context.Context, data []byte) (string, error) {
	return CleanRTF(decodeUTF8(data)), nil
}

// CleanRTF replaces every known control word with a single space.
// Applying it to its own output is a no-op.
func CleanRTF(s string) string {
	return rtfControlPattern.ReplaceAllString(s, " ")
}

func decodeUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
