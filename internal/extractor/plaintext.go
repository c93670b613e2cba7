package extractor

import "context"

// PlainDecoder returns the bytes as UTF-8 text, unchanged apart from
// replacing invalid sequences.
type PlainDecoder struct{}

// NewPlainDecoder creates a plain text decoder.
func NewPlainDecoder() *PlainDecoder {
	return &PlainDecoder{}
}

func (d *PlainDecoder) Decode(_ context.Context, data []byte) (string, error) {
	return decodeUTF8(data), nil
}
