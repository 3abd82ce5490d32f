// Package media encodes image payloads for the brokerage backend.
package media

import (
	"encoding/base64"
	"io"

	"freight/internal/core/ports"
)

// Base64Encoder implements ports.ImageEncoder with standard base64
// encoding, the form the backend expects for document uploads.
type Base64Encoder struct{}

var _ ports.ImageEncoder = Base64Encoder{}

// NewBase64Encoder creates an encoder.
func NewBase64Encoder() Base64Encoder {
	return Base64Encoder{}
}

// Encode reads the image and returns it base64 encoded.
func (Base64Encoder) Encode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
