package ports

import "io"

// ImageEncoder turns raw image bytes into the string form the brokerage
// backend expects in document upload payloads.
type ImageEncoder interface {
	Encode(r io.Reader) (string, error)
}
