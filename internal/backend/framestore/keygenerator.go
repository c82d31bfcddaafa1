package framestore

import (
	"io"

	"github.com/google/uuid"
)

// NewFrameID returns a random UUID v4 string drawn from r, so a seeded reader
// yields reproducible identifiers.
func NewFrameID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
