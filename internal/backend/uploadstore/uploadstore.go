package uploadstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUploadNotFound is returned when no upload with the given name exists
	ErrUploadNotFound = errors.New("upload not found")
	// ErrInvalidName is returned for names that could escape the flat upload namespace
	ErrInvalidName = errors.New("invalid upload name")
)

// UploadStore is a flat namespace of uploaded files keyed by filename.
// Saving an existing name overwrites it.
type UploadStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// ValidateName rejects empty names, path separators, dot segments and control characters
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidName, name)
		}
	}
	return nil
}
