package core

import (
	"errors"

	"github.com/jo-hoe/godenoise/internal/backend/framestore"
	"github.com/jo-hoe/godenoise/internal/backend/uploadstore"
)

// Client input errors; the API layer answers these with 400.
var (
	ErrEmptyFilename     = errors.New("empty filename")
	ErrInvalidFilename   = uploadstore.ErrInvalidName
	ErrBaseImageNotFound = errors.New("no base image found")
)

// Not found errors; the API layer answers these with 404.
var (
	ErrFrameNotFound  = framestore.ErrFrameNotFound
	ErrUploadNotFound = uploadstore.ErrUploadNotFound
)

// IsClientInputError reports whether err was caused by the request rather than the server
func IsClientInputError(err error) bool {
	return errors.Is(err, ErrEmptyFilename) ||
		errors.Is(err, ErrInvalidFilename) ||
		errors.Is(err, ErrBaseImageNotFound)
}

// IsNotFoundError reports whether err means the requested image does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFrameNotFound) || errors.Is(err, ErrUploadNotFound)
}
