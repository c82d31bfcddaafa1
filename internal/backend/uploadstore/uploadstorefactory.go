package uploadstore

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	TypeFilesystem = "filesystem"
	TypeMinio      = "minio"
)

// Options selects and configures an upload store backend
type Options struct {
	Type      string
	Directory string
	Minio     MinioOptions
}

// NewUploadStore creates the backend named by options.Type
func NewUploadStore(ctx context.Context, options Options) (store UploadStore, err error) {
	switch options.Type {
	case TypeFilesystem:
		store, err = NewFilesystemStore(options.Directory)
	case TypeMinio:
		store, err = NewMinioStore(ctx, options.Minio)
	default:
		return nil, fmt.Errorf("unsupported upload store type: %s", options.Type)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("upload store initialized", "type", options.Type)
	return store, nil
}
