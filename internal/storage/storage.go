// Package storage handles the image lifecycle: local staging of inbound
// multipart files and their remote persistence in the object store.
package storage

import (
	"context"
	"io"
)

// UploadResult is the remote identity of a successfully uploaded object
type UploadResult struct {
	PublicID  string
	SecureURL string
}

// FileStorage uploads local files to remote storage and deletes remote
// objects by public id
type FileStorage interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// Stager persists an inbound file to transient local storage before upload
type Stager interface {
	Save(file io.Reader, name string) (string, error)
}
