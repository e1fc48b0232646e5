package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/foodkart/catalog-service/internal/apperr"
)

// CloudinaryStorage implements FileStorage against Cloudinary
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary-backed file storage client
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary client: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

// Upload sends the file at localPath to Cloudinary keyed by its base name,
// overwriting any existing object with that key, and removes the local file
// once the upload succeeds. The local file is left in place on failure.
func (c *CloudinaryStorage) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	publicID := filepath.Base(localPath)

	res, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		PublicID:       publicID,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(true),
	})
	if err != nil {
		return nil, apperr.Upload(err)
	}

	if err := os.Remove(localPath); err != nil {
		return nil, apperr.Upload(fmt.Errorf("remove staged file: %w", err))
	}

	return &UploadResult{PublicID: res.PublicID, SecureURL: res.SecureURL}, nil
}

// Destroy deletes the named remote object. Destroying a key that no longer
// exists is not guaranteed to fail.
func (c *CloudinaryStorage) Destroy(ctx context.Context, publicID string) error {
	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return apperr.Delete(err)
	}
	return nil
}
