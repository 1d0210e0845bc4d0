package storage

import "context"

// ImageUploader stores an image in the object store and reports where it lives.
// Handlers depend on it so tests can substitute an in-memory implementation.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, userID, fileName string) (*UploadResult, error)
}

// Ensure S3Uploader implements ImageUploader
var _ ImageUploader = (*S3Uploader)(nil)
