package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"go.uber.org/zap"
)

// putObjectAPI is the slice of the S3 client the uploader needs
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader handles image uploads to AWS S3
type S3Uploader struct {
	client  putObjectAPI
	bucket  string
	region  string
	baseURL string
	folder  string
	now     func() time.Time
}

// UploadResult contains the result of an image upload
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"file_id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// NewS3Uploader creates a new S3 uploader. Objects are written under folder and
// served from baseURL (a CDN in front of the bucket).
func NewS3Uploader(ctx context.Context, region, bucket, baseURL, folder string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return newS3Uploader(s3.NewFromConfig(cfg), region, bucket, baseURL, folder), nil
}

func newS3Uploader(client putObjectAPI, region, bucket, baseURL, folder string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		folder:  strings.Trim(folder, "/"),
		now:     time.Now,
	}
}

// UploadImage stores the image at {folder}/{userID}/{unixMillis}_{sanitizedName}
func (u *S3Uploader) UploadImage(ctx context.Context, data []byte, userID, fileName string) (*UploadResult, error) {
	now := u.now()
	name := fmt.Sprintf("%d_%s", now.UnixMilli(), SanitizeFileName(fileName))
	key := strings.Join([]string{u.folder, userID, name}, "/")
	if u.folder == "" {
		key = userID + "/" + name
	}

	width, height := imageDimensions(data)
	fileID := uuid.New().String()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(getContentTypeForImage(filepath.Ext(name))),
		CacheControl: aws.String("max-age=31536000"),
		Metadata: map[string]string{
			"user-id":           userID,
			"file-id":           fileID,
			"original-filename": fileName,
			"upload-timestamp":  now.UTC().Format(time.RFC3339),
			"file-type":         "image",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	logger.Log.Info("Image uploaded",
		logger.WithUserID(userID),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return &UploadResult{
		URL:    fmt.Sprintf("%s/%s", u.baseURL, key),
		FileID: fileID,
		Key:    key,
		Name:   name,
		Width:  width,
		Height: height,
		Size:   int64(len(data)),
	}, nil
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with an underscore.
// An empty name becomes "upload".
func SanitizeFileName(name string) string {
	if name == "" {
		return "upload"
	}
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

// imageDimensions decodes just the image header. Formats without a registered
// decoder report 0x0.
func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// getContentTypeForImage returns the MIME type for an image extension
func getContentTypeForImage(extension string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
