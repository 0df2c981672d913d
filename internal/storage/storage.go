package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// CORS policy constants applied by SetCORS.
const (
	CORSMaxAgeSeconds = 3000
	CORSExposeHeader  = "ETag"
)

// Configuration errors, returned before any request is made.
var (
	ErrNoBucket    = errors.New("bucket name must be provided either as an argument or set as target bucket")
	ErrNoLocalPath = errors.New("file path must be provided either as an argument or set as data path")
)

// CORSRule is one cross-origin rule of a bucket.
type CORSRule struct {
	AllowedOrigins []string `json:"allowedOrigins"`
	AllowedMethods []string `json:"allowedMethods"`
	AllowedHeaders []string `json:"allowedHeaders"`
	ExposeHeaders  []string `json:"exposeHeaders,omitempty"`
	MaxAgeSeconds  int32    `json:"maxAgeSeconds,omitempty"`
}

// FileStorage defines the interface for object storage operations.
// Empty bucket arguments fall back to the configured target bucket.
type FileStorage interface {
	// UploadFile uploads the file at localPath. An empty objectName defaults
	// to the base name of localPath. Returns the object name used.
	UploadFile(ctx context.Context, localPath, bucket, objectName string) (string, error)

	// DownloadFile writes objectName to localPath. An empty localPath
	// defaults to the configured data directory joined with objectName.
	// Returns the local path written.
	DownloadFile(ctx context.Context, objectName, bucket, localPath string) (string, error)

	// SetCORS replaces the bucket CORS policy with a single rule.
	SetCORS(ctx context.Context, rule CORSRule, bucket string) error

	// GetCORS returns the bucket CORS policy.
	GetCORS(ctx context.Context, bucket string) ([]CORSRule, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey, bucket string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey, bucket string) error

	// TargetBucket is the default bucket, possibly empty.
	TargetBucket() string
}
