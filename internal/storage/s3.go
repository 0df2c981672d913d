package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"zsports/sports-history/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	log "github.com/sirupsen/logrus"
)

// s3API is the part of *s3.Client the gateway uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	PutBucketCors(ctx context.Context, params *s3.PutBucketCorsInput, optFns ...func(*s3.Options)) (*s3.PutBucketCorsOutput, error)
	GetBucketCors(ctx context.Context, params *s3.GetBucketCorsInput, optFns ...func(*s3.Options)) (*s3.GetBucketCorsOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// s3Storage implements the FileStorage interface using an S3-compatible backend.
type s3Storage struct {
	client        s3API
	presignClient presignAPI
	targetBucket  string
	dataPath      string
}

// NewS3Storage creates a new S3 storage service instance. dataPath is the
// default directory for downloads and may be empty.
func NewS3Storage(cfg config.S3Config, dataPath string) (FileStorage, error) {
	// Custom resolver for S3-compatible endpoints (Hetzner, MinIO)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.URL != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.URL,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Errorf("failed to load AWS SDK config for S3: %s", err)
		return nil, err
	}

	// Path-style addressing is required by most S3-compatible services.
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Infof("S3 storage initialized for endpoint: %s, bucket: %s", cfg.URL, cfg.BucketName)

	return newS3Storage(s3Client, s3.NewPresignClient(s3Client), cfg.BucketName, dataPath), nil
}

func newS3Storage(client s3API, presignClient presignAPI, bucket, dataPath string) *s3Storage {
	return &s3Storage{
		client:        client,
		presignClient: presignClient,
		targetBucket:  bucket,
		dataPath:      dataPath,
	}
}

func (s *s3Storage) TargetBucket() string {
	return s.targetBucket
}

func (s *s3Storage) bucket(bucket string) (string, error) {
	if bucket != "" {
		return bucket, nil
	}
	if s.targetBucket == "" {
		return "", ErrNoBucket
	}
	return s.targetBucket, nil
}

// UploadFile uploads the bytes at localPath to bucket/objectName.
func (s *s3Storage) UploadFile(ctx context.Context, localPath, bucket, objectName string) (string, error) {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return "", err
	}
	if objectName == "" {
		objectName = filepath.Base(localPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        f,
		ContentType: aws.String(contentType(objectName)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, objectName, err)
	}

	log.Infof("uploaded %s to %s/%s", localPath, bucket, objectName)
	return objectName, nil
}

// DownloadFile writes bucket/objectName to localPath.
func (s *s3Storage) DownloadFile(ctx context.Context, objectName, bucket, localPath string) (string, error) {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return "", err
	}
	if localPath == "" {
		if s.dataPath == "" {
			return "", ErrNoLocalPath
		}
		localPath = filepath.Join(s.dataPath, objectName)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return "", fmt.Errorf("get object %s/%s: %w", bucket, objectName, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(localPath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", localPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", localPath, err)
	}

	log.Infof("downloaded %s/%s to %s", bucket, objectName, localPath)
	return localPath, nil
}

// SetCORS replaces the bucket policy with rule, exposing ETag and letting
// browsers cache the preflight for CORSMaxAgeSeconds.
func (s *s3Storage) SetCORS(ctx context.Context, rule CORSRule, bucket string) error {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return err
	}
	if len(rule.AllowedHeaders) == 0 {
		rule.AllowedHeaders = []string{"*"}
	}

	_, err = s.client.PutBucketCors(ctx, &s3.PutBucketCorsInput{
		Bucket: aws.String(bucket),
		CORSConfiguration: &types.CORSConfiguration{
			CORSRules: []types.CORSRule{
				{
					AllowedOrigins: rule.AllowedOrigins,
					AllowedMethods: rule.AllowedMethods,
					AllowedHeaders: rule.AllowedHeaders,
					ExposeHeaders:  []string{CORSExposeHeader},
					MaxAgeSeconds:  aws.Int32(CORSMaxAgeSeconds),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put bucket cors %s: %w", bucket, err)
	}
	log.Infof("CORS set on bucket %s: origins=%v methods=%v", bucket, rule.AllowedOrigins, rule.AllowedMethods)
	return nil
}

func (s *s3Storage) GetCORS(ctx context.Context, bucket string) ([]CORSRule, error) {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetBucketCors(ctx, &s3.GetBucketCorsInput{Bucket: aws.String(bucket)})
	if err != nil {
		return nil, fmt.Errorf("get bucket cors %s: %w", bucket, err)
	}

	rules := make([]CORSRule, 0, len(out.CORSRules))
	for _, r := range out.CORSRules {
		rules = append(rules, CORSRule{
			AllowedOrigins: r.AllowedOrigins,
			AllowedMethods: r.AllowedMethods,
			AllowedHeaders: r.AllowedHeaders,
			ExposeHeaders:  r.ExposeHeaders,
			MaxAgeSeconds:  aws.ToInt32(r.MaxAgeSeconds),
		})
	}
	return rules, nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, objectKey, bucket string, expires time.Duration) (string, error) {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return "", err
	}
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Errorf("failed to generate presigned GET URL for key '%s': %s", objectKey, err)
		return "", err
	}

	return req.URL, nil
}

// DeleteObject removes an object from the bucket.
func (s *s3Storage) DeleteObject(ctx context.Context, objectKey, bucket string) error {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Errorf("failed to delete object '%s' from bucket '%s': %s", objectKey, bucket, err)
		return err
	}

	log.Infof("deleted object '%s' from bucket '%s'", objectKey, bucket)
	return nil
}

func contentType(objectName string) string {
	switch filepath.Ext(objectName) {
	case ".json", ".geojson":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".png":
		return "image/png"
	}
	return "application/octet-stream"
}
