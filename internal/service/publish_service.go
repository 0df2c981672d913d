package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/repository"
	"zsports/sports-history/internal/storage"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidPlotName  = errors.New("invalid plot name")
	ErrPlotNotFound     = errors.New("plot not found")
	ErrNotPublished     = errors.New("plot has not been published")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// plot names are file stems: no separators, no dots.
var plotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ObjectKey is the bucket key of a chart: "<prefix>-<name>.json", or
// "<name>.json" without a prefix.
func ObjectKey(prefix, name string) string {
	if prefix == "" {
		return name + ".json"
	}
	return prefix + "-" + name + ".json"
}

type PublishService interface {
	// Publish uploads <plot_root>/<name>.json and records the artifact.
	Publish(ctx context.Context, name, prefix string) (*domain.Artifact, error)
	// Unpublish removes the latest publication of name from the bucket.
	Unpublish(ctx context.Context, name string) error
	ListPublished(ctx context.Context) ([]domain.Artifact, error)
	// DownloadURL presigns the latest publication of name.
	DownloadURL(ctx context.Context, name string) (string, error)
	// LocalPlot returns the chart JSON as written by the analysis.
	LocalPlot(name string) ([]byte, error)
}

type publishService struct {
	plotRoot     string
	artifactRepo repository.ArtifactRepository
	fileStorage  storage.FileStorage
	urlExpiry    time.Duration
}

func NewPublishService(plotRoot string, artifactRepo repository.ArtifactRepository, fileStorage storage.FileStorage) PublishService {
	return &publishService{
		plotRoot:     plotRoot,
		artifactRepo: artifactRepo,
		fileStorage:  fileStorage,
		urlExpiry:    storage.DefaultPresignedURLExpiry,
	}
}

func (s *publishService) localPath(name string) (string, error) {
	if !plotNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w %q", ErrInvalidPlotName, name)
	}
	return filepath.Join(s.plotRoot, name+".json"), nil
}

func (s *publishService) Publish(ctx context.Context, name, prefix string) (*domain.Artifact, error) {
	path, err := s.localPath(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, name)
		}
		return nil, err
	}

	key, err := s.fileStorage.UploadFile(ctx, path, "", ObjectKey(prefix, name))
	if err != nil {
		return nil, err
	}

	artifact := &domain.Artifact{
		Name:        name,
		Bucket:      s.fileStorage.TargetBucket(),
		ObjectKey:   key,
		ContentType: "application/json",
		Size:        info.Size(),
	}
	id, err := s.artifactRepo.Create(ctx, artifact)
	if err != nil {
		// no record points at the object, so it must not stay in the bucket
		if delErr := s.fileStorage.DeleteObject(ctx, key, artifact.Bucket); delErr != nil {
			log.Errorf("publish: orphaned %s/%s: %v", artifact.Bucket, key, delErr)
		}
		return nil, fmt.Errorf("record artifact %s: %w", key, err)
	}
	artifact.ID = id
	log.Infof("publish: %s uploaded to %s/%s", name, artifact.Bucket, key)
	return artifact, nil
}

func (s *publishService) Unpublish(ctx context.Context, name string) error {
	artifact, err := s.latest(ctx, name)
	if err != nil {
		return err
	}
	if err := s.fileStorage.DeleteObject(ctx, artifact.ObjectKey, artifact.Bucket); err != nil {
		return err
	}
	return s.artifactRepo.Delete(ctx, artifact.ID)
}

func (s *publishService) ListPublished(ctx context.Context) ([]domain.Artifact, error) {
	return s.artifactRepo.List(ctx)
}

func (s *publishService) DownloadURL(ctx context.Context, name string) (string, error) {
	artifact, err := s.latest(ctx, name)
	if err != nil {
		return "", err
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, artifact.ObjectKey, artifact.Bucket, s.urlExpiry)
	if err != nil {
		log.Errorf("publish: presign %s: %v", artifact.ObjectKey, err)
		return "", ErrDownloadURLError
	}
	return url, nil
}

func (s *publishService) LocalPlot(name string) ([]byte, error) {
	path, err := s.localPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, name)
	}
	return data, err
}

func (s *publishService) latest(ctx context.Context, name string) (*domain.Artifact, error) {
	if !plotNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w %q", ErrInvalidPlotName, name)
	}
	artifact, err := s.artifactRepo.GetLatestByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotPublished, name)
	}
	return artifact, err
}
