package repository

import (
	"context"

	"zsports/sports-history/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrInvalid      = RepositoryError("invalid document")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TrainingRepository stores parsed Polar trainings, keyed by export file name.
type TrainingRepository interface {
	// Upsert replaces the training with the same filename or inserts it.
	Upsert(ctx context.Context, training *domain.Training) error
	// UpsertMany upserts all trainings and returns how many were new.
	UpsertMany(ctx context.Context, trainings []domain.Training) (int, error)
	GetByFilename(ctx context.Context, filename string) (*domain.Training, error)
	// List returns trainings ordered by date; an empty sport means all.
	List(ctx context.Context, sport domain.Sport) ([]domain.Training, error)
}

// ArtifactRepository stores records of charts published to object storage.
type ArtifactRepository interface {
	Create(ctx context.Context, artifact *domain.Artifact) (primitive.ObjectID, error)
	// GetLatestByName returns the most recent publication of a chart.
	GetLatestByName(ctx context.Context, name string) (*domain.Artifact, error)
	// List returns all publications, newest first.
	List(ctx context.Context) ([]domain.Artifact, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
