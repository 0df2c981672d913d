package mongo

import (
	"context"
	"errors"
	"time"

	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const artifactCollectionName = "artifacts"

// mongoArtifactRepository implements repository.ArtifactRepository
type mongoArtifactRepository struct {
	collection *mongo.Collection
}

// NewMongoArtifactRepository creates a new Artifact repository backed by MongoDB.
func NewMongoArtifactRepository(db *mongo.Database) repository.ArtifactRepository {
	return &mongoArtifactRepository{
		collection: db.Collection(artifactCollectionName),
	}
}

// Create inserts a publication record. PublishedAt is set when empty.
func (r *mongoArtifactRepository) Create(ctx context.Context, artifact *domain.Artifact) (primitive.ObjectID, error) {
	if artifact.Name == "" || artifact.ObjectKey == "" || artifact.Bucket == "" {
		return primitive.NilObjectID, errors.Join(repository.ErrInvalid, errors.New("artifact requires name, bucket and objectKey"))
	}

	artifact.ID = primitive.NewObjectID()
	if artifact.PublishedAt.IsZero() {
		artifact.PublishedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, artifact)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoArtifactRepository) GetLatestByName(ctx context.Context, name string) (*domain.Artifact, error) {
	var artifact domain.Artifact
	findOneOptions := options.FindOne().SetSort(bson.D{{Key: "publishedAt", Value: -1}})

	err := r.collection.FindOne(ctx, bson.M{"name": name}, findOneOptions).Decode(&artifact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &artifact, nil
}

func (r *mongoArtifactRepository) List(ctx context.Context) ([]domain.Artifact, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "publishedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var artifacts []domain.Artifact
	if err := cursor.All(ctx, &artifacts); err != nil {
		return nil, err
	}
	if artifacts == nil {
		artifacts = []domain.Artifact{}
	}
	return artifacts, nil
}

func (r *mongoArtifactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Join(repository.ErrDeleteFailed, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func artifactIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "publishedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index(),
		},
	}
}
