package mongo

import (
	"context"
	"errors"

	"zsports/sports-history/internal/domain"
	"zsports/sports-history/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainingCollectionName = "trainings"

// mongoTrainingRepository implements repository.TrainingRepository
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

func (r *mongoTrainingRepository) Upsert(ctx context.Context, training *domain.Training) error {
	if training.Filename == "" {
		return repository.ErrInvalid
	}
	filter := bson.M{"filename": training.Filename}
	_, err := r.collection.ReplaceOne(ctx, filter, training, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(repository.ErrUpdateFailed, err)
	}
	return nil
}

func (r *mongoTrainingRepository) UpsertMany(ctx context.Context, trainings []domain.Training) (int, error) {
	if len(trainings) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(trainings))
	for i := range trainings {
		if trainings[i].Filename == "" {
			return 0, repository.ErrInvalid
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"filename": trainings[i].Filename}).
			SetReplacement(trainings[i]).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, errors.Join(repository.ErrUpdateFailed, err)
	}
	return int(result.UpsertedCount), nil
}

func (r *mongoTrainingRepository) GetByFilename(ctx context.Context, filename string) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, bson.M{"filename": filename}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

func (r *mongoTrainingRepository) List(ctx context.Context, sport domain.Sport) ([]domain.Training, error) {
	filter := bson.M{}
	if sport != "" {
		filter["sport"] = sport
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainings []domain.Training
	if err := cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	if trainings == nil {
		trainings = []domain.Training{}
	}
	return trainings, nil
}

func trainingIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "filename", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sport", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
}
