package mongo

import (
	"context"
	"errors"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercise_pool"

// mongoExercisePoolRepository implements repository.ExercisePoolRepository
type mongoExercisePoolRepository struct {
	collection *mongo.Collection
}

// NewMongoExercisePoolRepository creates a new exercise-pool repository
// backed by MongoDB. The pool is curated reference data; application code
// only reads it, Upsert exists for seeding.
func NewMongoExercisePoolRepository(db *mongo.Database) repository.ExercisePoolRepository {
	return &mongoExercisePoolRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// GetAll returns the whole pool in stable slug order. The eligibility filter
// depends on a deterministic input ordering.
func (r *mongoExercisePoolRepository) GetAll(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise

	findOptions := options.Find().SetSort(bson.D{{Key: "slug", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetBySlug retrieves one exercise by its stable slug.
func (r *mongoExercisePoolRepository) GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{"slug": slug}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Upsert inserts or replaces one pool entry, keyed by slug.
func (r *mongoExercisePoolRepository) Upsert(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Slug == "" || exercise.Name == "" {
		return errors.New("exercise slug and name are required")
	}

	filter := bson.M{"slug": exercise.Slug}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, exercise, opts)
	return err
}

// EnsureExercisePoolIndexes creates the unique slug index for the pool.
func EnsureExercisePoolIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(exerciseCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
