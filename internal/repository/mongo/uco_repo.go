package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ucoCollectionName = "user_contexts"

// mongoUCORepository implements repository.UCORepository
type mongoUCORepository struct {
	collection *mongo.Collection
}

// NewMongoUCORepository creates a new user-context repository backed by MongoDB.
func NewMongoUCORepository(db *mongo.Database) repository.UCORepository {
	return &mongoUCORepository{
		collection: db.Collection(ucoCollectionName),
	}
}

// Create inserts a fresh user context. Version starts at 1.
func (r *mongoUCORepository) Create(ctx context.Context, uco *domain.UserContextObject) error {
	if uco.Meta.UserID == "" {
		return errors.New("user ID is required")
	}

	uco.Meta.Version = 1
	uco.Meta.LastUpdated = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, uco)
	return err
}

// GetByUserID retrieves the context document for one user.
func (r *mongoUCORepository) GetByUserID(ctx context.Context, userID string) (*domain.UserContextObject, error) {
	var uco domain.UserContextObject
	filter := bson.M{"meta.userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&uco)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &uco, nil
}

// Update replaces the stored document with optimistic concurrency: the
// filter matches only if the stored version equals expectedVersion, and the
// replacement carries expectedVersion+1.
func (r *mongoUCORepository) Update(ctx context.Context, uco *domain.UserContextObject, expectedVersion int) error {
	if uco.Meta.UserID == "" {
		return errors.New("user ID is required")
	}

	uco.Meta.Version = expectedVersion + 1
	uco.Meta.LastUpdated = time.Now().UTC()

	filter := bson.M{
		"meta.userId":  uco.Meta.UserID,
		"meta.version": expectedVersion,
	}

	result, err := r.collection.ReplaceOne(ctx, filter, uco)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the document is missing or someone else bumped the version.
		if _, gerr := r.GetByUserID(ctx, uco.Meta.UserID); gerr != nil {
			return gerr
		}
		return repository.ErrVersionConflict
	}
	return nil
}

// EnsureUCOIndexes creates the unique userId index for the collection.
func EnsureUCOIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ucoCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "meta.userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
