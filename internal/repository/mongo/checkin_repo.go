package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkInCollectionName = "check_ins"

// mongoCheckInRepository implements repository.CheckInRepository
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new check-in repository backed by MongoDB.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Create inserts one daily check-in.
func (r *mongoCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) error {
	if checkIn.UserID == "" {
		return errors.New("user ID is required")
	}
	if checkIn.Date.IsZero() {
		checkIn.Date = time.Now().UTC()
	}
	checkIn.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, checkIn)
	return err
}

// GetRecent returns up to limit check-ins for the user, newest first. The
// trigger evaluator consumes the result as-is, so ordering matters.
func (r *mongoCheckInRepository) GetRecent(ctx context.Context, userID string, limit int) ([]domain.CheckIn, error) {
	if limit <= 0 {
		limit = 7
	}

	filter := bson.M{"userId": userID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, findOptions)
}

// GetSince returns check-ins on or after the cutoff, newest first.
func (r *mongoCheckInRepository) GetSince(ctx context.Context, userID string, since time.Time) ([]domain.CheckIn, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": since},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	return r.find(ctx, filter, findOptions)
}

func (r *mongoCheckInRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.CheckIn, error) {
	var checkIns []domain.CheckIn

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// EnsureCheckInIndexes creates the user/date index the recency queries use.
func EnsureCheckInIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(checkInCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "date", Value: -1},
		},
	})
	return err
}
