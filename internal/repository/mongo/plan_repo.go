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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Save upserts the current plan for (userId, weekNumber, type). A previous
// record under the same key is replaced; callers archive it beforehand if
// they need it kept.
func (r *mongoPlanRepository) Save(ctx context.Context, record *domain.PlanRecord) error {
	if record.UserID == "" {
		return errors.New("user ID is required")
	}
	if record.Type != domain.PlanTypeWorkout && record.Type != domain.PlanTypeNutrition {
		return errors.New("unknown plan type")
	}

	if record.ID == primitive.NilObjectID {
		record.ID = primitive.NewObjectID()
	}
	if record.GeneratedAt.IsZero() {
		record.GeneratedAt = time.Now().UTC()
	}

	filter := bson.M{
		"userId":     record.UserID,
		"weekNumber": record.WeekNumber,
		"type":       record.Type,
	}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, record, opts)
	return err
}

// GetCurrent retrieves the plan for one user, week and type.
func (r *mongoPlanRepository) GetCurrent(ctx context.Context, userID string, weekNumber int, planType domain.PlanType) (*domain.PlanRecord, error) {
	var record domain.PlanRecord
	filter := bson.M{
		"userId":     userID,
		"weekNumber": weekNumber,
		"type":       planType,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetHistory returns up to limit past plans of one type, newest week first.
func (r *mongoPlanRepository) GetHistory(ctx context.Context, userID string, planType domain.PlanType, limit int) ([]domain.PlanRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	var records []domain.PlanRecord
	filter := bson.M{"userId": userID, "type": planType}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "weekNumber", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsurePlanIndexes creates the compound key index for the plans collection.
func EnsurePlanIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(planCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "weekNumber", Value: 1},
			{Key: "type", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
