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

const foodCollectionName = "food_pool"

// mongoFoodPoolRepository implements repository.FoodPoolRepository
type mongoFoodPoolRepository struct {
	collection *mongo.Collection
}

// NewMongoFoodPoolRepository creates a new food-pool repository backed by
// MongoDB.
func NewMongoFoodPoolRepository(db *mongo.Database) repository.FoodPoolRepository {
	return &mongoFoodPoolRepository{
		collection: db.Collection(foodCollectionName),
	}
}

// GetAll returns the whole pool in stable slug order.
func (r *mongoFoodPoolRepository) GetAll(ctx context.Context) ([]domain.Food, error) {
	return r.find(ctx, bson.M{})
}

// GetByRegion returns foods for a region plus the global items every region
// shares.
func (r *mongoFoodPoolRepository) GetByRegion(ctx context.Context, region domain.FoodRegion) ([]domain.Food, error) {
	filter := bson.M{"regionCode": bson.M{"$in": []domain.FoodRegion{region, domain.RegionGlobal}}}
	return r.find(ctx, filter)
}

func (r *mongoFoodPoolRepository) find(ctx context.Context, filter bson.M) ([]domain.Food, error) {
	var foods []domain.Food

	findOptions := options.Find().SetSort(bson.D{{Key: "slug", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// Upsert inserts or replaces one pool entry, keyed by slug.
func (r *mongoFoodPoolRepository) Upsert(ctx context.Context, food *domain.Food) error {
	if food.Slug == "" || food.Name == "" {
		return errors.New("food slug and name are required")
	}

	filter := bson.M{"slug": food.Slug}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, food, opts)
	return err
}

// EnsureFoodPoolIndexes creates the unique slug index and the region index.
func EnsureFoodPoolIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(foodCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "regionCode", Value: 1}},
		},
	})
	return err
}
