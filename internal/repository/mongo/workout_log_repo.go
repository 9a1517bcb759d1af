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

const (
	exerciseLogCollectionName = "exercise_logs"
	weeklyLogCollectionName   = "weekly_logs"
)

// exerciseLogDoc is the storage shape for one set log; the domain type keeps
// the per-exercise grouping, storage flattens it for indexed queries.
type exerciseLogDoc struct {
	UserID       string    `bson:"userId"`
	ExerciseSlug string    `bson:"exerciseSlug"`
	Date         time.Time `bson:"date"`
	Sets         int       `bson:"sets"`
	Reps         int       `bson:"reps"`
	WeightKg     float64   `bson:"weightKg,omitempty"`
	EnergyLevel  int       `bson:"energyLevel"`
}

// weeklyLogDoc stores the raw accumulators for one week. Completed sessions
// and the energy mean are derived on read so folds stay single atomic
// updates.
type weeklyLogDoc struct {
	UserID           string `bson:"userId"`
	domain.WeeklyLog `bson:",inline"`
	SessionDates     []string `bson:"sessionDates,omitempty"`
	EnergySum        float64  `bson:"energySum,omitempty"`
	EnergySamples    int      `bson:"energySamples,omitempty"`
}

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	exerciseLogs *mongo.Collection
	weeklyLogs   *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new workout-log repository backed by
// MongoDB.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		exerciseLogs: db.Collection(exerciseLogCollectionName),
		weeklyLogs:   db.Collection(weeklyLogCollectionName),
	}
}

// Append records one logged performance of an exercise.
func (r *mongoWorkoutLogRepository) Append(ctx context.Context, userID, exerciseSlug string, log *domain.ExerciseSetLog) error {
	if userID == "" || exerciseSlug == "" {
		return errors.New("user ID and exercise slug are required")
	}

	doc := exerciseLogDoc{
		UserID:       userID,
		ExerciseSlug: exerciseSlug,
		Date:         log.Date,
		Sets:         log.Sets,
		Reps:         log.Reps,
		WeightKg:     log.WeightKg,
		EnergyLevel:  log.EnergyLevel,
	}
	if doc.Date.IsZero() {
		doc.Date = time.Now().UTC()
	}

	_, err := r.exerciseLogs.InsertOne(ctx, doc)
	return err
}

// GetExerciseHistory returns up to limit logs for one exercise, oldest
// first. The progression engine inspects the tail of this slice.
func (r *mongoWorkoutLogRepository) GetExerciseHistory(ctx context.Context, userID, exerciseSlug string, limit int) (*domain.ExerciseHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	filter := bson.M{"userId": userID, "exerciseSlug": exerciseSlug}
	// Newest first to apply the limit, reversed below.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.exerciseLogs.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []exerciseLogDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	history := &domain.ExerciseHistory{
		ExerciseID: exerciseSlug,
		Logs:       make([]domain.ExerciseSetLog, len(docs)),
	}
	for i, doc := range docs {
		history.Logs[len(docs)-1-i] = domain.ExerciseSetLog{
			Date:        doc.Date,
			Sets:        doc.Sets,
			Reps:        doc.Reps,
			WeightKg:    doc.WeightKg,
			EnergyLevel: doc.EnergyLevel,
		}
	}
	return history, nil
}

// FoldIntoWeek accumulates one logged exercise into its week's aggregate,
// creating it on first write. One atomic upsert per fold: distinct dates
// collect in a set, energy collects as sum plus sample count.
func (r *mongoWorkoutLogRepository) FoldIntoWeek(ctx context.Context, userID string, delta repository.WeeklyDelta) error {
	if userID == "" || delta.WeekNumber <= 0 {
		return errors.New("user ID and week number are required")
	}

	day := delta.Date.UTC().Format("2006-01-02")
	filter := bson.M{"userId": userID, "weekNumber": delta.WeekNumber}
	update := bson.M{
		"$addToSet": bson.M{"sessionDates": day},
		"$inc": bson.M{
			"totalVolume":   delta.Volume,
			"energySum":     float64(delta.EnergyLevel),
			"energySamples": 1,
		},
		"$set": bson.M{"plannedSessions": delta.PlannedSessions},
	}

	_, err := r.weeklyLogs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetWeeklyLogs returns up to weeks of aggregated logs, oldest first. weeks
// <= 0 returns the full history; the deload schedule rule needs the total
// week count.
func (r *mongoWorkoutLogRepository) GetWeeklyLogs(ctx context.Context, userID string, weeks int) ([]domain.WeeklyLog, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "weekNumber", Value: -1}})
	if weeks > 0 {
		findOptions = findOptions.SetLimit(int64(weeks))
	}

	cursor, err := r.weeklyLogs.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []weeklyLogDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	logs := make([]domain.WeeklyLog, len(docs))
	for i, doc := range docs {
		wl := doc.WeeklyLog
		wl.CompletedSessions = len(doc.SessionDates)
		if doc.EnergySamples > 0 {
			wl.AvgEnergyLevel = doc.EnergySum / float64(doc.EnergySamples)
		}
		logs[len(docs)-1-i] = wl
	}
	return logs, nil
}

// EnsureWorkoutLogIndexes creates the query indexes for both log collections.
func EnsureWorkoutLogIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(exerciseLogCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "exerciseSlug", Value: 1},
			{Key: "date", Value: -1},
		},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(weeklyLogCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "weekNumber", Value: -1},
		},
	})
	return err
}
