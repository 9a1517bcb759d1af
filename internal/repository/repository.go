package repository

import (
	"context"
	"time"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound        = RepositoryError("not found")
	ErrUpdateFailed    = RepositoryError("update failed")
	ErrDeleteFailed    = RepositoryError("delete failed")
	ErrVersionConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UCORepository defines the interface for interacting with user context data.
type UCORepository interface {
	Create(ctx context.Context, uco *domain.UserContextObject) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserContextObject, error)
	// Update replaces the stored document only if its version still matches
	// expectedVersion; returns ErrVersionConflict otherwise.
	Update(ctx context.Context, uco *domain.UserContextObject, expectedVersion int) error
}

// ExercisePoolRepository defines the interface for the curated exercise pool.
type ExercisePoolRepository interface {
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Exercise, error)
	Upsert(ctx context.Context, exercise *domain.Exercise) error
}

// FoodPoolRepository defines the interface for the curated food pool.
type FoodPoolRepository interface {
	GetAll(ctx context.Context) ([]domain.Food, error)
	GetByRegion(ctx context.Context, region domain.FoodRegion) ([]domain.Food, error)
	Upsert(ctx context.Context, food *domain.Food) error
}

// PlanRepository defines the interface for persisted plans. Plans are keyed
// by (userId, weekNumber, type); saving over an existing key archives the
// previous record first.
type PlanRepository interface {
	Save(ctx context.Context, record *domain.PlanRecord) error
	GetCurrent(ctx context.Context, userID string, weekNumber int, planType domain.PlanType) (*domain.PlanRecord, error)
	GetHistory(ctx context.Context, userID string, planType domain.PlanType, limit int) ([]domain.PlanRecord, error)
}

// CheckInRepository defines the interface for daily check-in data.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) error
	// GetRecent returns up to limit check-ins for the user, newest first.
	GetRecent(ctx context.Context, userID string, limit int) ([]domain.CheckIn, error)
	GetSince(ctx context.Context, userID string, since time.Time) ([]domain.CheckIn, error)
}

// WeeklyDelta is one logged session's contribution to a weekly aggregate.
// Distinct dates within a week count as distinct completed sessions.
type WeeklyDelta struct {
	WeekNumber      int
	PlannedSessions int
	Date            time.Time
	EnergyLevel     int
	Volume          float64
}

// WorkoutLogRepository defines the interface for per-exercise set logs and
// their weekly aggregates, used by the progression engine.
type WorkoutLogRepository interface {
	Append(ctx context.Context, userID, exerciseSlug string, log *domain.ExerciseSetLog) error
	// GetExerciseHistory returns logs for one exercise, oldest first.
	GetExerciseHistory(ctx context.Context, userID, exerciseSlug string, limit int) (*domain.ExerciseHistory, error)
	// FoldIntoWeek accumulates one log into its week's aggregate, creating
	// the aggregate on first write.
	FoldIntoWeek(ctx context.Context, userID string, delta WeeklyDelta) error
	// GetWeeklyLogs returns the newest aggregates, oldest first. The deload
	// detector's schedule rule counts total weeks, so weeks <= 0 returns
	// the full history.
	GetWeeklyLogs(ctx context.Context, userID string, weeks int) ([]domain.WeeklyLog, error)
}
