package service

import (
	"context"
	"errors"
	"time"

	"github.com/Divyansh-9/Urja/internal/adaptation"
	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/logger"
	"github.com/Divyansh-9/Urja/internal/progression"
	"github.com/Divyansh-9/Urja/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidCheckIn = errors.New("check-in values out of range")
)

// CheckInResult is the immediate response to a daily check-in: the triggers
// it fired, if any.
type CheckInResult struct {
	CheckIn  *domain.CheckIn            `json:"checkIn"`
	Triggers []domain.AdaptationTrigger `json:"triggers"`
}

// CoachingService handles daily check-ins, exercise logging and the
// progression queries built on top of them.
type CoachingService interface {
	SubmitCheckIn(ctx context.Context, checkIn *domain.CheckIn) (*CheckInResult, error)
	LogExercise(ctx context.Context, userID, exerciseSlug string, log *domain.ExerciseSetLog) error
	OverloadTargets(ctx context.Context, userID, exerciseSlug string, weekNumber int, hasWeights bool) (*progression.OverloadTargets, error)
	DeloadStatus(ctx context.Context, userID string) (*progression.DeloadDecision, error)
	WeeklySkeleton(ctx context.Context, userID string) (*progression.PlanSkeleton, error)
}

type coachingService struct {
	ucoService  UCOService
	checkInRepo repository.CheckInRepository
	logRepo     repository.WorkoutLogRepository
	log         *logger.Logger
}

// NewCoachingService creates a new instance of coachingService.
func NewCoachingService(
	ucoService UCOService,
	checkInRepo repository.CheckInRepository,
	logRepo repository.WorkoutLogRepository,
	log *logger.Logger,
) CoachingService {
	return &coachingService{
		ucoService:  ucoService,
		checkInRepo: checkInRepo,
		logRepo:     logRepo,
		log:         log.With("service", "coaching"),
	}
}

// SubmitCheckIn stores a daily check-in, evaluates adaptation triggers
// against the recent history and folds the reading into the user's adaptive
// state.
func (s *coachingService) SubmitCheckIn(ctx context.Context, checkIn *domain.CheckIn) (*CheckInResult, error) {
	if checkIn.UserID == "" ||
		checkIn.EnergyLevel < 1 || checkIn.EnergyLevel > 5 ||
		checkIn.StressLevel < 1 || checkIn.StressLevel > 5 ||
		checkIn.SleepHours < 0 || checkIn.SleepHours > 24 {
		return nil, ErrInvalidCheckIn
	}
	if checkIn.Date.IsZero() {
		checkIn.Date = time.Now().UTC()
	}

	// History is newest-first and excludes today's reading; together with
	// the current check-in it forms the consecutive-day windows the trigger
	// rules inspect.
	history, err := s.checkInRepo.GetRecent(ctx, checkIn.UserID, 7)
	if err != nil {
		return nil, err
	}

	if err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		return nil, err
	}

	triggers := adaptation.Evaluate(*checkIn, history)
	if len(triggers) > 0 {
		s.log.Info("adaptation triggers fired",
			"user_id", checkIn.UserID, "count", len(triggers))
	}

	s.updateAdaptiveState(ctx, checkIn)

	return &CheckInResult{CheckIn: checkIn, Triggers: triggers}, nil
}

// updateAdaptiveState folds the check-in into the UCO's rolling energy
// history. Best effort: a conflict or store error does not fail the check-in.
func (s *coachingService) updateAdaptiveState(ctx context.Context, checkIn *domain.CheckIn) {
	uco, err := s.ucoService.Get(ctx, checkIn.UserID)
	if err != nil {
		return
	}

	adaptive := uco.Adaptive
	adaptive.LastCheckIn = checkIn.Date
	adaptive.EnergyLevelHistory = append(adaptive.EnergyLevelHistory, domain.EnergyLog{
		Date:  checkIn.Date,
		Level: checkIn.EnergyLevel,
	})
	// Keep a bounded window; the engines only look at recent readings.
	if len(adaptive.EnergyLevelHistory) > 30 {
		adaptive.EnergyLevelHistory = adaptive.EnergyLevelHistory[len(adaptive.EnergyLevelHistory)-30:]
	}

	if _, err := s.ucoService.Patch(ctx, checkIn.UserID, &domain.UCOPatch{Adaptive: &adaptive}); err != nil {
		s.log.Warn("failed to update adaptive state",
			"user_id", checkIn.UserID, "error", err)
	}
}

// LogExercise appends one logged performance of an exercise and folds it
// into the current week's aggregate.
func (s *coachingService) LogExercise(ctx context.Context, userID, exerciseSlug string, log *domain.ExerciseSetLog) error {
	if log.Reps <= 0 || log.Sets <= 0 {
		return ErrInvalidCheckIn
	}
	if log.Date.IsZero() {
		log.Date = time.Now().UTC()
	}
	if err := s.logRepo.Append(ctx, userID, exerciseSlug, log); err != nil {
		return err
	}
	s.foldWeeklyAggregate(ctx, userID, log)
	return nil
}

// foldWeeklyAggregate rolls one log into the weekly history the deload
// detector reads. Best effort: the log itself is already stored.
func (s *coachingService) foldWeeklyAggregate(ctx context.Context, userID string, log *domain.ExerciseSetLog) {
	uco, err := s.ucoService.Get(ctx, userID)
	if err != nil {
		s.log.Warn("skipping weekly aggregate", "user_id", userID, "error", err)
		return
	}

	// Bodyweight work has no load; count reps as the volume proxy.
	volume := float64(log.Sets*log.Reps) * log.WeightKg
	if log.WeightKg == 0 {
		volume = float64(log.Sets * log.Reps)
	}

	delta := repository.WeeklyDelta{
		WeekNumber:      uco.Adaptive.WeekNumber + 1,
		PlannedSessions: uco.Lifestyle.WorkoutDaysPerWeek,
		Date:            log.Date,
		EnergyLevel:     log.EnergyLevel,
		Volume:          volume,
	}
	if err := s.logRepo.FoldIntoWeek(ctx, userID, delta); err != nil {
		s.log.Warn("failed to fold weekly aggregate", "user_id", userID, "error", err)
	}
}

// OverloadTargets computes this week's set/rep/load prescription for one
// exercise from its logged history.
func (s *coachingService) OverloadTargets(ctx context.Context, userID, exerciseSlug string, weekNumber int, hasWeights bool) (*progression.OverloadTargets, error) {
	history, err := s.logRepo.GetExerciseHistory(ctx, userID, exerciseSlug, 20)
	if err != nil {
		return nil, err
	}

	targets := progression.Overload(exerciseSlug, weekNumber, *history, hasWeights)
	return &targets, nil
}

// DeloadStatus reports whether the user's next week should be a deload.
// The full weekly history is fetched: the schedule rule counts total weeks,
// so a truncated window would fire it every week past the window size.
func (s *coachingService) DeloadStatus(ctx context.Context, userID string) (*progression.DeloadDecision, error) {
	logs, err := s.logRepo.GetWeeklyLogs(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	decision := progression.ShouldDeload(domain.WorkoutHistory{WeeklyLogs: logs})
	return &decision, nil
}

// WeeklySkeleton builds the split skeleton for the user's current profile.
func (s *coachingService) WeeklySkeleton(ctx context.Context, userID string) (*progression.PlanSkeleton, error) {
	uco, err := s.ucoService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	skeleton := progression.BuildSkeleton(progression.WorkoutProfile{
		FitnessLevel:      uco.Physical.FitnessLevel,
		DaysPerWeek:       uco.Lifestyle.WorkoutDaysPerWeek,
		SessionLengthMins: uco.Lifestyle.SessionLengthMins,
		Goal:              uco.Goals.Primary,
	})
	return &skeleton, nil
}
