package service

import (
	"context"
	"errors"

	"github.com/Divyansh-9/Urja/internal/cache"
	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/logger"
	"github.com/Divyansh-9/Urja/internal/metrics"
	"github.com/Divyansh-9/Urja/internal/repository"
	"github.com/Divyansh-9/Urja/internal/safety"
)

// --- Error Definitions ---
var (
	ErrUserContextNotFound = errors.New("user context not found")
	ErrUserContextExists   = errors.New("user context already exists")
	ErrVersionConflict     = errors.New("user context was modified concurrently")
	ErrValidationFailed    = errors.New("user context validation failed")
)

// UCOService manages the versioned user context: onboarding, reads and
// partial updates. Every mutation recomputes derived metrics, re-runs the
// safety clearance and invalidates the cache.
type UCOService interface {
	CreateFromOnboarding(ctx context.Context, uco *domain.UserContextObject) (*domain.UserContextObject, error)
	Get(ctx context.Context, userID string) (*domain.UserContextObject, error)
	Patch(ctx context.Context, userID string, patch *domain.UCOPatch) (*domain.UserContextObject, error)
	SetActiveTrack(ctx context.Context, userID, track string) (*domain.UserContextObject, error)
}

// validTracks are the plan tracks a user may switch to.
var validTracks = map[string]bool{
	"":              true,
	"standard":      true,
	"exam_survival": true,
	"rehab":         true,
	"90_day_bulk":   true,
}

type ucoService struct {
	ucoRepo repository.UCORepository
	cache   cache.UCOCache
	log     *logger.Logger
}

// NewUCOService creates a new instance of ucoService.
func NewUCOService(ucoRepo repository.UCORepository, ucoCache cache.UCOCache, log *logger.Logger) UCOService {
	return &ucoService{
		ucoRepo: ucoRepo,
		cache:   ucoCache,
		log:     log.With("service", "uco"),
	}
}

// validate rejects contexts the engines cannot work with.
func validate(uco *domain.UserContextObject) error {
	if uco.Meta.UserID == "" {
		return ErrValidationFailed
	}
	if uco.Physical.Age < 16 || uco.Physical.Age > 100 {
		return ErrValidationFailed
	}
	if uco.Physical.HeightCm <= 0 || uco.Physical.WeightKg <= 0 {
		return ErrValidationFailed
	}
	return nil
}

// recompute refreshes every derived field from the raw profile data.
func recompute(uco *domain.UserContextObject) {
	derived := metrics.Compute(uco.Physical, uco.Lifestyle, uco.Environment.Setting)
	uco.Physical.BMI = derived.BMI
	uco.Physical.BMR = derived.BMR
	uco.Physical.TDEE = derived.TDEE

	gate := safety.Evaluate(uco)
	uco.Health.SafetyClearance = gate.Clearance
	uco.Health.GPReferralFlag = gate.GPReferralSuggested
}

// CreateFromOnboarding stores a fresh context once onboarding completes.
func (s *ucoService) CreateFromOnboarding(ctx context.Context, uco *domain.UserContextObject) (*domain.UserContextObject, error) {
	if err := validate(uco); err != nil {
		return nil, err
	}

	if _, err := s.ucoRepo.GetByUserID(ctx, uco.Meta.UserID); err == nil {
		return nil, ErrUserContextExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	recompute(uco)
	uco.Meta.OnboardingComplete = true
	if uco.Physical.FitnessLevel == "" {
		uco.Physical.FitnessLevel = domain.FitnessBeginner
	}

	if err := s.ucoRepo.Create(ctx, uco); err != nil {
		return nil, err
	}

	s.log.Info("user context created", "user_id", uco.Meta.UserID, "clearance", uco.Health.SafetyClearance)
	return uco, nil
}

// Get returns the user context, serving from cache when possible.
func (s *ucoService) Get(ctx context.Context, userID string) (*domain.UserContextObject, error) {
	if cached, err := s.cache.Get(ctx, userID); err == nil {
		return cached, nil
	}

	uco, err := s.ucoRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserContextNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, uco); err != nil {
		s.log.Warn("failed to cache user context", "user_id", userID, "error", err)
	}
	return uco, nil
}

// Patch applies a partial update, bumps the version, recomputes derived
// fields and invalidates the cache. Concurrent writers lose with
// ErrVersionConflict and should re-read and retry.
func (s *ucoService) Patch(ctx context.Context, userID string, patch *domain.UCOPatch) (*domain.UserContextObject, error) {
	uco, err := s.ucoRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserContextNotFound
		}
		return nil, err
	}

	expectedVersion := uco.Meta.Version
	applyPatch(uco, patch)
	if err := validate(uco); err != nil {
		return nil, err
	}
	recompute(uco)

	if err := s.ucoRepo.Update(ctx, uco, expectedVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}

	// Write-then-invalidate: the next read repopulates the cache from the
	// authoritative store.
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate cached context", "user_id", userID, "error", err)
	}

	s.log.Debug("user context patched", "user_id", userID, "version", uco.Meta.Version)
	return uco, nil
}

// SetActiveTrack switches the user's plan track (e.g. exam_survival during
// exams). Takes effect on the next plan generation.
func (s *ucoService) SetActiveTrack(ctx context.Context, userID, track string) (*domain.UserContextObject, error) {
	if !validTracks[track] {
		return nil, ErrValidationFailed
	}

	uco, err := s.ucoRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserContextNotFound
		}
		return nil, err
	}

	expectedVersion := uco.Meta.Version
	uco.Adaptive.ActiveTrack = track
	recompute(uco)

	if err := s.ucoRepo.Update(ctx, uco, expectedVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate cached context", "user_id", userID, "error", err)
	}

	s.log.Info("active track changed", "user_id", userID, "track", track)
	return uco, nil
}

func applyPatch(uco *domain.UserContextObject, patch *domain.UCOPatch) {
	if patch == nil {
		return
	}
	if patch.Physical != nil {
		uco.Physical = *patch.Physical
	}
	if patch.Goals != nil {
		uco.Goals = *patch.Goals
	}
	if patch.Health != nil {
		uco.Health = *patch.Health
	}
	if patch.Lifestyle != nil {
		uco.Lifestyle = *patch.Lifestyle
	}
	if patch.Environment != nil {
		uco.Environment = *patch.Environment
	}
	if patch.Nutrition != nil {
		uco.Nutrition = *patch.Nutrition
	}
	if patch.Adaptive != nil {
		uco.Adaptive = *patch.Adaptive
	}
	if patch.Privacy != nil {
		uco.Privacy = *patch.Privacy
	}
}
