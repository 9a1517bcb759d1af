package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/eligibility"
	"github.com/Divyansh-9/Urja/internal/generation"
	"github.com/Divyansh-9/Urja/internal/logger"
	"github.com/Divyansh-9/Urja/internal/metrics"
	"github.com/Divyansh-9/Urja/internal/repository"
	"github.com/Divyansh-9/Urja/internal/safety"
	"github.com/Divyansh-9/Urja/internal/storage"
)

// --- Error Definitions ---
var (
	ErrOnboardingIncomplete = errors.New("complete onboarding first")
	ErrClearanceBlocked     = errors.New("plan generation is blocked pending medical clearance")
	ErrNoEligibleExercises  = errors.New("no exercises satisfy the current constraints")
	ErrNoEligibleFoods      = errors.New("no foods satisfy the current constraints")
	ErrUnknownPlanType      = errors.New("unknown plan type")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrUnknownMessMeal      = errors.New("unknown mess meal category")
)

// PlanResult bundles a generated plan with the safety signals that shaped it.
type PlanResult struct {
	Record         *domain.PlanRecord     `json:"record"`
	SafetyWarnings []domain.SafetyWarning `json:"safetyWarnings"`
	SafetyMessage  string                 `json:"safetyMessage,omitempty"`
}

// PlanService runs the full generation pipeline: safety gate, eligibility
// filtering, target computation, bounded AI generation and persistence.
type PlanService interface {
	Generate(ctx context.Context, userID string, planType domain.PlanType) (*PlanResult, error)
	GetCurrent(ctx context.Context, userID string, planType domain.PlanType) (*domain.PlanRecord, error)
	GetHistory(ctx context.Context, userID string, planType domain.PlanType, limit int) ([]domain.PlanRecord, error)
	ExerciseAlternatives(ctx context.Context, userID, exerciseSlug string, limit int) ([]domain.Exercise, error)
	SearchFoods(ctx context.Context, userID, query string, limit int) ([]domain.Food, error)
	MessMealEstimate(category domain.MessMealCategory, portion domain.PortionSize) (*domain.MacroEstimate, error)
}

type planService struct {
	ucoService   UCOService
	exerciseRepo repository.ExercisePoolRepository
	foodRepo     repository.FoodPoolRepository
	planRepo     repository.PlanRepository
	orchestrator *generation.Orchestrator
	archive      storage.PlanArchive
	modelVersion string
	log          *logger.Logger
	group        singleflight.Group
}

// NewPlanService creates a new instance of planService. archive may be nil
// when no object store is configured; superseded plans are then overwritten
// in place.
func NewPlanService(
	ucoService UCOService,
	exerciseRepo repository.ExercisePoolRepository,
	foodRepo repository.FoodPoolRepository,
	planRepo repository.PlanRepository,
	orchestrator *generation.Orchestrator,
	archive storage.PlanArchive,
	modelVersion string,
	log *logger.Logger,
) PlanService {
	return &planService{
		ucoService:   ucoService,
		exerciseRepo: exerciseRepo,
		foodRepo:     foodRepo,
		planRepo:     planRepo,
		orchestrator: orchestrator,
		archive:      archive,
		modelVersion: modelVersion,
		log:          log.With("service", "plan"),
	}
}

// Generate runs the pipeline for one user and plan type. Concurrent requests
// for the same user and type collapse into a single generation.
func (s *planService) Generate(ctx context.Context, userID string, planType domain.PlanType) (*PlanResult, error) {
	if planType != domain.PlanTypeWorkout && planType != domain.PlanTypeNutrition {
		return nil, ErrUnknownPlanType
	}

	key := userID + ":" + string(planType)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.generate(ctx, userID, planType)
	})
	if err != nil {
		return nil, err
	}
	return result.(*PlanResult), nil
}

func (s *planService) generate(ctx context.Context, userID string, planType domain.PlanType) (*PlanResult, error) {
	uco, err := s.ucoService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !uco.Meta.OnboardingComplete {
		return nil, ErrOnboardingIncomplete
	}

	gate := safety.Evaluate(uco)
	if gate.Clearance == domain.ClearanceBlocked || gate.Clearance == domain.ClearanceMedicalOnly {
		s.log.Warn("generation rejected by safety gate",
			"user_id", userID, "clearance", gate.Clearance)
		return nil, fmt.Errorf("%w: %s", ErrClearanceBlocked, gate.DisplayMessage)
	}

	pc, err := s.buildPlanContext(ctx, uco, &gate, planType)
	if err != nil {
		return nil, err
	}

	record := &domain.PlanRecord{
		UserID:         userID,
		Type:           planType,
		WeekNumber:     pc.Goals.WeekNumber,
		SafetyWarnings: gate.Warnings,
		ModelVersion:   s.modelVersion,
	}

	switch planType {
	case domain.PlanTypeWorkout:
		plan, gerr := s.orchestrator.GenerateWorkoutPlan(ctx, userID, pc)
		if gerr != nil {
			return nil, gerr
		}
		record.Workout = plan
		record.GeneratedAt = plan.GeneratedAt
	case domain.PlanTypeNutrition:
		plan, gerr := s.orchestrator.GenerateNutritionPlan(ctx, userID, pc)
		if gerr != nil {
			return nil, gerr
		}
		s.costNutritionPlan(ctx, uco, plan)
		record.Nutrition = plan
		record.GeneratedAt = plan.GeneratedAt
	}

	s.archivePrevious(ctx, userID, record.WeekNumber, planType)

	if err := s.planRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist plan: %w", err)
	}

	s.log.Info("plan generated",
		"user_id", userID, "type", planType, "week", record.WeekNumber)

	return &PlanResult{
		Record:         record,
		SafetyWarnings: gate.Warnings,
		SafetyMessage:  gate.DisplayMessage,
	}, nil
}

// costNutritionPlan replaces the model's per-item macro and per-day cost
// guesses with figures computed from the food pool's nutrition and price
// data. Best effort; a pool read failure leaves the model's estimates in
// place.
func (s *planService) costNutritionPlan(ctx context.Context, uco *domain.UserContextObject, plan *domain.NutritionPlan) {
	pool, err := s.foodRepo.GetByRegion(ctx, uco.Nutrition.Region)
	if err != nil {
		s.log.Warn("skipping plan costing", "user_id", plan.UserID, "error", err)
		return
	}

	bySlug := make(map[string]domain.Food, len(pool))
	for _, f := range pool {
		bySlug[f.Slug] = f
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		var items []domain.MealItem
		for j := range day.Meals {
			meal := &day.Meals[j]
			for k := range meal.Items {
				item := &meal.Items[k]
				if food, ok := bySlug[item.FoodID]; ok {
					macros := eligibility.FoodMacros(food, item.ServingGrams)
					item.Calories = macros.Calories
					item.Protein = macros.Protein
				}
			}
			items = append(items, meal.Items...)
		}
		est := eligibility.EstimatePlanCost(items, pool, uco.Nutrition.Currency)
		day.EstimatedCost = est.DailyCost
	}
}

// archivePrevious moves a superseded record of the same key into the object
// archive. Archive failures are logged, not fatal: regeneration must not be
// blocked by the archive being down.
func (s *planService) archivePrevious(ctx context.Context, userID string, weekNumber int, planType domain.PlanType) {
	if s.archive == nil {
		return
	}
	prev, err := s.planRepo.GetCurrent(ctx, userID, weekNumber, planType)
	if err != nil {
		return
	}
	if _, err := s.archive.Archive(ctx, prev); err != nil {
		s.log.Warn("failed to archive superseded plan",
			"user_id", userID, "week", weekNumber, "type", planType, "error", err)
	}
}

// buildPlanContext assembles the bounded request envelope: track overrides,
// eligibility filtering and target computation. Empty candidate pools fail
// here, before any generation call is spent.
func (s *planService) buildPlanContext(ctx context.Context, uco *domain.UserContextObject, gate *domain.SafetyGateResult, planType domain.PlanType) (*domain.PlanContext, error) {
	sessionLength := uco.Lifestyle.SessionLengthMins
	daysPerWeek := uco.Lifestyle.WorkoutDaysPerWeek
	isExamWeek := uco.IsExamPeriodAt(time.Now())
	excludedTags := gate.ExcludedExerciseTags()

	switch uco.Adaptive.ActiveTrack {
	case "exam_survival":
		sessionLength = 15
		if daysPerWeek > 3 {
			daysPerWeek = 3
		}
		isExamWeek = true
		excludedTags = append(excludedTags, "high_impact", "jump", "advanced", "plyometric")
	case "90_day_bulk":
		if sessionLength < 60 {
			sessionLength = 60
		}
		if daysPerWeek < 5 {
			daysPerWeek = 5
		}
	}

	weekNumber := uco.Adaptive.WeekNumber + 1

	difficultyMax := 5
	if uco.Adaptive.ActiveTrack == "exam_survival" {
		difficultyMax = 2
	} else if uco.Adaptive.WeekNumber < 4 {
		difficultyMax = 3
	}

	noiseCeiling, spaceCeiling, settingTags := environmentCeilings(uco.Environment)
	excludedTags = append(excludedTags, settingTags...)

	pool, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exercise pool: %w", err)
	}

	constraints := domain.ExerciseConstraints{
		EquipmentAvailable: uco.Environment.EquipmentAvailable,
		ExcludedTags:       excludedTags,
		ExcludedBodyParts:  uco.ActiveInjuryBodyParts(),
		NoiseLevel:         noiseCeiling,
		SpaceRequired:      spaceCeiling,
		DifficultyMin:      1,
		DifficultyMax:      difficultyMax,
	}

	eligibleExercises := eligibility.FilterExercises(pool, constraints)
	if planType == domain.PlanTypeWorkout && len(eligibleExercises) == 0 {
		return nil, ErrNoEligibleExercises
	}

	foods, err := s.foodRepo.GetByRegion(ctx, uco.Nutrition.Region)
	if err != nil {
		return nil, fmt.Errorf("load food pool: %w", err)
	}
	eligibleFoods := eligibility.FilterFoods(foods, uco.Nutrition.Region, uco.Nutrition.DietType, uco.Nutrition.DailyFoodBudget)
	if planType == domain.PlanTypeNutrition && len(eligibleFoods) == 0 {
		return nil, ErrNoEligibleFoods
	}

	caloricTarget := metrics.CaloricTarget(uco.Physical.TDEE, uco.Goals.Primary, uco.Goals.Urgency)
	// A blocked caloric_deficit feature clamps the target up to maintenance.
	if gate.FeatureBlocked("caloric_deficit") && caloricTarget < uco.Physical.TDEE {
		caloricTarget = uco.Physical.TDEE
	}
	macroTargets := metrics.MacroTargets(caloricTarget, uco.Physical.WeightKg, uco.Goals.Primary)

	fitnessLevel := uco.Physical.FitnessLevel
	if fitnessLevel == "" {
		fitnessLevel = domain.FitnessBeginner
		if uco.Adaptive.WeekNumber >= 4 {
			fitnessLevel = domain.FitnessIntermediate
		}
	}

	exerciseIDs := make([]string, len(eligibleExercises))
	for i, ex := range eligibleExercises {
		exerciseIDs[i] = ex.Slug
	}
	foodIDs := make([]string, len(eligibleFoods))
	for i, f := range eligibleFoods {
		foodIDs[i] = f.Slug
	}

	return &domain.PlanContext{
		Goals: domain.PlanGoals{
			Primary:       uco.Goals.Primary,
			CaloricTarget: caloricTarget,
			MacroTargets:  macroTargets,
			WeekNumber:    weekNumber,
		},
		Constraints: domain.PlanConstraints{
			AllowedExerciseIDs: exerciseIDs,
			AllowedFoodIDs:     foodIDs,
			SessionLengthMins:  sessionLength,
			DaysPerWeek:        daysPerWeek,
			EquipmentList:      uco.Environment.EquipmentAvailable,
			DailyFoodBudget:    uco.Nutrition.DailyFoodBudget,
		},
		Persona: domain.PlanPersona{
			FitnessLevel: fitnessLevel,
			FoodRegion:   uco.Nutrition.Region,
			DietType:     uco.Nutrition.DietType,
			HasKitchen:   uco.Environment.HasKitchen,
			HasMess:      uco.Environment.HasMess,
			IsExamWeek:   isExamWeek,
		},
		History: domain.PlanHistory{
			AdherenceRate:  uco.Adaptive.AdherenceRate,
			AvgEnergyLevel: recentAvgEnergy(uco.Adaptive.EnergyLevelHistory),
		},
	}, nil
}

// environmentCeilings derives the noise and space ceilings, plus any
// setting-driven tag exclusions, from where the user trains. Hostel rooms use
// the room-type preset; everywhere else gets the permissive defaults.
func environmentCeilings(env domain.Environment) (domain.NoiseLevel, domain.SpaceRequired, []string) {
	if env.Setting == domain.SettingHostel {
		preset := eligibility.HostelConstraints(env.RoomType)
		return preset.NoiseLevel, preset.SpaceRequired, preset.ExcludedTags
	}
	return domain.NoiseNormal, domain.SpaceMedium, nil
}

// recentAvgEnergy averages the last seven energy readings; 3 (neutral) when
// there is no history yet.
func recentAvgEnergy(history []domain.EnergyLog) float64 {
	if len(history) == 0 {
		return 3
	}
	n := len(history)
	window := history
	if n > 7 {
		window = history[n-7:]
	}
	sum := 0
	for _, e := range window {
		sum += e.Level
	}
	return float64(sum) / float64(len(window))
}

// GetCurrent returns the user's plan for the current week.
func (s *planService) GetCurrent(ctx context.Context, userID string, planType domain.PlanType) (*domain.PlanRecord, error) {
	uco, err := s.ucoService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := s.planRepo.GetCurrent(ctx, userID, uco.Adaptive.WeekNumber+1, planType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Fall back to the latest persisted plan of this type.
			history, herr := s.planRepo.GetHistory(ctx, userID, planType, 1)
			if herr == nil && len(history) > 0 {
				return &history[0], nil
			}
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return record, nil
}

// GetHistory returns past plans of one type, newest week first.
func (s *planService) GetHistory(ctx context.Context, userID string, planType domain.PlanType, limit int) ([]domain.PlanRecord, error) {
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	return s.planRepo.GetHistory(ctx, userID, planType, limit)
}

// ExerciseAlternatives returns eligible substitutes for one exercise, ranked
// by muscle-group overlap.
func (s *planService) ExerciseAlternatives(ctx context.Context, userID, exerciseSlug string, limit int) ([]domain.Exercise, error) {
	uco, err := s.ucoService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	gate := safety.Evaluate(uco)

	noiseCeiling, spaceCeiling, settingTags := environmentCeilings(uco.Environment)

	pool, err := s.exerciseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	constraints := domain.ExerciseConstraints{
		EquipmentAvailable: uco.Environment.EquipmentAvailable,
		ExcludedTags:       append(gate.ExcludedExerciseTags(), settingTags...),
		ExcludedBodyParts:  uco.ActiveInjuryBodyParts(),
		NoiseLevel:         noiseCeiling,
		SpaceRequired:      spaceCeiling,
		DifficultyMin:      1,
		DifficultyMax:      5,
	}

	alternatives := eligibility.Alternatives(exerciseSlug, pool, constraints, limit)
	if alternatives == nil {
		return nil, repository.ErrNotFound
	}
	return alternatives, nil
}

// SearchFoods finds foods by name or local name within the user's region.
func (s *planService) SearchFoods(ctx context.Context, userID, query string, limit int) ([]domain.Food, error) {
	uco, err := s.ucoService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := s.foodRepo.GetByRegion(ctx, uco.Nutrition.Region)
	if err != nil {
		return nil, err
	}
	return eligibility.SearchFoods(pool, query, uco.Nutrition.Region, limit), nil
}

// MessMealEstimate returns the banded macro estimate for one mess/canteen
// dish at a portion size.
func (s *planService) MessMealEstimate(category domain.MessMealCategory, portion domain.PortionSize) (*domain.MacroEstimate, error) {
	est, ok := eligibility.EstimateMessMealMacros(category, portion)
	if !ok {
		return nil, ErrUnknownMessMeal
	}
	return &est, nil
}
