package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyansh-9/Urja/internal/cache"
	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/generation"
	"github.com/Divyansh-9/Urja/internal/logger"
	"github.com/Divyansh-9/Urja/internal/metrics"
	"github.com/Divyansh-9/Urja/internal/repository"
)

// --- In-memory fakes ---

type fakeUCORepo struct {
	mu   sync.Mutex
	docs map[string]*domain.UserContextObject
}

func newFakeUCORepo() *fakeUCORepo {
	return &fakeUCORepo{docs: make(map[string]*domain.UserContextObject)}
}

func (r *fakeUCORepo) Create(_ context.Context, uco *domain.UserContextObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	uco.Meta.Version = 1
	cp := *uco
	r.docs[uco.Meta.UserID] = &cp
	return nil
}

func (r *fakeUCORepo) GetByUserID(_ context.Context, userID string) (*domain.UserContextObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeUCORepo) Update(_ context.Context, uco *domain.UserContextObject, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[uco.Meta.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	if doc.Meta.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	uco.Meta.Version = expectedVersion + 1
	cp := *uco
	r.docs[uco.Meta.UserID] = &cp
	return nil
}

type fakeExercisePool struct {
	exercises []domain.Exercise
}

func (r *fakeExercisePool) GetAll(_ context.Context) ([]domain.Exercise, error) {
	return r.exercises, nil
}

func (r *fakeExercisePool) GetBySlug(_ context.Context, slug string) (*domain.Exercise, error) {
	for _, ex := range r.exercises {
		if ex.Slug == slug {
			return &ex, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExercisePool) Upsert(_ context.Context, ex *domain.Exercise) error {
	r.exercises = append(r.exercises, *ex)
	return nil
}

type fakeFoodPool struct {
	foods []domain.Food
}

func (r *fakeFoodPool) GetAll(_ context.Context) ([]domain.Food, error) { return r.foods, nil }

func (r *fakeFoodPool) GetByRegion(_ context.Context, region domain.FoodRegion) ([]domain.Food, error) {
	var out []domain.Food
	for _, f := range r.foods {
		if f.RegionCode == region || f.RegionCode == domain.RegionGlobal {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFoodPool) Upsert(_ context.Context, f *domain.Food) error {
	r.foods = append(r.foods, *f)
	return nil
}

type planKey struct {
	userID string
	week   int
	typ    domain.PlanType
}

type fakePlanRepo struct {
	mu   sync.Mutex
	docs map[planKey]*domain.PlanRecord
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{docs: make(map[planKey]*domain.PlanRecord)}
}

func (r *fakePlanRepo) Save(_ context.Context, record *domain.PlanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[planKey{record.UserID, record.WeekNumber, record.Type}] = record
	return nil
}

func (r *fakePlanRepo) GetCurrent(_ context.Context, userID string, week int, typ domain.PlanType) (*domain.PlanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.docs[planKey{userID, week, typ}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (r *fakePlanRepo) GetHistory(_ context.Context, userID string, typ domain.PlanType, limit int) ([]domain.PlanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PlanRecord
	for k, rec := range r.docs {
		if k.userID == userID && k.typ == typ {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type fakeCheckInRepo struct {
	mu   sync.Mutex
	docs []domain.CheckIn
}

func (r *fakeCheckInRepo) Create(_ context.Context, c *domain.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, *c)
	return nil
}

func (r *fakeCheckInRepo) GetRecent(_ context.Context, userID string, limit int) ([]domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CheckIn
	for i := len(r.docs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.docs[i].UserID == userID {
			out = append(out, r.docs[i])
		}
	}
	return out, nil
}

func (r *fakeCheckInRepo) GetSince(_ context.Context, userID string, since time.Time) ([]domain.CheckIn, error) {
	var out []domain.CheckIn
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].UserID == userID && !r.docs[i].Date.Before(since) {
			out = append(out, r.docs[i])
		}
	}
	return out, nil
}

type fakeWorkoutLogRepo struct {
	histories   map[string][]domain.ExerciseSetLog
	weekly      []domain.WeeklyLog
	sessionDays map[int]map[string]struct{}
	energySum   map[int]float64
	energyCount map[int]int
}

func (r *fakeWorkoutLogRepo) Append(_ context.Context, userID, slug string, log *domain.ExerciseSetLog) error {
	if r.histories == nil {
		r.histories = make(map[string][]domain.ExerciseSetLog)
	}
	r.histories[slug] = append(r.histories[slug], *log)
	return nil
}

func (r *fakeWorkoutLogRepo) GetExerciseHistory(_ context.Context, _, slug string, _ int) (*domain.ExerciseHistory, error) {
	return &domain.ExerciseHistory{ExerciseID: slug, Logs: r.histories[slug]}, nil
}

func (r *fakeWorkoutLogRepo) FoldIntoWeek(_ context.Context, _ string, delta repository.WeeklyDelta) error {
	if r.sessionDays == nil {
		r.sessionDays = make(map[int]map[string]struct{})
		r.energySum = make(map[int]float64)
		r.energyCount = make(map[int]int)
	}

	idx := -1
	for i := range r.weekly {
		if r.weekly[i].WeekNumber == delta.WeekNumber {
			idx = i
		}
	}
	if idx < 0 {
		r.weekly = append(r.weekly, domain.WeeklyLog{WeekNumber: delta.WeekNumber})
		idx = len(r.weekly) - 1
		r.sessionDays[delta.WeekNumber] = make(map[string]struct{})
	}

	day := delta.Date.UTC().Format("2006-01-02")
	r.sessionDays[delta.WeekNumber][day] = struct{}{}
	r.energySum[delta.WeekNumber] += float64(delta.EnergyLevel)
	r.energyCount[delta.WeekNumber]++

	w := &r.weekly[idx]
	w.PlannedSessions = delta.PlannedSessions
	w.CompletedSessions = len(r.sessionDays[delta.WeekNumber])
	w.AvgEnergyLevel = r.energySum[delta.WeekNumber] / float64(r.energyCount[delta.WeekNumber])
	w.TotalVolume += delta.Volume
	return nil
}

func (r *fakeWorkoutLogRepo) GetWeeklyLogs(_ context.Context, _ string, weeks int) ([]domain.WeeklyLog, error) {
	logs := r.weekly
	if weeks > 0 && len(logs) > weeks {
		logs = logs[len(logs)-weeks:]
	}
	return logs, nil
}

// scriptedGenerator returns canned responses in call order.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, _, _ string, _ int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.calls
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	g.calls++
	return g.responses[idx], nil
}

// --- Fixtures ---

func testUCO(userID string) *domain.UserContextObject {
	return &domain.UserContextObject{
		Meta: domain.UCOMeta{UserID: userID, OnboardingComplete: true},
		Physical: domain.Physical{
			Age: 20, Sex: domain.SexMale, HeightCm: 175, WeightKg: 70,
			FitnessLevel: domain.FitnessBeginner,
		},
		Goals: domain.Goals{Primary: domain.GoalBuildMuscle, Urgency: domain.UrgencyModerate},
		Lifestyle: domain.Lifestyle{
			SleepHours: 7, StressLevel: 2, CommuteMins: 20,
			WorkoutDaysPerWeek: 3, SessionLengthMins: 45,
		},
		Environment: domain.Environment{
			Setting:            domain.SettingHostel,
			EquipmentAvailable: []domain.Equipment{domain.EquipmentNone, domain.EquipmentResistanceBands},
		},
		Nutrition: domain.Nutrition{
			Region: domain.RegionNorthIndia, DietType: domain.DietVegetarian,
			DailyFoodBudget: 200, Currency: "INR",
		},
	}
}

func testExercisePool() []domain.Exercise {
	return []domain.Exercise{
		{Slug: "pushup", Name: "Push-up", MuscleGroups: []string{"chest", "triceps"},
			EquipmentRequired: []domain.Equipment{domain.EquipmentNone}, Difficulty: 2,
			NoiseLevel: domain.NoiseSilent, SpaceRequired: domain.SpaceMinimal},
		{Slug: "band_row", Name: "Band Row", MuscleGroups: []string{"back"},
			EquipmentRequired: []domain.Equipment{domain.EquipmentResistanceBands}, Difficulty: 2,
			NoiseLevel: domain.NoiseSilent, SpaceRequired: domain.SpaceMinimal},
	}
}

func testFoodPool() []domain.Food {
	return []domain.Food{
		{Slug: "dal", Name: "Dal", RegionCode: domain.RegionNorthIndia,
			CaloriesPer100: 116, ProteinG: 9, PriceEstimate: 10, Tags: []string{"vegetarian"}},
		{Slug: "paneer", Name: "Paneer", RegionCode: domain.RegionGlobal,
			CaloriesPer100: 265, ProteinG: 18, PriceEstimate: 40, Tags: []string{"vegetarian", "dairy"}},
	}
}

func validWorkoutResponse(exerciseID string) string {
	plan := domain.WorkoutPlan{
		Days: []domain.WorkoutDay{{
			DayName: "Monday", SessionType: domain.SessionStrength, DurationMins: 40,
			Exercises: []domain.ExerciseInPlan{{ExerciseID: exerciseID, Sets: 3, RepsMin: 8, RepsMax: 12, RestSeconds: 60}},
		}},
	}
	b, _ := json.Marshal(plan)
	return string(b)
}

func newTestServices(t *testing.T, gen generation.Generator) (UCOService, PlanService, *fakeUCORepo, *fakePlanRepo) {
	t.Helper()
	log := logger.NewNop()
	ucoRepo := newFakeUCORepo()
	ucoCache := cache.NewMemoryCache(time.Minute)
	ucoSvc := NewUCOService(ucoRepo, ucoCache, log)

	planRepo := newFakePlanRepo()
	orch := generation.NewOrchestrator(gen)
	planSvc := NewPlanService(ucoSvc,
		&fakeExercisePool{exercises: testExercisePool()},
		&fakeFoodPool{foods: testFoodPool()},
		planRepo, orch, nil, "gemini-2.5-flash", log)

	return ucoSvc, planSvc, ucoRepo, planRepo
}

// --- UCO service ---

func TestCreateFromOnboardingComputesDerived(t *testing.T) {
	ucoSvc, _, _, _ := newTestServices(t, &scriptedGenerator{responses: []string{"{}"}})

	created, err := ucoSvc.CreateFromOnboarding(context.Background(), testUCO("u1"))
	require.NoError(t, err)

	assert.InDelta(t, 22.9, created.Physical.BMI, 0.01)
	assert.NotZero(t, created.Physical.BMR)
	assert.Greater(t, created.Physical.TDEE, created.Physical.BMR)
	assert.Equal(t, domain.ClearanceFull, created.Health.SafetyClearance)
	assert.True(t, created.Meta.OnboardingComplete)
}

func TestCreateFromOnboardingRejectsDuplicate(t *testing.T) {
	ucoSvc, _, _, _ := newTestServices(t, &scriptedGenerator{responses: []string{"{}"}})
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	_, err = ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	assert.ErrorIs(t, err, ErrUserContextExists)
}

func TestCreateFromOnboardingValidates(t *testing.T) {
	ucoSvc, _, _, _ := newTestServices(t, &scriptedGenerator{responses: []string{"{}"}})

	bad := testUCO("u1")
	bad.Physical.Age = 12
	_, err := ucoSvc.CreateFromOnboarding(context.Background(), bad)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestPatchBumpsVersionAndRecomputes(t *testing.T) {
	ucoSvc, _, _, _ := newTestServices(t, &scriptedGenerator{responses: []string{"{}"}})
	ctx := context.Background()

	created, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)
	oldTDEE := created.Physical.TDEE

	physical := created.Physical
	physical.WeightKg = 80
	patched, err := ucoSvc.Patch(ctx, "u1", &domain.UCOPatch{Physical: &physical})
	require.NoError(t, err)

	assert.Equal(t, 2, patched.Meta.Version)
	assert.NotEqual(t, oldTDEE, patched.Physical.TDEE)

	// The next read reflects the write, not a stale cache entry.
	got, err := ucoSvc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Physical.WeightKg)
}

func TestPatchVersionConflict(t *testing.T) {
	ucoSvc, _, ucoRepo, _ := newTestServices(t, &scriptedGenerator{responses: []string{"{}"}})
	ctx := context.Background()

	created, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	// Simulate a concurrent writer bumping the stored version.
	ucoRepo.mu.Lock()
	ucoRepo.docs["u1"].Meta.Version = created.Meta.Version + 1
	ucoRepo.mu.Unlock()

	physical := created.Physical
	physical.WeightKg = 90
	_, err = ucoSvc.Patch(ctx, "u1", &domain.UCOPatch{Physical: &physical})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSetActiveTrackValidation(t *testing.T) {
	ucoSvc, _, _, _ := newTestServices(t, &scriptedGenerator{responses: []string{"{}"}})
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	_, err = ucoSvc.SetActiveTrack(ctx, "u1", "marathon_prep")
	assert.ErrorIs(t, err, ErrValidationFailed)

	updated, err := ucoSvc.SetActiveTrack(ctx, "u1", "exam_survival")
	require.NoError(t, err)
	assert.Equal(t, "exam_survival", updated.Adaptive.ActiveTrack)
}

// --- Plan service ---

func TestGenerateWorkoutPipeline(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validWorkoutResponse("pushup")}}
	ucoSvc, planSvc, _, planRepo := newTestServices(t, gen)
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	result, err := planSvc.Generate(ctx, "u1", domain.PlanTypeWorkout)
	require.NoError(t, err)
	require.NotNil(t, result.Record.Workout)
	assert.Equal(t, "u1", result.Record.Workout.UserID)
	assert.Equal(t, 1, result.Record.WeekNumber)
	assert.Equal(t, "gemini-2.5-flash", result.Record.ModelVersion)

	// Persisted under (user, week, type).
	saved, err := planRepo.GetCurrent(ctx, "u1", 1, domain.PlanTypeWorkout)
	require.NoError(t, err)
	assert.Equal(t, result.Record.Workout.ID, saved.Workout.ID)

	current, err := planSvc.GetCurrent(ctx, "u1", domain.PlanTypeWorkout)
	require.NoError(t, err)
	assert.Equal(t, saved.Workout.ID, current.Workout.ID)
}

func validNutritionResponse(target int) string {
	plan := domain.NutritionPlan{
		Days: []domain.NutritionDay{{
			Day: 1,
			Meals: []domain.Meal{{
				MealType: domain.MealLunch,
				Items: []domain.MealItem{
					{FoodID: "dal", ServingGrams: 200, Calories: 232, Protein: 18},
					{FoodID: "paneer", ServingGrams: 100, Calories: 265, Protein: 18},
				},
				TotalCalories: 497,
			}},
			DailyTotals:   domain.MacroData{Calories: float64(target)},
			EstimatedCost: 999,
		}},
	}
	b, _ := json.Marshal(plan)
	return string(b)
}

func TestGenerateNutritionPipelineRecostsDays(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"{}"}}
	ucoSvc, planSvc, _, planRepo := newTestServices(t, gen)
	ctx := context.Background()

	created, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	target := metrics.CaloricTarget(created.Physical.TDEE, created.Goals.Primary, created.Goals.Urgency)
	gen.responses = []string{validNutritionResponse(target)}

	result, err := planSvc.Generate(ctx, "u1", domain.PlanTypeNutrition)
	require.NoError(t, err)
	require.NotNil(t, result.Record.Nutrition)
	assert.Equal(t, 1, result.Record.Nutrition.WeekNumber)

	// Per-day cost and per-item macros come from pool data, not the model's
	// guesses: dal 200g at 10/100g plus paneer 100g at 40/100g.
	require.Len(t, result.Record.Nutrition.Days, 1)
	day := result.Record.Nutrition.Days[0]
	assert.Equal(t, float64(60), day.EstimatedCost)
	require.Len(t, day.Meals, 1)
	assert.Equal(t, float64(232), day.Meals[0].Items[0].Calories)
	assert.Equal(t, float64(18), day.Meals[0].Items[0].Protein)

	saved, err := planRepo.GetCurrent(ctx, "u1", 1, domain.PlanTypeNutrition)
	require.NoError(t, err)
	assert.Equal(t, result.Record.Nutrition.ID, saved.Nutrition.ID)
}

func TestGenerateRejectsBlockedClearance(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validWorkoutResponse("pushup")}}
	ucoSvc, planSvc, _, _ := newTestServices(t, gen)
	ctx := context.Background()

	uco := testUCO("u1")
	uco.Health.EatingDisorderRisk = true
	uco.Goals.Primary = domain.GoalLoseFat
	_, err := ucoSvc.CreateFromOnboarding(ctx, uco)
	require.NoError(t, err)

	// ED risk escalates to modified, not blocked; generation proceeds but
	// the caloric target is clamped to maintenance.
	result, err := planSvc.Generate(ctx, "u1", domain.PlanTypeWorkout)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SafetyWarnings)
}

func TestGenerateRequiresOnboarding(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validWorkoutResponse("pushup")}}
	ucoSvc, planSvc, ucoRepo, _ := newTestServices(t, gen)
	ctx := context.Background()

	uco := testUCO("u1")
	_, err := ucoSvc.CreateFromOnboarding(ctx, uco)
	require.NoError(t, err)
	ucoRepo.mu.Lock()
	ucoRepo.docs["u1"].Meta.OnboardingComplete = false
	ucoRepo.mu.Unlock()

	_, err = planSvc.Generate(ctx, "u1", domain.PlanTypeWorkout)
	assert.ErrorIs(t, err, ErrOnboardingIncomplete)
}

func TestGenerateFailsOnEmptyEligibleSet(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validWorkoutResponse("pushup")}}
	log := logger.NewNop()
	ucoRepo := newFakeUCORepo()
	ucoSvc := NewUCOService(ucoRepo, cache.NewMemoryCache(time.Minute), log)
	orch := generation.NewOrchestrator(gen)
	planSvc := NewPlanService(ucoSvc,
		&fakeExercisePool{}, // empty pool
		&fakeFoodPool{foods: testFoodPool()},
		newFakePlanRepo(), orch, nil, "m", log)
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	_, err = planSvc.Generate(ctx, "u1", domain.PlanTypeWorkout)
	assert.ErrorIs(t, err, ErrNoEligibleExercises)
	assert.Zero(t, gen.calls, "no model call should be spent on an empty pool")
}

func TestGenerateUnknownPlanType(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"{}"}}
	_, planSvc, _, _ := newTestServices(t, gen)

	_, err := planSvc.Generate(context.Background(), "u1", domain.PlanType("combined"))
	assert.ErrorIs(t, err, ErrUnknownPlanType)
}

func TestExerciseAlternativesRanked(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"{}"}}
	ucoSvc, planSvc, _, _ := newTestServices(t, gen)
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	alts, err := planSvc.ExerciseAlternatives(ctx, "u1", "pushup", 5)
	require.NoError(t, err)
	for _, alt := range alts {
		assert.NotEqual(t, "pushup", alt.Slug)
	}
}

// --- Coaching service ---

func TestSubmitCheckInFiresTriggers(t *testing.T) {
	log := logger.NewNop()
	ucoRepo := newFakeUCORepo()
	ucoSvc := NewUCOService(ucoRepo, cache.NewMemoryCache(time.Minute), log)
	checkIns := &fakeCheckInRepo{}
	coaching := NewCoachingService(ucoSvc, checkIns, &fakeWorkoutLogRepo{}, log)
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	// Two low-energy days on record, third submitted now.
	for i := 0; i < 2; i++ {
		_, err := coaching.SubmitCheckIn(ctx, &domain.CheckIn{
			UserID: "u1", Date: day.AddDate(0, 0, i),
			EnergyLevel: 2, SleepHours: 7, StressLevel: 2,
		})
		require.NoError(t, err)
	}

	result, err := coaching.SubmitCheckIn(ctx, &domain.CheckIn{
		UserID: "u1", Date: day.AddDate(0, 0, 2),
		EnergyLevel: 2, SleepHours: 7, StressLevel: 2,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Triggers)
	assert.Equal(t, domain.TriggerDeload, result.Triggers[0].Type)

	// Energy history folded into the adaptive state.
	uco, err := ucoSvc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, uco.Adaptive.EnergyLevelHistory, 3)
	assert.Equal(t, day.AddDate(0, 0, 2), uco.Adaptive.LastCheckIn)
}

func TestSubmitCheckInValidatesRanges(t *testing.T) {
	log := logger.NewNop()
	ucoSvc := NewUCOService(newFakeUCORepo(), cache.NewMemoryCache(time.Minute), log)
	coaching := NewCoachingService(ucoSvc, &fakeCheckInRepo{}, &fakeWorkoutLogRepo{}, log)

	_, err := coaching.SubmitCheckIn(context.Background(), &domain.CheckIn{
		UserID: "u1", EnergyLevel: 9, SleepHours: 7, StressLevel: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidCheckIn)
}

func TestOverloadTargetsFromHistory(t *testing.T) {
	log := logger.NewNop()
	ucoSvc := NewUCOService(newFakeUCORepo(), cache.NewMemoryCache(time.Minute), log)
	logs := &fakeWorkoutLogRepo{}
	coaching := NewCoachingService(ucoSvc, &fakeCheckInRepo{}, logs, log)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, coaching.LogExercise(ctx, "u1", "goblet_squat", &domain.ExerciseSetLog{
			Date: time.Now(), Sets: 3, Reps: 12, WeightKg: 40, EnergyLevel: 4,
		}))
	}

	targets, err := coaching.OverloadTargets(ctx, "u1", "goblet_squat", 4, true)
	require.NoError(t, err)
	assert.Equal(t, 42.5, targets.WeightKg)
}

func healthyWeeks(n int) []domain.WeeklyLog {
	weeks := make([]domain.WeeklyLog, n)
	for i := range weeks {
		weeks[i] = domain.WeeklyLog{
			WeekNumber: i + 1, CompletedSessions: 3, PlannedSessions: 3, AvgEnergyLevel: 4,
		}
	}
	return weeks
}

func TestDeloadStatusScheduledWeeks(t *testing.T) {
	// The schedule rule counts total weeks, so it must stay quiet between
	// multiples of 4 no matter how much history has accumulated.
	cases := []struct {
		weeks  int
		deload bool
	}{
		{4, true},
		{5, false},
		{6, false},
		{7, false},
		{8, true},
	}

	for _, tc := range cases {
		log := logger.NewNop()
		ucoSvc := NewUCOService(newFakeUCORepo(), cache.NewMemoryCache(time.Minute), log)
		logs := &fakeWorkoutLogRepo{weekly: healthyWeeks(tc.weeks)}
		coaching := NewCoachingService(ucoSvc, &fakeCheckInRepo{}, logs, log)

		decision, err := coaching.DeloadStatus(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equalf(t, tc.deload, decision.Deload,
			"week %d: deload=%v reason=%q", tc.weeks, decision.Deload, decision.Reason)
	}
}

func TestLogExerciseFoldsWeeklyAggregate(t *testing.T) {
	log := logger.NewNop()
	ucoSvc := NewUCOService(newFakeUCORepo(), cache.NewMemoryCache(time.Minute), log)
	logs := &fakeWorkoutLogRepo{}
	coaching := NewCoachingService(ucoSvc, &fakeCheckInRepo{}, logs, log)
	ctx := context.Background()

	_, err := ucoSvc.CreateFromOnboarding(ctx, testUCO("u1"))
	require.NoError(t, err)

	monday := time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC)
	require.NoError(t, coaching.LogExercise(ctx, "u1", "goblet_squat", &domain.ExerciseSetLog{
		Date: monday, Sets: 3, Reps: 10, WeightKg: 20, EnergyLevel: 4,
	}))
	require.NoError(t, coaching.LogExercise(ctx, "u1", "pushup", &domain.ExerciseSetLog{
		Date: monday, Sets: 3, Reps: 15, EnergyLevel: 4,
	}))
	require.NoError(t, coaching.LogExercise(ctx, "u1", "band_row", &domain.ExerciseSetLog{
		Date: monday.AddDate(0, 0, 2), Sets: 3, Reps: 12, EnergyLevel: 2,
	}))

	weekly, err := logs.GetWeeklyLogs(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, weekly, 1)

	week := weekly[0]
	assert.Equal(t, 1, week.WeekNumber)
	assert.Equal(t, 2, week.CompletedSessions, "two distinct training days")
	assert.Equal(t, 3, week.PlannedSessions)
	assert.InDelta(t, 10.0/3.0, week.AvgEnergyLevel, 0.001)
	// 3x10 at 20kg plus rep-count volume for the two bodyweight logs.
	assert.Equal(t, 600.0+45+36, week.TotalVolume)
}
