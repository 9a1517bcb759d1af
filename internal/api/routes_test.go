package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/eligibility"
	"github.com/Divyansh-9/Urja/internal/progression"
	"github.com/Divyansh-9/Urja/internal/service"
)

const testSecret = "test-secret"

// --- Stub services ---

type stubUCOService struct {
	uco *domain.UserContextObject
	err error
}

func (s *stubUCOService) CreateFromOnboarding(_ context.Context, uco *domain.UserContextObject) (*domain.UserContextObject, error) {
	if s.err != nil {
		return nil, s.err
	}
	return uco, nil
}

func (s *stubUCOService) Get(_ context.Context, _ string) (*domain.UserContextObject, error) {
	return s.uco, s.err
}

func (s *stubUCOService) Patch(_ context.Context, _ string, _ *domain.UCOPatch) (*domain.UserContextObject, error) {
	return s.uco, s.err
}

func (s *stubUCOService) SetActiveTrack(_ context.Context, _, track string) (*domain.UserContextObject, error) {
	if s.err != nil {
		return nil, s.err
	}
	uco := *s.uco
	uco.Adaptive.ActiveTrack = track
	return &uco, nil
}

type stubPlanService struct {
	result *service.PlanResult
	err    error
	gotUID string
}

func (s *stubPlanService) Generate(_ context.Context, userID string, _ domain.PlanType) (*service.PlanResult, error) {
	s.gotUID = userID
	return s.result, s.err
}

func (s *stubPlanService) GetCurrent(_ context.Context, _ string, _ domain.PlanType) (*domain.PlanRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result.Record, nil
}

func (s *stubPlanService) GetHistory(_ context.Context, _ string, _ domain.PlanType, _ int) ([]domain.PlanRecord, error) {
	return nil, s.err
}

func (s *stubPlanService) ExerciseAlternatives(_ context.Context, _, _ string, _ int) ([]domain.Exercise, error) {
	return nil, s.err
}

func (s *stubPlanService) SearchFoods(_ context.Context, _, _ string, _ int) ([]domain.Food, error) {
	return nil, s.err
}

func (s *stubPlanService) MessMealEstimate(category domain.MessMealCategory, portion domain.PortionSize) (*domain.MacroEstimate, error) {
	est, ok := eligibility.EstimateMessMealMacros(category, portion)
	if !ok {
		return nil, service.ErrUnknownMessMeal
	}
	return &est, nil
}

type stubCoachingService struct{}

func (s *stubCoachingService) SubmitCheckIn(_ context.Context, c *domain.CheckIn) (*service.CheckInResult, error) {
	return &service.CheckInResult{CheckIn: c}, nil
}

func (s *stubCoachingService) LogExercise(_ context.Context, _, _ string, _ *domain.ExerciseSetLog) error {
	return nil
}

func (s *stubCoachingService) OverloadTargets(_ context.Context, _, slug string, week int, _ bool) (*progression.OverloadTargets, error) {
	return &progression.OverloadTargets{ExerciseID: slug, WeekNumber: week}, nil
}

func (s *stubCoachingService) DeloadStatus(_ context.Context, _ string) (*progression.DeloadDecision, error) {
	return &progression.DeloadDecision{}, nil
}

func (s *stubCoachingService) WeeklySkeleton(_ context.Context, _ string) (*progression.PlanSkeleton, error) {
	return &progression.PlanSkeleton{DaysPerWeek: 3}, nil
}

func newTestRouter(planSvc service.PlanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testSecret,
		&stubUCOService{uco: &domain.UserContextObject{}},
		planSvc,
		&stubCoachingService{})
	return router
}

func mintToken(t *testing.T, userID string, expiry time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// --- Tests ---

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/context", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is missing")
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/context", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/context", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", -time.Minute))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestPingIsPublic(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestGeneratePlanPassesUserFromToken(t *testing.T) {
	planSvc := &stubPlanService{result: &service.PlanResult{Record: &domain.PlanRecord{UserID: "u1"}}}
	router := newTestRouter(planSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/generate",
		strings.NewReader(`{"planType":"workout"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", planSvc.gotUID)
}

func TestGeneratePlanMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown type", service.ErrUnknownPlanType, http.StatusBadRequest},
		{"no onboarding", service.ErrOnboardingIncomplete, http.StatusPreconditionFailed},
		{"blocked", service.ErrClearanceBlocked, http.StatusForbidden},
		{"no exercises", service.ErrNoEligibleExercises, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubPlanService{err: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/generate",
				strings.NewReader(`{"planType":"workout"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", time.Hour))
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestMessMealEstimateEndpoint(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/mess/dal_roti?portion=large", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uncertaintyPercent":15`)
	// Large portion scales the 350 kcal average by 1.3.
	assert.Contains(t, w.Body.String(), `"calories":455`)
}

func TestMessMealEstimateUnknownCategory(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/mess/pizza", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitCheckInValidatesBody(t *testing.T) {
	router := newTestRouter(&stubPlanService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coaching/checkins",
		strings.NewReader(`{"energyLevel":9,"sleepHours":7,"stressLevel":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
