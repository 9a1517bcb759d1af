package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/generation"
	"github.com/Divyansh-9/Urja/internal/service"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// GeneratePlanRequest selects which plan kind to generate.
type GeneratePlanRequest struct {
	PlanType domain.PlanType `json:"planType" binding:"required"`
}

// --- Handler Methods ---

// GeneratePlan handles POST /api/v1/plans/generate.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.planService.Generate(c.Request.Context(), userID, req.PlanType)
	if err != nil {
		var exhausted *generation.ExhaustedError
		switch {
		case errors.Is(err, service.ErrUnknownPlanType):
			abortWithError(c, http.StatusBadRequest, "planType must be workout or nutrition")
		case errors.Is(err, service.ErrUserContextNotFound),
			errors.Is(err, service.ErrOnboardingIncomplete):
			abortWithError(c, http.StatusPreconditionFailed, "Complete onboarding first")
		case errors.Is(err, service.ErrClearanceBlocked):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrNoEligibleExercises),
			errors.Is(err, service.ErrNoEligibleFoods):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &exhausted):
			abortWithError(c, http.StatusBadGateway, "Plan generation failed, please retry later")
		default:
			abortWithError(c, http.StatusInternalServerError, "Plan generation failed")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrentPlan handles GET /api/v1/plans/current?type=workout.
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	planType := domain.PlanType(c.DefaultQuery("type", string(domain.PlanTypeWorkout)))

	record, err := h.planService.GetCurrent(c.Request.Context(), userID, planType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "No plan generated yet")
		case errors.Is(err, service.ErrUserContextNotFound):
			abortWithError(c, http.StatusPreconditionFailed, "Complete onboarding first")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to load plan")
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetPlanHistory handles GET /api/v1/plans/history?type=workout&limit=10.
func (h *PlanHandler) GetPlanHistory(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	planType := domain.PlanType(c.DefaultQuery("type", string(domain.PlanTypeWorkout)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	records, err := h.planService.GetHistory(c.Request.Context(), userID, planType, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load plan history")
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetExerciseAlternatives handles GET /api/v1/plans/exercises/:slug/alternatives.
func (h *PlanHandler) GetExerciseAlternatives(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	slug := c.Param("slug")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	alternatives, err := h.planService.ExerciseAlternatives(c.Request.Context(), userID, slug, limit)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Unknown exercise")
		return
	}

	c.JSON(http.StatusOK, alternatives)
}

// SearchFoods handles GET /api/v1/foods/search?q=paneer&limit=20.
func (h *PlanHandler) SearchFoods(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	query := c.Query("q")
	if query == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	foods, err := h.planService.SearchFoods(c.Request.Context(), userID, query, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserContextNotFound) {
			abortWithError(c, http.StatusPreconditionFailed, "Complete onboarding first")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Food search failed")
		return
	}

	c.JSON(http.StatusOK, foods)
}

// GetMessMealEstimate handles GET /api/v1/foods/mess/:category?portion=medium.
func (h *PlanHandler) GetMessMealEstimate(c *gin.Context) {
	category := domain.MessMealCategory(c.Param("category"))
	portion := domain.PortionSize(c.DefaultQuery("portion", string(domain.PortionMedium)))

	estimate, err := h.planService.MessMealEstimate(category, portion)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Unknown mess meal category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":    category,
		"portionSize": portion,
		"estimate":    estimate,
	})
}
