package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/service"
)

// CoachingHandler holds the coaching service dependency.
type CoachingHandler struct {
	coachingService service.CoachingService
}

// NewCoachingHandler creates a new CoachingHandler.
func NewCoachingHandler(coachingService service.CoachingService) *CoachingHandler {
	return &CoachingHandler{coachingService: coachingService}
}

// --- DTOs ---

// CheckInRequest is one daily self-report.
type CheckInRequest struct {
	EnergyLevel int     `json:"energyLevel" binding:"required,min=1,max=5"`
	SleepHours  float64 `json:"sleepHours" binding:"required,min=0,max=24"`
	StressLevel int     `json:"stressLevel" binding:"required,min=1,max=5"`
	ExamWeek    bool    `json:"examWeek"`
	Notes       string  `json:"notes"`
}

// LogExerciseRequest records one logged performance of an exercise.
type LogExerciseRequest struct {
	Sets        int     `json:"sets" binding:"required,min=1"`
	Reps        int     `json:"reps" binding:"required,min=1"`
	WeightKg    float64 `json:"weightKg"`
	EnergyLevel int     `json:"energyLevel" binding:"required,min=1,max=5"`
}

// --- Handler Methods ---

// SubmitCheckIn handles POST /api/v1/coaching/checkins.
func (h *CoachingHandler) SubmitCheckIn(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.coachingService.SubmitCheckIn(c.Request.Context(), &domain.CheckIn{
		UserID:      userID,
		Date:        time.Now().UTC(),
		EnergyLevel: req.EnergyLevel,
		SleepHours:  req.SleepHours,
		StressLevel: req.StressLevel,
		ExamWeek:    req.ExamWeek,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCheckIn) {
			abortWithError(c, http.StatusBadRequest, "Check-in values out of range")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to record check-in")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// LogExercise handles POST /api/v1/coaching/exercises/:slug/logs.
func (h *CoachingHandler) LogExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err = h.coachingService.LogExercise(c.Request.Context(), userID, c.Param("slug"), &domain.ExerciseSetLog{
		Date:        time.Now().UTC(),
		Sets:        req.Sets,
		Reps:        req.Reps,
		WeightKg:    req.WeightKg,
		EnergyLevel: req.EnergyLevel,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record exercise log")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetOverloadTargets handles GET /api/v1/coaching/exercises/:slug/targets.
func (h *CoachingHandler) GetOverloadTargets(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	week, _ := strconv.Atoi(c.DefaultQuery("week", "1"))
	hasWeights := c.DefaultQuery("hasWeights", "false") == "true"

	targets, err := h.coachingService.OverloadTargets(c.Request.Context(), userID, c.Param("slug"), week, hasWeights)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute targets")
		return
	}

	c.JSON(http.StatusOK, targets)
}

// GetDeloadStatus handles GET /api/v1/coaching/deload.
func (h *CoachingHandler) GetDeloadStatus(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	decision, err := h.coachingService.DeloadStatus(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to evaluate deload status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deload": decision.Deload, "reason": decision.Reason})
}

// GetWeeklySkeleton handles GET /api/v1/coaching/skeleton.
func (h *CoachingHandler) GetWeeklySkeleton(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	skeleton, err := h.coachingService.WeeklySkeleton(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserContextNotFound) {
			abortWithError(c, http.StatusPreconditionFailed, "Complete onboarding first")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to build skeleton")
		return
	}

	c.JSON(http.StatusOK, skeleton)
}
