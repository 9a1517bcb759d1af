package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Divyansh-9/Urja/internal/domain"
	"github.com/Divyansh-9/Urja/internal/service"
)

// UCOHandler holds the user-context service dependency.
type UCOHandler struct {
	ucoService service.UCOService
}

// NewUCOHandler creates a new UCOHandler.
func NewUCOHandler(ucoService service.UCOService) *UCOHandler {
	return &UCOHandler{ucoService: ucoService}
}

// --- DTOs ---

// OnboardingRequest carries the full profile collected during onboarding.
// Derived fields in it are ignored; the service recomputes them.
type OnboardingRequest struct {
	Physical    domain.Physical    `json:"physical" binding:"required"`
	Goals       domain.Goals       `json:"goals" binding:"required"`
	Health      domain.Health      `json:"health"`
	Lifestyle   domain.Lifestyle   `json:"lifestyle" binding:"required"`
	Environment domain.Environment `json:"environment" binding:"required"`
	Nutrition   domain.Nutrition   `json:"nutrition" binding:"required"`
	Privacy     domain.Privacy     `json:"privacy"`
}

// SetTrackRequest switches the active plan track.
type SetTrackRequest struct {
	Track string `json:"track" binding:"required"`
}

// --- Handler Methods ---

// CompleteOnboarding handles POST /api/v1/context/onboarding.
func (h *UCOHandler) CompleteOnboarding(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	uco := &domain.UserContextObject{
		Meta:        domain.UCOMeta{UserID: userID},
		Physical:    req.Physical,
		Goals:       req.Goals,
		Health:      req.Health,
		Lifestyle:   req.Lifestyle,
		Environment: req.Environment,
		Nutrition:   req.Nutrition,
		Privacy:     req.Privacy,
	}

	created, err := h.ucoService.CreateFromOnboarding(c.Request.Context(), uco)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserContextExists):
			abortWithError(c, http.StatusConflict, "Onboarding already completed")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Profile values out of range")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create user context")
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetContext handles GET /api/v1/context.
func (h *UCOHandler) GetContext(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	uco, err := h.ucoService.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserContextNotFound) {
			abortWithError(c, http.StatusNotFound, "Complete onboarding first")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load user context")
		return
	}

	c.JSON(http.StatusOK, uco)
}

// PatchContext handles PATCH /api/v1/context.
func (h *UCOHandler) PatchContext(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var patch domain.UCOPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.ucoService.Patch(c.Request.Context(), userID, &patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserContextNotFound):
			abortWithError(c, http.StatusNotFound, "Complete onboarding first")
		case errors.Is(err, service.ErrVersionConflict):
			abortWithError(c, http.StatusConflict, "Context was modified concurrently, re-read and retry")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Profile values out of range")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update user context")
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SetTrack handles PUT /api/v1/context/track.
func (h *UCOHandler) SetTrack(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req SetTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.ucoService.SetActiveTrack(c.Request.Context(), userID, req.Track)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserContextNotFound):
			abortWithError(c, http.StatusNotFound, "Complete onboarding first")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Unknown track")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to switch track")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"activeTrack": updated.Adaptive.ActiveTrack})
}
