package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Divyansh-9/Urja/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	ucoService service.UCOService,
	planService service.PlanService,
	coachingService service.CoachingService,
) {
	ucoHandler := NewUCOHandler(ucoService)
	planHandler := NewPlanHandler(planService)
	coachingHandler := NewCoachingHandler(coachingService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- User Context Routes ---
		contextGroup := protected.Group("/context")
		{
			contextGroup.POST("/onboarding", ucoHandler.CompleteOnboarding)
			contextGroup.GET("", ucoHandler.GetContext)
			contextGroup.PATCH("", ucoHandler.PatchContext)
			contextGroup.PUT("/track", ucoHandler.SetTrack)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("/current", planHandler.GetCurrentPlan)
			planGroup.GET("/history", planHandler.GetPlanHistory)
			planGroup.GET("/exercises/:slug/alternatives", planHandler.GetExerciseAlternatives)
		}

		// --- Food Library Routes ---
		foodGroup := protected.Group("/foods")
		{
			foodGroup.GET("/search", planHandler.SearchFoods)
			foodGroup.GET("/mess/:category", planHandler.GetMessMealEstimate)
		}

		// --- Coaching Routes ---
		coachingGroup := protected.Group("/coaching")
		{
			coachingGroup.POST("/checkins", coachingHandler.SubmitCheckIn)
			coachingGroup.POST("/exercises/:slug/logs", coachingHandler.LogExercise)
			coachingGroup.GET("/exercises/:slug/targets", coachingHandler.GetOverloadTargets)
			coachingGroup.GET("/deload", coachingHandler.GetDeloadStatus)
			coachingGroup.GET("/skeleton", coachingHandler.GetWeeklySkeleton)
		}
	}
}
