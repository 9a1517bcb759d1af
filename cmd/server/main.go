package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Divyansh-9/Urja/internal/api"
	"github.com/Divyansh-9/Urja/internal/cache"
	"github.com/Divyansh-9/Urja/internal/config"
	"github.com/Divyansh-9/Urja/internal/generation"
	"github.com/Divyansh-9/Urja/internal/logger"
	"github.com/Divyansh-9/Urja/internal/repository/mongo"
	"github.com/Divyansh-9/Urja/internal/service"
	"github.com/Divyansh-9/Urja/internal/storage"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("starting server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLog.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		appLog.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	appLog.Info("database connection established", "db", cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			appLog.Warn("index creation failed", "error", err)
			return
		}
		appLog.Info("database indexes ensured")
	}()

	// --- Context Cache ---
	rootCtx := context.Background()
	ucoCache, err := cache.NewRedisCache(rootCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	if err != nil {
		appLog.Warn("redis unavailable, using in-process cache", "error", err)
		ucoCache = cache.NewMemoryCache(cfg.Redis.TTL)
	}

	// --- Plan Archive ---
	var archive storage.PlanArchive
	if cfg.S3.BucketName != "" {
		archive, err = storage.NewS3Archive(cfg.S3, appLog)
		if err != nil {
			appLog.Fatal("failed to initialize plan archive", "error", err)
		}
	} else {
		appLog.Warn("no archive bucket configured, superseded plans are overwritten")
	}

	// --- Generation Client ---
	generator, err := generation.NewGeminiGenerator(rootCtx, generation.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	})
	if err != nil {
		appLog.Fatal("failed to initialize generation client", "error", err)
	}
	orchestrator := generation.NewOrchestrator(generator,
		generation.WithMaxRetries(cfg.Generation.MaxRetries))

	// --- Initialize Repositories ---
	ucoRepo := mongo.NewMongoUCORepository(appDB)
	exerciseRepo := mongo.NewMongoExercisePoolRepository(appDB)
	foodRepo := mongo.NewMongoFoodPoolRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	checkInRepo := mongo.NewMongoCheckInRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)

	// --- Initialize Services ---
	ucoService := service.NewUCOService(ucoRepo, ucoCache, appLog)
	planService := service.NewPlanService(ucoService, exerciseRepo, foodRepo, planRepo,
		orchestrator, archive, cfg.Gemini.Model, appLog)
	coachingService := service.NewCoachingService(ucoService, checkInRepo, workoutLogRepo, appLog)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, ucoService, planService, coachingService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // generation calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	appLog.Info("server starting", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("listen and serve error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Fatal("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
