package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutriai/nutrition-app/internal/api"
	"nutriai/nutrition-app/internal/config"
	"nutriai/nutrition-app/internal/foodfacts"
	"nutriai/nutrition-app/internal/llm"
	"nutriai/nutrition-app/internal/logger"
	"nutriai/nutrition-app/internal/mealplan"
	"nutriai/nutrition-app/internal/repository/mongo"
	"nutriai/nutrition-app/internal/service"
	"nutriai/nutrition-app/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Nutrition App API
// @version 1.0
// @description Meal plan generation and daily nutrition tracking.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func run(cfg config.Config, log *zap.SugaredLogger) error {
	ctx := context.Background()

	// --- Database ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		log.Info("disconnecting mongodb")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorw("failed to disconnect mongodb", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infow("database connection established", "database", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Warnw("index creation failed", "error", err)
			return
		}
		log.Info("index creation completed")
	}()

	// --- Storage (optional) ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
	} else {
		log.Warn("s3.bucket_name not set; avatar endpoints are disabled")
	}

	// --- Plan generation ---
	gemini, err := llm.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		return err
	}
	defer gemini.Close()

	generator, err := mealplan.NewGenerator(gemini, mealplan.Options{
		Extraction:       cfg.MealPlan.Extraction,
		StrictValidation: cfg.MealPlan.StrictValidation,
		LogRawResponse:   cfg.MealPlan.LogRawResponse,
	}, log.Named("mealplan"))
	if err != nil {
		return err
	}

	// --- Repositories & services ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	dailyRepo := mongo.NewMongoDailyRepository(appDB)
	pantryRepo := mongo.NewMongoPantryRepository(appDB)
	postRepo := mongo.NewMongoPostRepository(appDB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	profileService := service.NewProfileService(userRepo, fileStorage, log.Named("profile"))
	dailyService := service.NewDailyService(dailyRepo, generator, cfg.Goals, time.Now, log.Named("daily"))
	pantryService := service.NewPantryService(pantryRepo, foodfacts.NewClient(cfg.FoodFacts), log.Named("pantry"))
	communityService := service.NewCommunityService(postRepo, userRepo)

	// --- HTTP ---
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.RequestLogger(log.Named("http")))
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Gemini.Timeout, generator,
		authService, profileService, dailyService, pantryService, communityService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}
