package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nimmigupta/bus25-FridgeVision/config"
	"github.com/nimmigupta/bus25-FridgeVision/internal/api"
	"github.com/nimmigupta/bus25-FridgeVision/internal/database"
	"github.com/nimmigupta/bus25-FridgeVision/internal/middleware"
	"github.com/nimmigupta/bus25-FridgeVision/internal/router"
	"github.com/nimmigupta/bus25-FridgeVision/internal/server"
	"github.com/nimmigupta/bus25-FridgeVision/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, caching and rate limiting disabled: %v", err)
	}

	// The external capabilities may be unconfigured; the server still
	// starts and the affected endpoints report the condition distinctly.
	var recognizer service.FoodRecognizer
	if vision, err := service.NewVisionService(cfg); err != nil {
		if !errors.Is(err, service.ErrNotConfigured) {
			log.Fatalf("Failed to create vision service: %v", err)
		}
		log.Printf("Vision capability not configured: recognition disabled")
	} else {
		recognizer = vision
	}

	var generator service.RecipeGenerator
	if gen, err := service.NewGeneratorService(cfg); err != nil {
		if !errors.Is(err, service.ErrNotConfigured) {
			log.Fatalf("Failed to create generator service: %v", err)
		}
		log.Printf("Generation capability not configured: recipe generation disabled")
	} else {
		generator = gen
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Printf("Photo archive unavailable: %v", err)
	}

	pipeline := service.NewPipeline(
		service.NewImageIntake(cfg.MaxImageBytes),
		recognizer,
		service.NewConfidenceGate(cfg.ConfidenceThreshold),
		generator,
		service.NewFavoritesStore(db),
		service.NewRecognitionCache(redisClient),
		service.NewPhotoArchive(s3Config),
	)

	var recognizeLimiter, generateLimiter *middleware.RateLimiter
	if redisClient != nil {
		recognizeLimiter = middleware.NewRecognitionRateLimiter(redisClient)
		generateLimiter = middleware.NewGenerationRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		api.NewRecognizeHandler(pipeline),
		api.NewRecipesHandler(pipeline),
		api.NewFavoritesHandler(pipeline),
		api.NewHealthHandler(db),
		recognizeLimiter,
		generateLimiter,
	)

	srv := server.New(engine, net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
