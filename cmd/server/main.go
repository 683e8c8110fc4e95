package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pmitra96/recipe-backend/config"
	"github.com/pmitra96/recipe-backend/controllers"
	"github.com/pmitra96/recipe-backend/database"
	"github.com/pmitra96/recipe-backend/llm"
	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/repository"
	"github.com/pmitra96/recipe-backend/routes"
	"github.com/pmitra96/recipe-backend/services"
)

func main() {
	// Initialize Structured Logger
	logger.Init()
	defer logger.Sync()

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_FILE", config.DefaultFile))
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("GROQ_API_KEY is not set, generation requests will fail")
	}

	// Optional generation history
	var (
		db       *gorm.DB
		recorder services.HistoryRecorder
		history  *controllers.HistoryController
	)
	if cfg.Database.Enabled {
		db, err = database.Open(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to open database", "error", err)
		}
		repo := repository.NewGenerationRepository(db)
		recorder = repo
		history = controllers.NewHistoryController(repo)
	}

	client := llm.NewClient(llm.Options{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	svc := services.NewGenerationService(client, client.Model(), recorder)

	// Setup Router
	r := routes.SetupRouter(cfg, controllers.NewGenerationController(svc), history)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.LLM.Timeout + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port, "model", cfg.LLM.Model, "history", cfg.Database.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	if db != nil {
		database.Close(db)
	}
	logger.Info("Server stopped")
}
