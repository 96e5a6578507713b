package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/navadeep2/learning-task-manager/internal/api"
	"github.com/navadeep2/learning-task-manager/internal/config"
	"github.com/navadeep2/learning-task-manager/internal/database"
	"github.com/navadeep2/learning-task-manager/internal/logger"
	"github.com/navadeep2/learning-task-manager/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not an error: production deployments configure via real env vars.
		fmt.Fprintln(os.Stderr, "no .env file found, using environment variables")
	}

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	activityService := services.NewActivityService(db)
	userService := services.NewUserService(db, activityService)
	taskService := services.NewTaskService(db, activityService)

	// Set up router
	router := api.NewRouter(cfg, userService, taskService, activityService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
