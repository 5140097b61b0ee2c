package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"projectmonitor/config"
	"projectmonitor/database"
	"projectmonitor/handlers"
	"projectmonitor/logger"
	repository "projectmonitor/repositories"
	routes "projectmonitor/routes"
	services "projectmonitor/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	zapLogger, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zapLogger.Error("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	db := client.Database(cfg.MongoDatabase)
	if err := database.CreateIndexes(db, zapLogger); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	kpiRepo := repository.NewKPIRepository(db)
	kpiUpdateRepo := repository.NewKPIUpdateRepository(db)
	storyRepo := repository.NewSuccessStoryRepository(db)
	visualisationRepo := repository.NewVisualisationRepository(db)
	sessionRepo := repository.NewSessionRepository(rdb)
	documentRepo, err := repository.NewDocumentRepository(db)
	if err != nil {
		return err
	}

	var mailer services.Mailer
	if cfg.EmailConfigured() {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort), cfg.EmailUser, cfg.EmailPassword)
	} else {
		mailer = services.NewNoopMailer(zapLogger)
	}

	// Services
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.SessionSecret, cfg.SessionTTL, zapLogger)
	userService := services.NewUserService(userRepo, projectRepo, sessionRepo, mailer, zapLogger)
	projectService := services.NewProjectService(projectRepo, userRepo, kpiRepo, kpiUpdateRepo, zapLogger)
	taskService := services.NewTaskService(taskRepo, projectRepo, zapLogger)
	kpiService := services.NewKPIService(kpiRepo, kpiUpdateRepo, projectRepo, taskRepo, userRepo, zapLogger)
	documentService := services.NewDocumentService(documentRepo, projectRepo, taskRepo, kpiUpdateRepo, zapLogger)
	storyService := services.NewSuccessStoryService(storyRepo, projectRepo, zapLogger)
	visualisationService := services.NewVisualisationService(visualisationRepo, projectRepo, kpiRepo, kpiUpdateRepo, zapLogger)

	router := routes.Setup(routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, cfg.CookieSecure || cfg.TLSEnabled()),
		User:          handlers.NewUserHandler(userService),
		Project:       handlers.NewProjectHandler(projectService),
		Task:          handlers.NewTaskHandler(taskService),
		KPI:           handlers.NewKPIHandler(kpiService),
		Document:      handlers.NewDocumentHandler(documentService, cfg.MaxUploadBytes),
		SuccessStory:  handlers.NewSuccessStoryHandler(storyService),
		Visualisation: handlers.NewVisualisationHandler(visualisationService),
	}, authService, zapLogger, cfg.ClientURL)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server starting", zap.String("port", cfg.Port), zap.Bool("tls", cfg.TLSEnabled()))
		if cfg.TLSEnabled() {
			errCh <- server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
