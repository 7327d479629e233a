package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/appkademy-api/api/swagger"
	"github.com/noah-isme/appkademy-api/internal/handler"
	"github.com/noah-isme/appkademy-api/internal/repository"
	"github.com/noah-isme/appkademy-api/internal/router"
	"github.com/noah-isme/appkademy-api/internal/service"
	"github.com/noah-isme/appkademy-api/pkg/cache"
	"github.com/noah-isme/appkademy-api/pkg/config"
	"github.com/noah-isme/appkademy-api/pkg/database"
	"github.com/noah-isme/appkademy-api/pkg/jobs"
	"github.com/noah-isme/appkademy-api/pkg/logger"
	"github.com/noah-isme/appkademy-api/pkg/storage"
)

// @title Appkademy API
// @version 1.0.0
// @description Tutoring marketplace: teacher search and validated profile writes.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Search.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, search cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	proficiencyRepo := repository.NewTeachingProficiencyRepository(db)
	characteristicRepo := repository.NewCharacteristicRepository(db)
	txManager := repository.NewTxManager(db)

	dependencies := map[string]handler.Pinger{"postgres": db}
	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, "appkademy", logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Search.CacheTTL, logr, true)
		dependencies["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	validation := service.NewTeacherValidationService(teacherRepo, studentRepo, proficiencyRepo, characteristicRepo, validate)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	teacherSvc := service.NewTeacherService(teacherRepo, userRepo, txManager, validation, cacheSvc, metrics, validate, logr, service.TeacherServiceConfig{
		DefaultProviderCategoryID: cfg.Teachers.DefaultProviderCategoryID,
		ResetUserRoleOnDelete:     cfg.Teachers.ResetUserRoleOnDelete,
	})
	studentSvc := service.NewStudentService(studentRepo, userRepo, txManager, validation, metrics, validate, logr, cfg.Teachers.ResetUserRoleOnDelete)
	exportSvc := service.NewTeacherExportService(teacherSvc, logr)
	subjectSvc := service.NewSubjectService(repository.NewSubjectRepository(db), proficiencyRepo, characteristicRepo, cacheSvc, logr)

	exportFiles, err := storage.NewFileStore(cfg.Export.Dir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	exportJobSvc := service.NewExportJobService(
		repository.NewExportJobRepository(db),
		nil,
		exportSvc,
		exportFiles,
		storage.NewSigner(cfg.Export.SigningSecret, cfg.Export.ResultTTL),
		logr,
		service.ExportJobConfig{
			DownloadBaseURL: cfg.APIPrefix + "/exports/download/",
			ResultTTL:       cfg.Export.ResultTTL,
			CleanupInterval: cfg.Export.CleanupInterval,
			MaxAttempts:     cfg.Export.MaxAttempts,
		},
	)
	exportQueue := jobs.NewQueue(service.ExportJobKind, exportJobSvc.Handle, jobs.Config{
		Workers:    cfg.Export.Workers,
		MaxRetries: cfg.Export.MaxAttempts,
		RetryDelay: 2 * time.Second,
		Observer:   metrics.RecordJobOutcome,
		Logger:     logr,
	})
	exportJobSvc.UseQueue(exportQueue)
	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exportJobSvc.Recover(ctx)
	exportJobSvc.StartCleanup(ctx)

	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Teacher:  handler.NewTeacherHandler(teacherSvc, exportSvc),
		Student:  handler.NewStudentHandler(studentSvc),
		Subject:  handler.NewSubjectHandler(subjectSvc),
		Export:   handler.NewExportJobHandler(exportJobSvc),
		Observed: handler.NewMetricsHandler(metrics.Handler(), dependencies),
	}
	engine := router.Setup(cfg, logr, authSvc, metrics, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http server shutdown failed", zap.Error(err))
	}
	logr.Info("shutdown complete")
}
