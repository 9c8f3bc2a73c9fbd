package main

import (
	"log"
	"time"

	"parceltrack/internal/core/cache"
	"parceltrack/internal/core/config"
	"parceltrack/internal/core/httpclient"
	"parceltrack/internal/core/logger"
	"parceltrack/internal/core/server"
	adapter "parceltrack/internal/features/tracking/adapters"
	"parceltrack/internal/features/tracking/handler"
	"parceltrack/internal/features/tracking/service"

	"go.uber.org/zap"
)

// @title ParcelTrack API
// @version 1.0
// @description Multi-carrier parcel tracking with Dutch status normalization and apprise notifications.
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	redisCache, err := cache.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		l.Fatal("Failed to connect to redis", zap.Error(err))
	}

	repo, err := adapter.NewFileRepository(cfg.StoragePath)
	if err != nil {
		l.Fatal("Failed to open package storage", zap.Error(err))
	}

	client := httpclient.NewClient(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	translations := adapter.NewDhlTranslationService(redisCache, client)
	runner := adapter.NewExecRunner()

	factory := service.NewShipperFactory(cfg, client, translations, runner)
	notifier := adapter.NewAppriseNotifier(cfg.Notify.AppriseBin, runner)
	notifications := service.NewNotificationService(cfg, notifier, factory)
	packages := service.NewPackageService(cfg, repo, factory, notifications)

	packageHandler := handler.NewPackageHandler(packages)
	shipperHandler := handler.NewShipperHandler(cfg, factory)

	srv := server.New(cfg)

	srv.App.Get("/api/packages", packageHandler.ListPackages)
	srv.App.Post("/api/packages", packageHandler.AddPackage)
	srv.App.Put("/api/packages", packageHandler.UpdatePackage)
	srv.App.Delete("/api/packages", packageHandler.DeletePackage)
	srv.App.Get("/api/shippers", shipperHandler.ListShippers)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
