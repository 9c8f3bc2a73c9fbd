package main

import (
	"context"
	"log"
	"time"

	"parceltrack/internal/core/cache"
	"parceltrack/internal/core/config"
	"parceltrack/internal/core/httpclient"
	"parceltrack/internal/core/logger"
	adapter "parceltrack/internal/features/tracking/adapters"
	"parceltrack/internal/features/tracking/service"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Refreshes every stored package from its carrier and notifies on changes.
// Meant to run from cron; a single pass, then exit.
func main() {
	force := pflag.BoolP("force", "f", false, "refresh inactive packages too and notify even without changes")
	noNotification := pflag.Bool("no-notification", false, "refresh without sending notifications")
	onePackage := pflag.StringP("package", "p", "", "refresh a single package by tracking code")
	pflag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()

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
	refresh := service.NewRefreshService(cfg, repo, factory, notifications)

	opts := service.RefreshOptions{
		Force:          *force,
		NoNotification: *noNotification,
		Package:        *onePackage,
	}
	if err := refresh.Run(context.Background(), opts); err != nil {
		l.Fatal("Refresh run failed", zap.Error(err))
	}
}
