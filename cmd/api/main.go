package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvrender/internal/api"
	"cvrender/internal/api/middleware"
	"cvrender/internal/auth"
	"cvrender/internal/config"
	"cvrender/internal/database"
	"cvrender/internal/export"
	"cvrender/internal/pdf"
	"cvrender/internal/scan"
	"cvrender/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database ready",
		slog.String("host", cfg.Database.Host),
		slog.String("db", cfg.Database.Name),
	)
	repo := database.NewResumeRepository(db)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer queue.Close()

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	authService, err := auth.LoadAuthService(cfg.Auth.PublicKeyPath)
	if err != nil {
		log.Fatalf("load auth public key: %v", err)
	}

	browser, err := pdf.New(cfg.Export.Driver, pdf.Options{
		Bin:           cfg.Export.BrowserBin,
		Headers:       map[string]string{middleware.InternalSecretHeader: cfg.Export.InternalSecret},
		ReadyTimeout:  cfg.Export.ReadyTimeout,
		SettleTimeout: cfg.Export.SettleTimeout,
	})
	if err != nil {
		log.Fatalf("init browser driver: %v", err)
	}
	pipeline := export.NewPipeline(database.ExportStore{Repo: repo}, browser, export.Config{
		PrintBaseURL:   cfg.Export.PrintBaseURL,
		MaxConcurrent:  cfg.Export.MaxConcurrent,
		CaptureTimeout: cfg.Export.CaptureTimeout,
	}, logger)

	var scanner scan.Scanner
	if clamd := scan.NewClamd(cfg.Scan.ClamdAddr); clamd != nil {
		scanner = clamd
		logger.Info("photo scanning enabled", slog.String("clamd_addr", cfg.Scan.ClamdAddr))
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, api.Deps{
		Repo:           repo,
		Exporter:       pipeline,
		Queue:          queue,
		Signer:         storageClient,
		Scanner:        scanner,
		Auth:           authService,
		Redis:          redisClient,
		Limiter:        api.NewRateLimiter(redisClient, cfg.Export.RateLimitPerHour, time.Hour),
		Logger:         logger,
		InternalSecret: cfg.Export.InternalSecret,
		PublicBaseURL:  cfg.API.PublicBaseURL,
		AllowedOrigins: []string{cfg.API.PublicBaseURL},
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening",
		slog.String("addr", address),
		slog.String("pdf_driver", cfg.Export.Driver),
	)
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
