package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvrender/internal/api/middleware"
	"cvrender/internal/config"
	"cvrender/internal/database"
	"cvrender/internal/export"
	"cvrender/internal/metrics"
	"cvrender/internal/pdf"
	"cvrender/internal/storage"
	"cvrender/internal/tasks"
	"cvrender/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	repo := database.NewResumeRepository(db)
	logger.Info("database connection ready for worker")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
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

	// 两种驱动都能截图，断言失败时只是不生成预览图。
	previews, _ := browser.(pdf.Screenshotter)

	exportHandler := worker.NewExportHandler(
		pipeline,
		storageClient,
		repo,
		worker.NewRedisNotifier(redisClient),
		previews,
		logger,
	)

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		// 并发由导出管线的信号量限制，这里只需略大于它。
		Concurrency: int(cfg.Export.MaxConcurrent) * 2,
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeResumeExport, exportHandler)

	logger.Info("worker service started",
		slog.String("redis_addr", redisAddr),
		slog.String("pdf_driver", cfg.Export.Driver),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
