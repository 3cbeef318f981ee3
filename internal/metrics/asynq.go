package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 任务结果标签。
const (
	TaskOutcomeOK      = "ok"
	TaskOutcomeRetry   = "retry"
	TaskOutcomeSkipped = "skipped"
)

var (
	taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cvrender",
			Subsystem: "asynq",
			Name:      "task_duration_seconds",
			Help:      "任务处理耗时分布（秒），按结果分类。",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		},
		[]string{"task_type", "outcome"},
	)

	taskInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cvrender",
			Subsystem: "asynq",
			Name:      "tasks_in_progress",
			Help:      "当前正在处理的任务数量。",
		},
		[]string{"task_type"},
	)
)

// TaskOutcome 把处理结果归类：成功、会重试的失败、不再重试的失败。
func TaskOutcome(err error) string {
	switch {
	case err == nil:
		return TaskOutcomeOK
	case errors.Is(err, asynq.SkipRetry):
		return TaskOutcomeSkipped
	default:
		return TaskOutcomeRetry
	}
}

// AsynqMetricsMiddleware 记录 Asynq 任务处理指标。
func AsynqMetricsMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			taskType := task.Type()
			taskInProgress.WithLabelValues(taskType).Inc()
			defer taskInProgress.WithLabelValues(taskType).Dec()

			start := time.Now()
			err := next.ProcessTask(ctx, task)
			taskDuration.WithLabelValues(taskType, TaskOutcome(err)).Observe(time.Since(start).Seconds())
			return err
		})
	}
}
