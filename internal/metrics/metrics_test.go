package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

func TestTaskOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: TaskOutcomeOK},
		{err: errors.New("boom"), want: TaskOutcomeRetry},
		{err: fmt.Errorf("bad payload: %w", asynq.SkipRetry), want: TaskOutcomeSkipped},
	}
	for _, tt := range tests {
		if got := TaskOutcome(tt.err); got != tt.want {
			t.Fatalf("TaskOutcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestAsynqMetricsMiddleware(t *testing.T) {
	want := errors.New("boom")
	h := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return want
	}))
	if err := h.ProcessTask(context.Background(), asynq.NewTask("metrics:test", nil)); !errors.Is(err, want) {
		t.Fatalf("handler error not passed through: %v", err)
	}
	if got := seriesCount(t, "cvrender_asynq_task_duration_seconds"); got == 0 {
		t.Fatal("task duration not observed")
	}
}

func TestGinMiddlewareSkipsHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := seriesCount(t, "cvrender_http_request_duration_seconds")
	for _, path := range []string{"/health", "/items/1", "/items/2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}
	// 两个 /items 请求共用同一个路由标签。
	if got := seriesCount(t, "cvrender_http_request_duration_seconds"); got != before+1 {
		t.Fatalf("series = %d, want %d", got, before+1)
	}
}

func seriesCount(t *testing.T, name string) int {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return len(f.GetMetric())
		}
	}
	return 0
}
