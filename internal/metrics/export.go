package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvrender",
			Subsystem: "export",
			Name:      "pdf_total",
			Help:      "PDF 导出次数，按路由和结果分类。",
		},
		[]string{"route", "outcome"},
	)

	exportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cvrender",
			Subsystem: "export",
			Name:      "pdf_duration_seconds",
			Help:      "PDF 导出耗时分布（秒）。",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"route"},
	)

	browsersInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cvrender",
			Subsystem: "export",
			Name:      "browsers_in_flight",
			Help:      "当前运行中的无头浏览器实例数量。",
		},
	)
)

// ObserveExport records one pipeline run. An empty kind means success.
func ObserveExport(route, kind string, elapsed time.Duration) {
	outcome := kind
	if outcome == "" {
		outcome = "ok"
	}
	exportTotal.WithLabelValues(route, outcome).Inc()
	exportDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// BrowserStarted 和 BrowserFinished 成对调用，跟踪浏览器进程数量。
func BrowserStarted() { browsersInFlight.Inc() }

func BrowserFinished() { browsersInFlight.Dec() }
