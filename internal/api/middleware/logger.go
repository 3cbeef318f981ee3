package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const slogLoggerKey = "slogLogger"

// quietRoutes 只在出错时记录。
var quietRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// SlogLoggerMiddleware 为每个请求注入带 correlation_id 的 logger，结束时输出一行访问日志。
// 5xx 记为 Error，4xx 记为 Warn。
func SlogLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		reqLog := logger.With(
			slog.String("correlation_id", GetCorrelationID(c)),
			slog.String("method", c.Request.Method),
			slog.String("route", route),
		)
		c.Set(slogLoggerKey, reqLog)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var level slog.Level
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case quietRoutes[route]:
			return
		default:
			level = slog.LevelInfo
		}

		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if id, ok := UserID(c); ok {
			attrs = append(attrs, slog.Uint64("user_id", uint64(id)))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		reqLog.LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}

// LoggerFromContext 返回请求级 logger，没有时退回 slog.Default。
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if value, ok := c.Get(slogLoggerKey); ok {
		if l, ok := value.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
