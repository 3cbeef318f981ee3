package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvrender/internal/api/middleware"
	"cvrender/internal/export"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

func TooManyRequests(c *gin.Context, msg string) { Error(c, http.StatusTooManyRequests, msg) }

// ExportError 按错误分类返回状态码。渲染失败的细节只写日志，不返回给客户端。
func ExportError(c *gin.Context, err error) {
	status := export.StatusCode(err)
	log := middleware.LoggerFromContext(c)

	var exportErr *export.Error
	if errors.As(err, &exportErr) {
		log = log.With(slog.String("export_kind", string(exportErr.Kind)), slog.String("resume_id", exportErr.ID), slog.String("target", exportErr.Target))
	}

	switch export.KindOf(err) {
	case export.KindNotFound:
		NotFound(c, "resume not found")
	case export.KindInvalid:
		BadRequest(c, err.Error())
	case export.KindCanceled:
		log.Info("export canceled by client", slog.Any("error", err))
		c.AbortWithStatus(status)
	default:
		log.Error("export failed", slog.Any("error", err))
		Error(c, status, "failed to render pdf")
	}
}
