package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"cvrender/internal/database"
	"cvrender/internal/errcode"
	"cvrender/internal/export"
	"cvrender/internal/i18n"
	"cvrender/internal/pdf"
	"cvrender/internal/storage"
	"cvrender/internal/tasks"
)

const previewQuality = 80

// Exporter is the part of export.Pipeline the worker needs.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Result, error)
	Target(rec export.Record, req export.Request) (string, error)
}

// ObjectStore 保存导出产物。
type ObjectStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
}

// StatusStore 记录导出状态。
type StatusStore interface {
	SetExportStatus(ctx context.Context, id uint, status, objectKey string) error
	SetPreviewImage(ctx context.Context, id uint, objectKey string) error
}

// ExportHandler 消费 resume:export 任务：渲染 PDF、上传 MinIO、更新记录并通知用户。
type ExportHandler struct {
	exporter Exporter
	objects  ObjectStore
	records  StatusStore
	notifier Notifier
	previews pdf.Screenshotter
	logger   *slog.Logger
}

// NewExportHandler 创建任务处理器。previews 为 nil 时跳过预览图。
func NewExportHandler(
	exporter Exporter,
	objects ObjectStore,
	records StatusStore,
	notifier Notifier,
	previews pdf.Screenshotter,
	logger *slog.Logger,
) *ExportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportHandler{
		exporter: exporter,
		objects:  objects,
		records:  records,
		notifier: notifier,
		previews: previews,
		logger:   logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	payload, err := tasks.ParseResumeExportPayload(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("resume_id", uint64(payload.ResumeID)),
		slog.Uint64("user_id", uint64(payload.OwnerID)),
	)
	log.Info("starting resume export task")

	if err := h.records.SetExportStatus(ctx, payload.ResumeID, database.ExportStatusProcessing, ""); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("mark export processing failed", slog.Any("error", err))
		return err
	}

	defer func() {
		if retErr == nil || !isFinalAttempt(ctx) {
			return
		}
		if err := h.records.SetExportStatus(context.WithoutCancel(ctx), payload.ResumeID, database.ExportStatusFailed, ""); err != nil {
			log.Error("mark export failed", slog.Any("error", err))
		}
		h.notify(ctx, log, payload, ExportNotifyMessage{
			Status:       NotifyError,
			ErrorCode:    errorCode(retErr),
			ErrorMessage: strings.TrimSpace(retErr.Error()),
		})
	}()

	req := export.Request{
		ResumeID: payload.ResumeID,
		OwnerID:  payload.OwnerID,
		Locale:   i18n.Locale(payload.Locale),
	}
	result, err := h.exporter.Export(ctx, req)
	if err != nil {
		switch export.KindOf(err) {
		case export.KindNotFound, export.KindInvalid:
			log.Warn("resume cannot be exported, skipping task", slog.Any("error", err))
			h.notify(ctx, log, payload, ExportNotifyMessage{
				Status:       NotifyError,
				ErrorCode:    errorCode(err),
				ErrorMessage: strings.TrimSpace(err.Error()),
			})
			return nil
		}
		log.Error("export pdf failed", slog.Any("error", err))
		return err
	}

	objectName := storage.ExportObjectKey(payload.OwnerID)
	if err := h.objects.UploadBytes(ctx, objectName, result.PDF, result.ContentType); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return fmt.Errorf("upload pdf: %w", err)
	}

	if err := h.records.SetExportStatus(ctx, payload.ResumeID, database.ExportStatusCompleted, objectName); err != nil {
		log.Error("update resume failed", slog.Any("error", err))
		return err
	}

	h.notify(ctx, log, payload, ExportNotifyMessage{
		Status:    NotifyCompleted,
		Filename:  result.Filename,
		ErrorCode: errcode.OK,
	})

	if err := h.storePreview(ctx, req); err != nil {
		log.Warn("generate resume preview failed", slog.Any("error", err))
	}

	log.Info("resume export task completed", slog.String("object", objectName), slog.Int("bytes", len(result.PDF)))
	return nil
}

func (h *ExportHandler) notify(ctx context.Context, log *slog.Logger, payload tasks.ResumeExportPayload, msg ExportNotifyMessage) {
	if h.notifier == nil {
		return
	}
	msg.ResumeID = payload.ResumeID
	msg.CorrelationID = payload.CorrelationID
	if err := h.notifier.Notify(context.WithoutCancel(ctx), payload.OwnerID, msg); err != nil {
		log.Error("publish export notification failed", slog.Any("error", err))
	}
}

// storePreview 截取打印页 JPEG 作为列表缩略图，失败不影响导出结果。
func (h *ExportHandler) storePreview(ctx context.Context, req export.Request) error {
	if h.previews == nil {
		return nil
	}
	target, err := h.exporter.Target(export.Record{ID: req.ResumeID}, req)
	if err != nil {
		return err
	}
	data, err := h.previews.Screenshot(ctx, target, previewQuality)
	if err != nil {
		return fmt.Errorf("capture preview screenshot: %w", err)
	}

	objectName := storage.PreviewObjectKey(req.ResumeID)
	if err := h.objects.UploadBytes(ctx, objectName, data, "image/jpeg"); err != nil {
		return fmt.Errorf("upload preview image: %w", err)
	}
	return h.records.SetPreviewImage(ctx, req.ResumeID, objectName)
}

func errorCode(err error) int {
	switch export.KindOf(err) {
	case export.KindNotFound:
		return errcode.NotFound
	case export.KindInvalid:
		return errcode.InvalidRequest
	}
	var exportErr *export.Error
	if !errors.As(err, &exportErr) {
		return errcode.StorageFailure
	}
	return errcode.RenderFailure
}

func isFinalAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
