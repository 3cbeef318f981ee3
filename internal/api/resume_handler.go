package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"cvrender/internal/api/middleware"
	"cvrender/internal/database"
	"cvrender/internal/export"
	"cvrender/internal/i18n"
	"cvrender/internal/resume"
	"cvrender/internal/scan"
	"cvrender/internal/storage"
	"cvrender/internal/tasks"
)

const (
	downloadLinkTTL = 5 * time.Minute
	maxTitleRunes   = 255
)

var errInvalidResumeID = errors.New("invalid resume id")

// Exporter renders a resume to PDF synchronously.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Result, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// URLSigner 生成对象存储的限时下载链接。
type URLSigner interface {
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
	GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error)
}

// ResumeHandler 负责处理与简历相关的 API 请求。
type ResumeHandler struct {
	repo          *database.ResumeRepository
	exporter      Exporter
	queue         TaskEnqueuer
	signer        URLSigner
	scanner       scan.Scanner
	limiter       *RateLimiter
	publicBaseURL string
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(
	repo *database.ResumeRepository,
	exporter Exporter,
	queue TaskEnqueuer,
	signer URLSigner,
	scanner scan.Scanner,
	limiter *RateLimiter,
	publicBaseURL string,
) *ResumeHandler {
	return &ResumeHandler{
		repo:          repo,
		exporter:      exporter,
		queue:         queue,
		signer:        signer,
		scanner:       scanner,
		limiter:       limiter,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

type saveResumeRequest struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content" binding:"required"`
}

type resumeResponse struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Content      json.RawMessage `json:"content"`
	IsShared     bool            `json:"is_shared"`
	ExportStatus string          `json:"export_status,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func newResumeResponse(rec *database.Resume) resumeResponse {
	return resumeResponse{
		ID:           rec.ID,
		Title:        rec.Title,
		Content:      json.RawMessage(rec.Content),
		IsShared:     rec.IsShared,
		ExportStatus: rec.ExportStatus,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

type shareResponse struct {
	ShareID  string `json:"shareId"`
	IsShared bool   `json:"isShared"`
	ShareURL string `json:"shareUrl"`
}

type setShareRequest struct {
	IsShared *bool `json:"isShared" binding:"required"`
}

// CreateResume 校验并保存一份新的简历。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	req, ok := h.bindContent(c)
	if !ok {
		return
	}

	rec, err := h.repo.Create(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		middleware.LoggerFromContext(c).Error("create resume", slog.Any("error", err))
		Internal(c, "failed to create resume")
		return
	}
	c.JSON(http.StatusCreated, newResumeResponse(rec))
}

// GetResume 返回当前用户的一份简历。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	rec, ok := h.ownedResume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newResumeResponse(rec))
}

// UpdateResume 替换简历内容。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}

	req, ok := h.bindContent(c)
	if !ok {
		return
	}

	rec, err := h.repo.UpdateContent(c.Request.Context(), id, userID, req.Title, req.Content)
	if err != nil {
		h.repoError(c, err, "failed to update resume")
		return
	}
	c.JSON(http.StatusOK, newResumeResponse(rec))
}

// bindContent 解析请求体，执行结构校验和照片扫描。失败时已写出响应。
func (h *ResumeHandler) bindContent(c *gin.Context) (saveResumeRequest, bool) {
	var req saveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return req, false
	}
	req.Title = strings.TrimSpace(req.Title)
	if len([]rune(req.Title)) > maxTitleRunes {
		BadRequest(c, "title too long")
		return req, false
	}

	if err := resume.Validate(req.Content); err != nil {
		BadRequest(c, err.Error())
		return req, false
	}
	doc, err := resume.Decode(req.Content)
	if err != nil {
		BadRequest(c, err.Error())
		return req, false
	}

	if err := scan.Photo(c.Request.Context(), h.scanner, doc.Photo); err != nil {
		switch {
		case errors.Is(err, scan.ErrInfected):
			BadRequest(c, "malicious file detected")
		case errors.Is(err, scan.ErrMalformedPhoto), errors.Is(err, scan.ErrPhotoTooLarge):
			BadRequest(c, err.Error())
		default:
			middleware.LoggerFromContext(c).Error("scan photo", slog.Any("error", err))
			Internal(c, "failed to scan photo")
		}
		return req, false
	}
	return req, true
}

// ExportPDF 同步渲染并返回 PDF。
func (h *ResumeHandler) ExportPDF(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	if !h.allow(c, fmt.Sprintf("user:%d", userID)) {
		return
	}

	result, err := h.exporter.Export(c.Request.Context(), export.Request{
		ResumeID: id,
		OwnerID:  userID,
		Locale:   requestLocale(c),
	})
	if err != nil {
		ExportError(c, err)
		return
	}
	writePDF(c, result)
}

// SharePDF 通过公开分享链接导出 PDF，不需要登录。
func (h *ResumeHandler) SharePDF(c *gin.Context) {
	shareID := strings.TrimSpace(c.Param("shareId"))
	if !h.allow(c, "share:"+shareID) {
		return
	}

	result, err := h.exporter.Export(c.Request.Context(), export.Request{
		ShareID: shareID,
		Locale:  requestLocale(c),
	})
	if err != nil {
		c.Header("Cache-Control", "no-store")
		ExportError(c, err)
		return
	}
	writePDF(c, result)
}

func writePDF(c *gin.Context, result *export.Result) {
	c.Header("Content-Disposition", export.ContentDisposition(result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, result.ContentType, result.PDF)
}

// EnqueueExport 将导出任务入队并立即返回 202。
func (h *ResumeHandler) EnqueueExport(c *gin.Context) {
	rec, ok := h.ownedResume(c)
	if !ok {
		return
	}
	if !h.allow(c, fmt.Sprintf("user:%d", rec.UserID)) {
		return
	}

	task, err := tasks.NewResumeExportTask(tasks.ResumeExportPayload{
		ResumeID:      rec.ID,
		OwnerID:       rec.UserID,
		Locale:        string(requestLocale(c)),
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	ctx := c.Request.Context()
	info, err := h.queue.EnqueueContext(ctx, task)
	if err != nil {
		middleware.LoggerFromContext(c).Error("enqueue export", slog.Any("error", err))
		Internal(c, "failed to enqueue pdf export")
		return
	}
	if err := h.repo.SetExportStatus(ctx, rec.ID, database.ExportStatusPending, ""); err != nil {
		middleware.LoggerFromContext(c).Warn("mark export pending", slog.Any("error", err))
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF export request accepted",
		"task_id": info.ID,
	})
}

// GetDownloadLink 生成最近一次异步导出的预签名下载链接。
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	rec, ok := h.ownedResume(c)
	if !ok {
		return
	}
	if rec.PdfObjectKey == "" || rec.ExportStatus != database.ExportStatusCompleted {
		Conflict(c, "pdf not ready")
		return
	}
	if !storage.OwnsExport(rec.UserID, rec.PdfObjectKey) {
		middleware.LoggerFromContext(c).Error("export object key does not belong to owner",
			slog.Uint64("resume_id", uint64(rec.ID)), slog.String("object_key", rec.PdfObjectKey))
		NotFound(c, "pdf not found")
		return
	}
	ctx := c.Request.Context()
	exists, err := h.signer.ObjectExists(ctx, rec.PdfObjectKey)
	if err != nil {
		middleware.LoggerFromContext(c).Error("stat export object", slog.Any("error", err), slog.Uint64("resume_id", uint64(rec.ID)))
		Internal(c, "failed to generate download link")
		return
	}
	if !exists {
		// 对象已被生命周期规则清理，需要重新导出。
		Conflict(c, "pdf expired, export again")
		return
	}

	name := rec.Title
	if snapshot, err := database.Decode(rec); err == nil {
		name = snapshot.DisplayName()
	}
	filename := export.Filename(name, strconv.FormatUint(uint64(rec.ID), 10))

	signedURL, err := h.signer.GeneratePresignedURLWithParams(ctx, rec.PdfObjectKey, downloadLinkTTL, map[string]string{
		"response-content-disposition": export.ContentDisposition(filename),
		"response-content-type":        export.ContentTypePDF,
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate download link", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": signedURL, "filename": filename})
}

// GetShare 返回分享状态。
func (h *ResumeHandler) GetShare(c *gin.Context) {
	rec, ok := h.ownedResume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.shareResponse(rec))
}

// SetShare 开启或关闭分享，分享 id 只在第一次开启时生成。
func (h *ResumeHandler) SetShare(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	var req setShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	rec, err := h.repo.SetShared(c.Request.Context(), id, userID, *req.IsShared)
	if err != nil {
		h.repoError(c, err, "failed to update share")
		return
	}
	c.JSON(http.StatusOK, h.shareResponse(rec))
}

func (h *ResumeHandler) shareResponse(rec *database.Resume) shareResponse {
	resp := shareResponse{ShareID: rec.ShareIDValue(), IsShared: rec.IsShared}
	if resp.ShareID != "" && h.publicBaseURL != "" {
		resp.ShareURL = h.publicBaseURL + "/print/share/" + resp.ShareID
	}
	return resp
}

// allow 执行导出限流，超限时写出 429。
func (h *ResumeHandler) allow(c *gin.Context, subject string) bool {
	ok, err := h.limiter.Allow(c.Request.Context(), subject)
	if err != nil {
		middleware.LoggerFromContext(c).Warn("rate limiter unavailable", slog.Any("error", err))
	}
	if !ok {
		TooManyRequests(c, "too many pdf exports, try again later")
		return false
	}
	return true
}

func (h *ResumeHandler) ownedResume(c *gin.Context) (*database.Resume, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}
	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid resume id")
		return nil, false
	}
	rec, err := h.repo.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		h.repoError(c, err, "failed to query resume")
		return nil, false
	}
	return rec, true
}

func (h *ResumeHandler) repoError(c *gin.Context, err error, msg string) {
	if errors.Is(err, database.ErrNotFound) {
		NotFound(c, "resume not found")
		return
	}
	middleware.LoggerFromContext(c).Error(msg, slog.Any("error", err))
	Internal(c, msg)
}

func parseResumeID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidResumeID
	}
	return uint(id), nil
}

// requestLocale 优先使用 ?locale=，否则按 Accept-Language 协商。
func requestLocale(c *gin.Context) i18n.Locale {
	return i18n.Resolve(c.Query("locale"), c.GetHeader("Accept-Language"))
}
