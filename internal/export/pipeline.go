// Package export 实现打印/导出流程：Resolve → RenderTarget → Capture → Deliver → Cleanup。
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"cvrender/internal/i18n"
	"cvrender/internal/metrics"
)

const (
	ContentTypePDF = "application/pdf"

	defaultMaxConcurrent  = 2
	defaultCaptureTimeout = 45 * time.Second
)

// Config controls where the print pages live and how many browsers may run.
type Config struct {
	PrintBaseURL   string
	MaxConcurrent  int64
	CaptureTimeout time.Duration
}

// Pipeline renders stored resumes to PDF through a headless browser.
type Pipeline struct {
	store   Store
	browser Browser
	cfg     Config
	sem     *semaphore.Weighted
	logger  *slog.Logger
}

// NewPipeline wires a pipeline. A nil logger falls back to slog.Default.
func NewPipeline(store Store, browser Browser, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = defaultCaptureTimeout
	}
	cfg.PrintBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PrintBaseURL), "/")
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:   store,
		browser: browser,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:  logger.With(slog.String("component", "export")),
	}
}

// Export runs the whole pipeline. Either a complete PDF or an error is
// returned, never partial bytes.
func (p *Pipeline) Export(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	route := "owner"
	if req.Shared() {
		route = "share"
	}

	result, err := p.export(ctx, req)
	metrics.ObserveExport(route, string(KindOf(err)), time.Since(start))
	return result, err
}

func (p *Pipeline) export(ctx context.Context, req Request) (*Result, error) {
	rec, err := p.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	target, err := p.Target(rec, req)
	if err != nil {
		return nil, err
	}

	id := strconv.FormatUint(uint64(rec.ID), 10)
	logger := p.logger.With(slog.Uint64("resume_id", uint64(rec.ID)), slog.String("target", target))

	pdfBytes, err := p.capture(ctx, target)
	if err != nil {
		var exportErr *Error
		if errors.As(err, &exportErr) {
			exportErr.ID = id
			exportErr.Target = target
		}
		if KindOf(err) == KindCanceled {
			logger.Info("pdf capture canceled", slog.Any("error", err))
		} else {
			logger.Error("pdf capture failed", slog.Any("error", err))
		}
		return nil, err
	}

	logger.Info("pdf exported", slog.Int("bytes", len(pdfBytes)))
	return &Result{
		Filename:    Filename(rec.DisplayName(), id),
		PDF:         pdfBytes,
		ContentType: ContentTypePDF,
	}, nil
}

// Resolve 加载记录并执行访问规则：分享链接要求 IsShared，
// 所有者路由要求 owner 一致。两种失败都报告为 NotFound，不泄露记录是否存在。
func (p *Pipeline) Resolve(ctx context.Context, req Request) (Record, error) {
	return ResolveRecord(ctx, p.store, req)
}

// ResolveRecord applies the access rules of Resolve against any Store.
func ResolveRecord(ctx context.Context, store Store, req Request) (Record, error) {
	shareID := strings.TrimSpace(req.ShareID)
	switch {
	case shareID != "" && req.ResumeID != 0:
		return Record{}, newError(KindInvalid, "request must select either a resume id or a share id", nil)
	case shareID == "" && req.ResumeID == 0:
		return Record{}, newError(KindInvalid, "resume id or share id is required", nil)
	}

	if shareID != "" {
		rec, err := store.GetByShareID(ctx, shareID)
		if err != nil {
			return Record{}, lookupError(err)
		}
		if !rec.IsShared || rec.ShareID != shareID {
			return Record{}, newError(KindNotFound, "resume not found", nil)
		}
		return rec, nil
	}

	rec, err := store.Get(ctx, req.ResumeID)
	if err != nil {
		return Record{}, lookupError(err)
	}
	if req.OwnerID != 0 && rec.OwnerID != req.OwnerID {
		return Record{}, newError(KindNotFound, "resume not found", nil)
	}
	return rec, nil
}

func lookupError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return newError(KindNotFound, "resume not found", err)
	case errors.Is(err, context.Canceled):
		return newError(KindCanceled, "lookup canceled", err)
	default:
		return newError(KindRenderFailure, "load resume", err)
	}
}

// Target returns the print page URL the browser should open:
// /<locale>/print/<id> for owners, /print/share/<shareId>?locale= for shares.
func (p *Pipeline) Target(rec Record, req Request) (string, error) {
	if p.cfg.PrintBaseURL == "" {
		return "", newError(KindRenderFailure, "print base url is not configured", nil)
	}
	loc := req.Locale
	if parsed, ok := i18n.Parse(string(loc)); ok {
		loc = parsed
	} else {
		loc = i18n.Default
	}

	if req.Shared() {
		q := url.Values{}
		q.Set("locale", string(loc))
		return fmt.Sprintf("%s/print/share/%s?%s", p.cfg.PrintBaseURL, url.PathEscape(rec.ShareID), q.Encode()), nil
	}
	return fmt.Sprintf("%s/%s/print/%d", p.cfg.PrintBaseURL, loc, rec.ID), nil
}

// capture 在并发上限内启动独立浏览器实例，超时或取消时同样会释放浏览器。
func (p *Pipeline) capture(ctx context.Context, target string) ([]byte, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, newError(KindCanceled, "wait for capture slot", err)
	}
	defer p.sem.Release(1)

	captureCtx, cancel := context.WithTimeout(ctx, p.cfg.CaptureTimeout)
	defer cancel()

	metrics.BrowserStarted()
	defer metrics.BrowserFinished()

	session, err := p.browser.Launch(captureCtx)
	if err != nil {
		return nil, captureError(ctx, "launch browser", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			p.logger.Warn("close browser session", slog.Any("error", closeErr), slog.String("target", target))
		}
	}()

	pdfBytes, err := session.PrintPDF(captureCtx, target, PDFOptions{Format: "A4", PrintBackground: true})
	if err != nil {
		return nil, captureError(ctx, "print pdf", err)
	}
	if len(pdfBytes) == 0 {
		return nil, newError(KindRenderFailure, "print pdf", errors.New("browser returned an empty document"))
	}
	return pdfBytes, nil
}

// captureError 区分调用方取消（Canceled）与超时/浏览器故障（RenderFailure）。
func captureError(parent context.Context, msg string, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return newError(KindCanceled, msg, err)
	}
	return newError(KindRenderFailure, msg, err)
}
