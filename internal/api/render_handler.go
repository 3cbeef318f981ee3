package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"cvrender/internal/api/middleware"
	"cvrender/internal/export"
	"cvrender/internal/i18n"
	"cvrender/internal/page"
	"cvrender/internal/resume"
	"cvrender/internal/templates"
)

const (
	htmlContentType       = "text/html; charset=utf-8"
	defaultThumbnailWidth = 240
	maxThumbnailWidth     = 1600
)

// RenderHandler 输出打印页、预览页和缩略图，这些页面只包含简历本身，没有交互控件。
type RenderHandler struct {
	store export.Store
}

func NewRenderHandler(store export.Store) *RenderHandler {
	return &RenderHandler{store: store}
}

type templateItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// ListTemplates 返回已注册的模板。
func (h *RenderHandler) ListTemplates(c *gin.Context) {
	loc := requestLocale(c)
	all := templates.All()
	items := make([]templateItem, 0, len(all))
	for _, t := range all {
		items = append(items, templateItem{Key: t.Key, Title: t.Title(loc)})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "default": templates.DefaultKey})
}

// OwnerPrint 返回 /<locale>/print/<id> 打印页。内部调用方（导出浏览器）可以打开任意简历，
// 普通用户只能打开自己的。
func (h *RenderHandler) OwnerPrint(loc i18n.Locale) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseResumeID(c.Param("id"))
		if err != nil {
			NotFound(c, "resume not found")
			return
		}
		req := export.Request{ResumeID: id, Locale: loc}
		if !middleware.IsInternalCaller(c) {
			userID, ok := middleware.UserID(c)
			if !ok {
				AbortUnauthorized(c)
				return
			}
			req.OwnerID = userID
		}
		h.print(c, req)
	}
}

// SharePrint 返回公开分享的打印页，只对已开启分享的简历可用。
func (h *RenderHandler) SharePrint(c *gin.Context) {
	h.print(c, export.Request{
		ShareID: strings.TrimSpace(c.Param("shareId")),
		Locale:  requestLocale(c),
	})
}

func (h *RenderHandler) print(c *gin.Context, req export.Request) {
	c.Header("Cache-Control", "no-store")
	c.Header("X-Robots-Tag", "noindex")

	rec, err := export.ResolveRecord(c.Request.Context(), h.store, req)
	if err != nil {
		ExportError(c, err)
		return
	}

	doc := templates.Render(rec.Resume, req.Locale)
	var buf bytes.Buffer
	if err := page.Print(&buf, doc, page.PrintOptions{Title: rec.DisplayName(), Locale: req.Locale}); err != nil {
		middleware.LoggerFromContext(c).Error("render print page", slog.Any("error", err), slog.Uint64("resume_id", uint64(rec.ID)))
		Internal(c, "failed to render print page")
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// Preview 渲染完整尺寸的预览页；?template= 可以临时切换模板而不修改保存的数据。
func (h *RenderHandler) Preview(c *gin.Context) {
	rec, loc, ok := h.ownedRecord(c)
	if !ok {
		return
	}
	doc := layoutFor(rec.Resume, c.Query("template"), loc)
	h.writePreview(c, doc, rec, loc, "")
}

// Thumbnail 渲染按容器宽度缩放的缩略图，保留完整 A4 排版。
func (h *RenderHandler) Thumbnail(c *gin.Context) {
	width, err := floatQuery(c, "width", defaultThumbnailWidth)
	// width=0 表示容器尚未测量，按 page.FallbackScale 缩放。
	if err != nil || width < 0 || width > maxThumbnailWidth {
		BadRequest(c, "invalid width")
		return
	}
	padding, err := floatQuery(c, "padding", 0)
	if err != nil || padding < 0 {
		BadRequest(c, "invalid padding")
		return
	}

	rec, loc, ok := h.ownedRecord(c)
	if !ok {
		return
	}
	doc := layoutFor(rec.Resume, c.Query("template"), loc)
	h.writePreview(c, page.Thumbnail(doc, width, padding, 0), rec, loc, "transparent")
}

func (h *RenderHandler) writePreview(c *gin.Context, doc *html.Node, rec export.Record, loc i18n.Locale, background string) {
	var buf bytes.Buffer
	err := page.Preview(&buf, doc, page.PreviewOptions{
		Title:      rec.DisplayName(),
		Locale:     loc,
		Background: background,
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("render preview", slog.Any("error", err), slog.Uint64("resume_id", uint64(rec.ID)))
		Internal(c, "failed to render preview")
		return
	}
	c.Header("Cache-Control", "private, no-cache")
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (h *RenderHandler) ownedRecord(c *gin.Context) (export.Record, i18n.Locale, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		AbortUnauthorized(c)
		return export.Record{}, "", false
	}
	id, err := parseResumeID(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid resume id")
		return export.Record{}, "", false
	}
	rec, err := export.ResolveRecord(c.Request.Context(), h.store, export.Request{ResumeID: id, OwnerID: userID})
	if err != nil {
		ExportError(c, err)
		return export.Record{}, "", false
	}
	return rec, requestLocale(c), true
}

// layoutFor 使用 override 指定的模板（未知值忽略），否则使用简历保存的模板。
func layoutFor(r resume.Resume, override string, loc i18n.Locale) *html.Node {
	if templates.Known(override) {
		return templates.Resolve(override).Layout(r, loc, r.Accent())
	}
	return templates.Render(r, loc)
}

func floatQuery(c *gin.Context, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be finite", key)
	}
	return v, nil
}
