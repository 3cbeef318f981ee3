package export

import (
	"context"
	"errors"

	"cvrender/internal/i18n"
	"cvrender/internal/resume"
)

// ErrNotFound is returned by a Store when no record matches.
var ErrNotFound = errors.New("resume not found")

// Record 是导出流程需要的简历快照。
type Record struct {
	ID       uint
	OwnerID  uint
	ShareID  string
	IsShared bool
	Title    string
	Resume   resume.Resume
}

// DisplayName is the name used for the download filename.
func (r Record) DisplayName() string {
	if name := r.Resume.FullName(); name != "" {
		return name
	}
	return r.Title
}

// Store loads records for export and print routes.
type Store interface {
	Get(ctx context.Context, id uint) (Record, error)
	GetByShareID(ctx context.Context, shareID string) (Record, error)
}

// Request selects a record either by id (owner route) or by share id
// (public route). Exactly one of ResumeID and ShareID must be set.
type Request struct {
	ResumeID uint
	ShareID  string
	OwnerID  uint
	Locale   i18n.Locale
}

// Shared reports whether the request came through a public share link.
func (r Request) Shared() bool {
	return r.ShareID != ""
}

// Result is a finished PDF.
type Result struct {
	Filename    string
	PDF         []byte
	ContentType string
}

// PDFOptions controls the browser print call.
type PDFOptions struct {
	Format          string
	PrintBackground bool
}

// Browser starts an isolated headless browser for one capture.
type Browser interface {
	Launch(ctx context.Context) (Session, error)
}

// Session 是一次捕获独占的浏览器实例，无论成功与否都必须 Close。
type Session interface {
	PrintPDF(ctx context.Context, url string, opts PDFOptions) ([]byte, error)
	Close() error
}
