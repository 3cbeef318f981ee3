// Package pdf 提供无头浏览器驱动：go-rod（默认）和 chromedp。
// 每次 Launch 都启动独立的浏览器进程，调用方负责 Close。
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cvrender/internal/export"
)

// ReadySelector 是打印页渲染完成的标记。
const ReadySelector = "#pdf-render-ready"

const (
	defaultReadyTimeout  = 30 * time.Second
	defaultSettleTimeout = 5 * time.Second
)

// Options is shared by both drivers.
type Options struct {
	// Bin 为空时自动查找本机 Chromium。
	Bin string
	// Headers are sent with every request the page makes, e.g. the internal
	// secret that authorizes the print route.
	Headers map[string]string
	// ReadyTimeout bounds the wait for ReadySelector.
	ReadyTimeout time.Duration
	// SettleTimeout bounds the network/idle wait after the page is ready.
	SettleTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = defaultReadyTimeout
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = defaultSettleTimeout
	}
	return o
}

type paperSize struct {
	width  float64
	height float64
}

// 纸张尺寸（英寸）。
var paperSizes = map[string]paperSize{
	"A4":     {width: 8.27, height: 11.69},
	"A5":     {width: 5.83, height: 8.27},
	"LETTER": {width: 8.5, height: 11},
}

func paperFor(opts export.PDFOptions) (paperSize, error) {
	format := strings.ToUpper(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "A4"
	}
	size, ok := paperSizes[format]
	if !ok {
		return paperSize{}, fmt.Errorf("unsupported paper format %q", opts.Format)
	}
	return size, nil
}

// headerPairs flattens headers into the key/value list rod expects, sorted
// by key.
func headerPairs(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, headers[k])
	}
	return pairs
}

// New builds the driver named by driver ("rod" or "chromedp").
func New(driver string, opts Options) (export.Browser, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "rod":
		return NewRodBrowser(opts), nil
	case "chromedp":
		return NewChromedpBrowser(opts), nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", driver)
	}
}

// Screenshotter captures a JPEG preview of a print page. Both drivers implement it.
type Screenshotter interface {
	Screenshot(ctx context.Context, url string, quality int) ([]byte, error)
}

var (
	_ Screenshotter = (*RodBrowser)(nil)
	_ Screenshotter = (*ChromedpBrowser)(nil)
)
