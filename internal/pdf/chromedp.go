package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"cvrender/internal/export"
)

// ChromedpBrowser launches Chromium through chromedp's exec allocator.
type ChromedpBrowser struct {
	opts Options
}

func NewChromedpBrowser(opts Options) *ChromedpBrowser {
	return &ChromedpBrowser{opts: opts.withDefaults()}
}

func (b *ChromedpBrowser) Launch(ctx context.Context) (export.Session, error) {
	return b.launch(ctx)
}

func (b *ChromedpBrowser) launch(ctx context.Context) (*chromedpSession, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.NoSandbox, chromedp.Flag("headless", true))
	if b.opts.Bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.Bin))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	// 空的 Run 会真正启动浏览器进程。
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &chromedpSession{
		opts:          b.opts,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

type chromedpSession struct {
	opts          Options
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

func (s *chromedpSession) PrintPDF(ctx context.Context, url string, opts export.PDFOptions) ([]byte, error) {
	paper, err := paperFor(opts)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = s.run(ctx, url, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdf, _, err = page.PrintToPDF().
			WithPrintBackground(opts.PrintBackground).
			WithPaperWidth(paper.width).
			WithPaperHeight(paper.height).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("chromium pdf render: %w", err)
	}
	return pdf, nil
}

// run 在新标签页中打开 url，等待就绪标记和网络空闲后执行 final。
func (s *chromedpSession) run(ctx context.Context, url string, final chromedp.Action) error {
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()

	headers := network.Headers{}
	for k, v := range s.opts.Headers {
		headers[k] = v
	}

	idle := newIdleWatch()
	chromedp.ListenTarget(execCtx, idle.handle)

	actions := []chromedp.Action{network.Enable(), page.SetLifecycleEventsEnabled(true)}
	if len(headers) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}
	actions = append(actions,
		chromedp.Navigate(url),
		withTimeout(s.opts.ReadyTimeout, chromedp.WaitReady(ReadySelector, chromedp.ByQuery)),
		withTimeout(s.opts.SettleTimeout, idle.wait()),
		final,
	)
	return chromedp.Run(execCtx, actions...)
}

// Screenshot captures the print page at url as a full-page JPEG.
func (b *ChromedpBrowser) Screenshot(ctx context.Context, url string, quality int) ([]byte, error) {
	s, err := b.launch(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var buf []byte
	if err := s.run(ctx, url, chromedp.FullScreenshot(&buf, quality)); err != nil {
		return nil, fmt.Errorf("chromium screenshot: %w", err)
	}
	return buf, nil
}

func (s *chromedpSession) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}

// idleWatch 记录主文档最近一次导航是否已到达 networkIdle。
// 新的 init 事件表示重新导航，状态随之重置。
type idleWatch struct {
	mu   sync.Mutex
	ch   chan struct{}
	idle bool
}

func newIdleWatch() *idleWatch {
	return &idleWatch{ch: make(chan struct{})}
}

func (w *idleWatch) handle(ev any) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch e.Name {
	case "init":
		if w.idle {
			w.ch = make(chan struct{})
			w.idle = false
		}
	case "networkIdle":
		if !w.idle {
			close(w.ch)
			w.idle = true
		}
	}
}

func (w *idleWatch) done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ch
}

// wait blocks until networkIdle; a timeout is a capture error.
func (w *idleWatch) wait() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		select {
		case <-w.done():
			return nil
		case <-ctx.Done():
			return fmt.Errorf("wait network idle: %w", ctx.Err())
		}
	})
}

// withTimeout bounds a single action.
func withTimeout(d time.Duration, action chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		bounded, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return action.Do(bounded)
	})
}
