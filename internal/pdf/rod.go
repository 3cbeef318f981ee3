package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"cvrender/internal/export"
)

// RodBrowser launches Chromium through go-rod.
type RodBrowser struct {
	opts Options
}

func NewRodBrowser(opts Options) *RodBrowser {
	return &RodBrowser{opts: opts.withDefaults()}
}

// Launch starts a fresh browser process. The returned session owns it.
func (b *RodBrowser) Launch(ctx context.Context) (export.Session, error) {
	return b.launch(ctx)
}

func (b *RodBrowser) launch(ctx context.Context) (_ *rodSession, err error) {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	defer func() {
		if err != nil {
			l.Kill()
			l.Cleanup()
		}
	}()

	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return &rodSession{opts: b.opts, launcher: l, browser: browser}, nil
}

// Screenshot captures the rendered resume canvas at url as JPEG.
func (b *RodBrowser) Screenshot(ctx context.Context, url string, quality int) ([]byte, error) {
	s, err := b.launch(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	page, err := s.open(ctx, url)
	if err != nil {
		return nil, err
	}
	el, err := page.Element("[data-template]")
	if err == nil {
		if data, shotErr := el.Screenshot(proto.PageCaptureScreenshotFormatJpeg, quality); shotErr == nil {
			return data, nil
		}
	}
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: intPtr(quality),
	})
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}
	return data, nil
}

type rodSession struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// open 打开打印页：注入请求头、等待 load、就绪标记和空闲，每一步都有超时。
func (s *rodSession) open(ctx context.Context, url string) (*rod.Page, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if pairs := headerPairs(s.opts.Headers); len(pairs) > 0 {
		if _, err := page.SetExtraHeaders(pairs); err != nil {
			return nil, fmt.Errorf("set extra headers: %w", err)
		}
	}

	if err := page.Timeout(s.opts.ReadyTimeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Timeout(s.opts.ReadyTimeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	if _, err := page.Timeout(s.opts.ReadyTimeout).Element(ReadySelector); err != nil {
		return nil, fmt.Errorf("wait for %s: %w", ReadySelector, err)
	}
	if err := page.Timeout(s.opts.SettleTimeout).WaitIdle(s.opts.SettleTimeout); err != nil {
		return nil, fmt.Errorf("wait idle: %w", err)
	}
	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, fmt.Errorf("set emulated media to print: %w", err)
	}
	return page, nil
}

func (s *rodSession) PrintPDF(ctx context.Context, url string, opts export.PDFOptions) ([]byte, error) {
	paper, err := paperFor(opts)
	if err != nil {
		return nil, err
	}
	page, err := s.open(ctx, url)
	if err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   opts.PrintBackground,
		PaperWidth:        float64Ptr(paper.width),
		PaperHeight:       float64Ptr(paper.height),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}

// Close 依次关闭页面、浏览器并清理进程，即使 context 已经取消也会执行。
func (s *rodSession) Close() error {
	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if err := s.browser.Close(); err != nil && !errors.Is(err, context.Canceled) {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	return errors.Join(errs...)
}

func float64Ptr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}
