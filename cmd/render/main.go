package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"cvrender/internal/export"
	"cvrender/internal/i18n"
	"cvrender/internal/page"
	"cvrender/internal/pdf"
	"cvrender/internal/resume"
	"cvrender/internal/templates"
)

// 输出格式。
const (
	formatHTML      = "html"
	formatPreview   = "preview"
	formatThumbnail = "thumbnail"
	formatPDF       = "pdf"
)

type options struct {
	in        string
	out       string
	template  string
	locale    string
	format    string
	width     float64
	driver    string
	bin       string
	timeout   time.Duration
	skipCheck bool
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "简历 JSON 文件（必填）")
	flag.StringVar(&opts.out, "out", "", "输出文件，默认写到标准输出（pdf 必须指定）")
	flag.StringVar(&opts.template, "template", "", "模板 key，默认使用简历中保存的模板")
	flag.StringVar(&opts.locale, "locale", string(i18n.Default), "输出语言：en 或 ru")
	flag.StringVar(&opts.format, "format", formatHTML, "html | preview | thumbnail | pdf")
	flag.Float64Var(&opts.width, "width", 240, "缩略图容器宽度（px）")
	flag.StringVar(&opts.driver, "driver", "rod", "pdf 驱动：rod 或 chromedp")
	flag.StringVar(&opts.bin, "chrome-bin", os.Getenv("CHROME_BIN"), "Chromium 可执行文件，为空时自动查找")
	flag.DurationVar(&opts.timeout, "timeout", 60*time.Second, "pdf 捕获超时")
	flag.BoolVar(&opts.skipCheck, "skip-validate", false, "跳过 JSON schema 校验")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("render: %v", err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	if strings.TrimSpace(opts.in) == "" {
		return errors.New("missing required flag: -in")
	}
	loc, ok := i18n.Parse(opts.locale)
	if !ok {
		return fmt.Errorf("unsupported locale %q", opts.locale)
	}
	if opts.template != "" && !templates.Known(opts.template) {
		return fmt.Errorf("unknown template %q", opts.template)
	}

	raw, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if !opts.skipCheck {
		if err := resume.Validate(raw); err != nil {
			return err
		}
	}
	doc, err := resume.Decode(raw)
	if err != nil {
		return err
	}
	if opts.template != "" {
		doc.TemplateKey = opts.template
	}

	tree := templates.Render(doc, loc)
	title := export.Record{Resume: doc, Title: filepath.Base(opts.in)}.DisplayName()

	switch opts.format {
	case formatHTML:
		return writeOutput(opts.out, stdout, func(w io.Writer) error {
			return page.Print(w, tree, page.PrintOptions{Title: title, Locale: loc})
		})
	case formatPreview:
		return writeOutput(opts.out, stdout, func(w io.Writer) error {
			return page.Preview(w, tree, page.PreviewOptions{Title: title, Locale: loc})
		})
	case formatThumbnail:
		if opts.width <= 0 {
			return errors.New("width must be positive")
		}
		return writeOutput(opts.out, stdout, func(w io.Writer) error {
			return page.Preview(w, page.Thumbnail(tree, opts.width, 0, 0), page.PreviewOptions{
				Title:      title,
				Locale:     loc,
				Background: "transparent",
			})
		})
	case formatPDF:
		if opts.out == "" {
			return errors.New("pdf output requires -out")
		}
		return renderPDF(ctx, opts, func(w io.Writer) error {
			return page.Print(w, tree, page.PrintOptions{Title: title, Locale: loc})
		})
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

func writeOutput(path string, stdout io.Writer, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// renderPDF 把打印页写到临时文件，再由无头浏览器通过 file:// 打开并打印。
func renderPDF(ctx context.Context, opts options, render func(io.Writer) error) error {
	dir, err := os.MkdirTemp("", "cvrender-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	htmlPath := filepath.Join(dir, "print.html")
	if err := writeOutput(htmlPath, nil, render); err != nil {
		return err
	}

	browser, err := pdf.New(opts.driver, pdf.Options{Bin: opts.bin})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	session, err := browser.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer session.Close()

	data, err := session.PrintPDF(ctx, "file://"+filepath.ToSlash(htmlPath), export.PDFOptions{Format: "A4", PrintBackground: true})
	if err != nil {
		return fmt.Errorf("print pdf: %w", err)
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
