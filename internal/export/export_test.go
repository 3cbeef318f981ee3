package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cvrender/internal/i18n"
	"cvrender/internal/resume"
)

type fakeStore struct {
	byID    map[uint]Record
	byShare map[string]Record
	err     error
}

func (s *fakeStore) Get(_ context.Context, id uint) (Record, error) {
	if s.err != nil {
		return Record{}, s.err
	}
	rec, ok := s.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *fakeStore) GetByShareID(_ context.Context, shareID string) (Record, error) {
	rec, ok := s.byShare[shareID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

type fakeBrowser struct {
	pdf       []byte
	printErr  error
	launchErr error
	block     bool

	launched atomic.Int32
	closed   atomic.Int32
	active   atomic.Int32
	peak     atomic.Int32

	mu   sync.Mutex
	urls []string
}

func (b *fakeBrowser) Launch(context.Context) (Session, error) {
	if b.launchErr != nil {
		return nil, b.launchErr
	}
	b.launched.Add(1)
	n := b.active.Add(1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return &fakeSession{browser: b}, nil
}

type fakeSession struct {
	browser *fakeBrowser
}

func (s *fakeSession) PrintPDF(ctx context.Context, url string, opts PDFOptions) ([]byte, error) {
	b := s.browser
	b.mu.Lock()
	b.urls = append(b.urls, url)
	b.mu.Unlock()
	if opts.Format != "A4" || !opts.PrintBackground {
		return nil, errors.New("unexpected pdf options")
	}
	if b.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if b.printErr != nil {
		return nil, b.printErr
	}
	return b.pdf, nil
}

func (s *fakeSession) Close() error {
	s.browser.active.Add(-1)
	s.browser.closed.Add(1)
	return nil
}

func testStore() *fakeStore {
	owned := Record{
		ID:      7,
		OwnerID: 1,
		Resume:  resume.Resume{LastName: "Иванова", FirstName: "Анна"},
	}
	shared := Record{ID: 8, OwnerID: 2, ShareID: "share-on", IsShared: true, Title: "Public CV"}
	private := Record{ID: 9, OwnerID: 2, ShareID: "share-off", IsShared: false, Title: "Old CV"}
	return &fakeStore{
		byID:    map[uint]Record{7: owned, 8: shared, 9: private},
		byShare: map[string]Record{"share-on": shared, "share-off": private},
	}
}

func newTestPipeline(store Store, browser Browser) *Pipeline {
	return NewPipeline(store, browser, Config{
		PrintBaseURL:   "http://frontend:3000/",
		MaxConcurrent:  2,
		CaptureTimeout: time.Second,
	}, nil)
}

func TestExportOwnerRoute(t *testing.T) {
	browser := &fakeBrowser{pdf: []byte("%PDF-1.7")}
	p := newTestPipeline(testStore(), browser)

	res, err := p.Export(context.Background(), Request{ResumeID: 7, OwnerID: 1, Locale: i18n.RU})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.ContentType != "application/pdf" || string(res.PDF) != "%PDF-1.7" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Filename != "Иванова-Анна.pdf" {
		t.Errorf("filename = %q", res.Filename)
	}
	if got := browser.urls[0]; got != "http://frontend:3000/ru/print/7" {
		t.Errorf("target = %q", got)
	}
	if browser.closed.Load() != 1 {
		t.Error("browser session not closed")
	}
}

func TestExportShareRoute(t *testing.T) {
	browser := &fakeBrowser{pdf: []byte("%PDF")}
	p := newTestPipeline(testStore(), browser)

	res, err := p.Export(context.Background(), Request{ShareID: "share-on", Locale: "xx"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := browser.urls[0]; got != "http://frontend:3000/print/share/share-on?locale=en" {
		t.Errorf("target = %q", got)
	}
	if res.Filename != "Public-CV.pdf" {
		t.Errorf("filename = %q", res.Filename)
	}
}

func TestExportUnsharedRecordIsNotFound(t *testing.T) {
	browser := &fakeBrowser{pdf: []byte("%PDF")}
	p := newTestPipeline(testStore(), browser)

	_, err := p.Export(context.Background(), Request{ShareID: "share-off"})
	if KindOf(err) != KindNotFound || StatusCode(err) != http.StatusNotFound {
		t.Fatalf("want not found, got %v", err)
	}
	if browser.launched.Load() != 0 {
		t.Fatal("browser must not start for an unshared record")
	}
}

func TestExportOwnerMismatchIsNotFound(t *testing.T) {
	p := newTestPipeline(testStore(), &fakeBrowser{pdf: []byte("%PDF")})
	_, err := p.Export(context.Background(), Request{ResumeID: 7, OwnerID: 99})
	if KindOf(err) != KindNotFound {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestExportUnknownIDIsNotFound(t *testing.T) {
	p := newTestPipeline(testStore(), &fakeBrowser{pdf: []byte("%PDF")})
	_, err := p.Export(context.Background(), Request{ResumeID: 404})
	if KindOf(err) != KindNotFound || !errors.Is(err, ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestExportInvalidRequest(t *testing.T) {
	p := newTestPipeline(testStore(), &fakeBrowser{})
	for _, req := range []Request{{}, {ResumeID: 7, ShareID: "share-on"}} {
		_, err := p.Export(context.Background(), req)
		if StatusCode(err) != http.StatusBadRequest {
			t.Errorf("%+v: want 400, got %v", req, err)
		}
	}
}

func TestExportStoreFailureIsRenderFailure(t *testing.T) {
	store := testStore()
	store.err = errors.New("connection refused")
	_, err := newTestPipeline(store, &fakeBrowser{}).Export(context.Background(), Request{ResumeID: 7})
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("want 500, got %v", err)
	}
}

func TestExportCaptureFailureReleasesBrowser(t *testing.T) {
	browser := &fakeBrowser{printErr: errors.New("navigation timeout")}
	p := newTestPipeline(testStore(), browser)

	res, err := p.Export(context.Background(), Request{ResumeID: 7, OwnerID: 1})
	if res != nil {
		t.Fatal("no partial result may be returned")
	}
	var exportErr *Error
	if !errors.As(err, &exportErr) || exportErr.Kind != KindRenderFailure {
		t.Fatalf("want render failure, got %v", err)
	}
	if exportErr.ID != "7" || !strings.HasSuffix(exportErr.Target, "/en/print/7") {
		t.Errorf("error lacks context: %+v", exportErr)
	}
	if browser.closed.Load() != 1 {
		t.Fatal("browser must be released after a failed capture")
	}
}

func TestExportEmptyPDFIsRenderFailure(t *testing.T) {
	browser := &fakeBrowser{pdf: nil}
	_, err := newTestPipeline(testStore(), browser).Export(context.Background(), Request{ResumeID: 7})
	if KindOf(err) != KindRenderFailure {
		t.Fatalf("want render failure, got %v", err)
	}
	if browser.closed.Load() != 1 {
		t.Fatal("browser not released")
	}
}

func TestExportLaunchFailure(t *testing.T) {
	browser := &fakeBrowser{launchErr: errors.New("chrome not found")}
	_, err := newTestPipeline(testStore(), browser).Export(context.Background(), Request{ResumeID: 7})
	if KindOf(err) != KindRenderFailure {
		t.Fatalf("want render failure, got %v", err)
	}
}

func TestExportTimeoutIsRenderFailure(t *testing.T) {
	browser := &fakeBrowser{block: true}
	p := NewPipeline(testStore(), browser, Config{PrintBaseURL: "http://frontend", CaptureTimeout: 20 * time.Millisecond}, nil)

	_, err := p.Export(context.Background(), Request{ResumeID: 7})
	if KindOf(err) != KindRenderFailure {
		t.Fatalf("want render failure on timeout, got %v", err)
	}
	if browser.closed.Load() != 1 {
		t.Fatal("browser not released after timeout")
	}
}

func TestExportCancellationReleasesBrowser(t *testing.T) {
	browser := &fakeBrowser{block: true}
	p := NewPipeline(testStore(), browser, Config{PrintBaseURL: "http://frontend", CaptureTimeout: time.Minute}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Export(ctx, Request{ResumeID: 7})
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for browser.launched.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if KindOf(err) != KindCanceled || StatusCode(err) != StatusClientClosedRequest {
			t.Fatalf("want canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("export did not return after cancellation")
	}
	if browser.closed.Load() != 1 {
		t.Fatal("browser must be released on cancellation")
	}
}

func TestExportBoundsConcurrentBrowsers(t *testing.T) {
	browser := &fakeBrowser{pdf: []byte("%PDF")}
	slow := &slowBrowser{fakeBrowser: browser, delay: 20 * time.Millisecond}
	p := NewPipeline(testStore(), slow, Config{PrintBaseURL: "http://frontend", MaxConcurrent: 2}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Export(context.Background(), Request{ResumeID: 7}); err != nil {
				t.Errorf("Export: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak := browser.peak.Load(); peak > 2 {
		t.Fatalf("peak concurrent browsers = %d, want <= 2", peak)
	}
	if browser.closed.Load() != 6 {
		t.Fatalf("closed = %d, want 6", browser.closed.Load())
	}
}

type slowBrowser struct {
	*fakeBrowser
	delay time.Duration
}

func (b *slowBrowser) Launch(ctx context.Context) (Session, error) {
	s, err := b.fakeBrowser.Launch(ctx)
	if err != nil {
		return nil, err
	}
	time.Sleep(b.delay)
	return s, nil
}

func TestExportLogsResumeAndTarget(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	browser := &fakeBrowser{printErr: errors.New("boom")}
	p := NewPipeline(testStore(), browser, Config{PrintBaseURL: "http://frontend", CaptureTimeout: time.Second}, logger)

	if _, err := p.Export(context.Background(), Request{ResumeID: 7, OwnerID: 1, Locale: i18n.EN}); err == nil {
		t.Fatal("expected capture failure")
	}

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var e map[string]any
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if e["msg"] == "pdf capture failed" {
			entry = e
		}
	}
	if entry == nil {
		t.Fatalf("no capture failure logged: %s", buf.String())
	}
	if entry["component"] != "export" || entry["resume_id"] != float64(7) ||
		entry["target"] != "http://frontend/en/print/7" || !strings.Contains(entry["error"].(string), "boom") {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestTargetRequiresBaseURL(t *testing.T) {
	p := NewPipeline(testStore(), &fakeBrowser{}, Config{}, nil)
	_, err := p.Export(context.Background(), Request{ResumeID: 7})
	if KindOf(err) != KindRenderFailure {
		t.Fatalf("want render failure, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	long := strings.Repeat("я", 100)
	cases := []struct {
		name, display, id, want string
	}{
		{"plain", "Anna Ivanova", "7", "Anna-Ivanova.pdf"},
		{"unsafe characters", `  A/B\C:D*E?"F<G>H|  `, "7", "ABCDEFGH.pdf"},
		{"whitespace runs", "Anna \t\n  Ivanova - CV", "7", "Anna-Ivanova-CV.pdf"},
		{"nfc", "José", "7", "José.pdf"},
		{"empty falls back to id", "   ", "42", "resume-42.pdf"},
		{"only unsafe", "///", "42", "resume-42.pdf"},
		{"no id", "", "", "resume.pdf"},
		{"capped", long, "1", strings.Repeat("я", MaxFilenameRunes) + ".pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Filename(tc.display, tc.id); got != tc.want {
				t.Fatalf("Filename(%q, %q) = %q, want %q", tc.display, tc.id, got, tc.want)
			}
		})
	}
}

func TestContentDisposition(t *testing.T) {
	got := ContentDisposition("Иванова.pdf")
	want := `attachment; filename="_______.pdf"; filename*=UTF-8''%D0%98%D0%B2%D0%B0%D0%BD%D0%BE%D0%B2%D0%B0.pdf`
	if got != want {
		t.Fatalf("ContentDisposition = %q", got)
	}
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{newError(KindNotFound, "x", nil), http.StatusNotFound},
		{newError(KindInvalid, "x", nil), http.StatusBadRequest},
		{newError(KindRenderFailure, "x", nil), http.StatusInternalServerError},
		{newError(KindCanceled, "x", nil), StatusClientClosedRequest},
		{context.Canceled, StatusClientClosedRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusCode(tc.err); got != tc.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
