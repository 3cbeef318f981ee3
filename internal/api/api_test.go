package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cvrender/internal/api/middleware"
	"cvrender/internal/auth"
	"cvrender/internal/database"
	"cvrender/internal/export"
	"cvrender/internal/scan"
	"cvrender/internal/storage"
	"cvrender/internal/tasks"
)

const testSecret = "internal-secret"

type fakeValidator map[string]uint

func (f fakeValidator) ValidateToken(token string) (*auth.TokenClaims, error) {
	id, ok := f[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.TokenClaims{UserID: id, TokenType: auth.TokenTypeAccess}, nil
}

type fakeExporter struct {
	result *export.Result
	err    error
	reqs   []export.Request
}

func (f *fakeExporter) Export(_ context.Context, req export.Request) (*export.Result, error) {
	f.reqs = append(f.reqs, req)
	return f.result, f.err
}

type fakeQueue struct {
	tasks []*asynq.Task
}

func (f *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type fakeSigner struct {
	missing bool
	key     string
	params  map[string]string
}

func (f *fakeSigner) ObjectExists(_ context.Context, _ string) (bool, error) {
	return !f.missing, nil
}

func (f *fakeSigner) GeneratePresignedURLWithParams(_ context.Context, key string, _ time.Duration, params map[string]string) (string, error) {
	f.key = key
	f.params = params
	return "https://minio.example/" + key, nil
}

type fakeScanner struct {
	err error
}

func (f fakeScanner) Scan(_ context.Context, _ io.Reader) error {
	return f.err
}

type fakeCounter struct {
	counts map[string]int64
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeCounter) Expire(ctx context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

type testEnv struct {
	router   *gin.Engine
	repo     *database.ResumeRepository
	exporter *fakeExporter
	queue    *fakeQueue
	signer   *fakeSigner
}

func newTestRepo(t *testing.T) *database.ResumeRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return database.NewResumeRepository(db)
}

func newTestEnv(t *testing.T, mutate func(*Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		repo: newTestRepo(t),
		exporter: &fakeExporter{result: &export.Result{
			Filename:    "Иванов-Иван.pdf",
			PDF:         []byte("%PDF-1.7"),
			ContentType: export.ContentTypePDF,
		}},
		queue:  &fakeQueue{},
		signer: &fakeSigner{},
	}
	deps := Deps{
		Repo:           env.repo,
		Exporter:       env.exporter,
		Queue:          env.queue,
		Signer:         env.signer,
		Auth:           fakeValidator{"alice": 1, "bob": 2},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		InternalSecret: testSecret,
		PublicBaseURL:  "https://cv.example.com/",
	}
	if mutate != nil {
		mutate(&deps)
	}

	env.router = NewRouter(deps.Logger)
	RegisterRoutes(env.router, deps)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seed(t *testing.T, owner uint, content string) *database.Resume {
	t.Helper()
	rec, err := e.repo.Create(context.Background(), owner, "CV", []byte(content))
	if err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	return rec
}

func TestSharePrint(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	rec := env.seed(t, 1, `{"firstName":"Ivan","lastName":"Ivanov","position":"Backend"}`)

	shared, err := env.repo.SetShared(ctx, rec.ID, 1, true)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	shareID := shared.ShareIDValue()

	w := env.do(t, http.MethodGet, "/print/share/"+shareID+"?locale=ru", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
	body := w.Body.String()
	for _, want := range []string{`data-template="classic"`, "pdf-render-ready", `lang="ru"`, "Ivanov Ivan"} {
		if !strings.Contains(body, want) {
			t.Fatalf("print page missing %q", want)
		}
	}

	// 关闭分享后同一个链接返回 404。
	if _, err := env.repo.SetShared(ctx, rec.ID, 1, false); err != nil {
		t.Fatalf("unshare: %v", err)
	}
	w = env.do(t, http.MethodGet, "/print/share/"+shareID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unshared resume, got %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
}

func TestOwnerPrintAccess(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.seed(t, 1, `{"firstName":"Ivan"}`)
	path := "/en/print/" + itoa(rec.ID)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.InternalSecretHeader, testSecret)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("internal caller: expected 200 got %d", w.Code)
	}

	if w := env.do(t, http.MethodGet, path, "alice", nil); w.Code != http.StatusOK {
		t.Fatalf("owner: expected 200 got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, "bob", nil); w.Code != http.StatusNotFound {
		t.Fatalf("other user: expected 404 got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401 got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.InternalSecretHeader, "wrong")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: expected 401 got %d", w.Code)
	}

	if w := env.do(t, http.MethodGet, "/de/print/"+itoa(rec.ID), "alice", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unsupported locale: expected 404 got %d", w.Code)
	}
}

func TestExportPDFHeaders(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/v1/resume/5/pdf?locale=ru", "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != export.ContentTypePDF {
		t.Fatalf("Content-Type = %q", got)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, "attachment;") || !strings.Contains(disposition, "filename*=UTF-8''") {
		t.Fatalf("Content-Disposition = %q", disposition)
	}
	if w.Body.String() != "%PDF-1.7" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	if len(env.exporter.reqs) != 1 {
		t.Fatalf("expected one export, got %d", len(env.exporter.reqs))
	}
	req := env.exporter.reqs[0]
	if req.ResumeID != 5 || req.OwnerID != 1 || req.Locale != "ru" || req.ShareID != "" {
		t.Fatalf("unexpected export request %+v", req)
	}
}

func TestExportPDFErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: &export.Error{Kind: export.KindNotFound, Msg: "resume not found"}, want: http.StatusNotFound},
		{name: "render failure", err: &export.Error{Kind: export.KindRenderFailure, Msg: "print pdf"}, want: http.StatusInternalServerError},
		{name: "canceled", err: &export.Error{Kind: export.KindCanceled, Msg: "print pdf"}, want: export.StatusClientClosedRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.exporter.err = tt.err
			env.exporter.result = nil

			w := env.do(t, http.MethodGet, "/v1/resume/5/pdf", "alice", nil)
			if w.Code != tt.want {
				t.Fatalf("expected %d got %d", tt.want, w.Code)
			}
			if strings.Contains(w.Body.String(), "%PDF") {
				t.Fatal("error response must not contain pdf bytes")
			}
		})
	}
}

func TestSharePDF(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/v1/share/abc/pdf", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if req := env.exporter.reqs[0]; req.ShareID != "abc" || req.ResumeID != 0 || req.OwnerID != 0 {
		t.Fatalf("unexpected export request %+v", req)
	}
}

func TestExportRateLimit(t *testing.T) {
	counter := &fakeCounter{}
	env := newTestEnv(t, func(d *Deps) {
		d.Limiter = NewRateLimiter(counter, 2, time.Hour)
	})

	for i := 0; i < 2; i++ {
		if w := env.do(t, http.MethodGet, "/v1/resume/5/pdf", "alice", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, w.Code)
		}
	}
	if w := env.do(t, http.MethodGet, "/v1/resume/5/pdf", "alice", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
	// 其他用户有独立的计数。
	if w := env.do(t, http.MethodGet, "/v1/resume/5/pdf", "bob", nil); w.Code != http.StatusOK {
		t.Fatalf("other user: expected 200 got %d", w.Code)
	}
	if len(env.exporter.reqs) != 3 {
		t.Fatalf("limited request must not reach the exporter, got %d exports", len(env.exporter.reqs))
	}
}

func TestCreateAndUpdateResume(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/v1/resume", "alice", gin.H{
		"title":   "Backend",
		"content": gin.H{"firstName": "Ivan", "techSkills": gin.H{"tags": []string{"Go"}}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created resumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = env.do(t, http.MethodPut, "/v1/resume/"+itoa(created.ID), "alice", gin.H{
		"title":   "Backend v2",
		"content": gin.H{"firstName": "Ivan", "position": "Lead"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	if w := env.do(t, http.MethodGet, "/v1/resume/"+itoa(created.ID), "bob", nil); w.Code != http.StatusNotFound {
		t.Fatalf("other user: expected 404 got %d", w.Code)
	}
	if w := env.do(t, http.MethodPut, "/v1/resume/"+itoa(created.ID), "alice", gin.H{
		"content": gin.H{"includePhoto": "yes"},
	}); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid document: expected 400 got %d", w.Code)
	}
}

func TestCreateResumeScansPhoto(t *testing.T) {
	photo := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n"))
	body := gin.H{"title": "CV", "content": gin.H{"includePhoto": true, "photo": photo}}

	env := newTestEnv(t, func(d *Deps) { d.Scanner = fakeScanner{err: scan.ErrInfected} })
	w := env.do(t, http.MethodPost, "/v1/resume", "alice", body)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "malicious") {
		t.Fatalf("expected 400 malicious, got %d %s", w.Code, w.Body.String())
	}

	env = newTestEnv(t, func(d *Deps) { d.Scanner = fakeScanner{} })
	if w := env.do(t, http.MethodPost, "/v1/resume", "alice", body); w.Code != http.StatusCreated {
		t.Fatalf("clean photo: expected 201 got %d", w.Code)
	}

	env = newTestEnv(t, func(d *Deps) { d.Scanner = fakeScanner{err: errors.New("clamd down")} })
	if w := env.do(t, http.MethodPost, "/v1/resume", "alice", body); w.Code != http.StatusInternalServerError {
		t.Fatalf("scanner failure: expected 500 got %d", w.Code)
	}
}

func TestShareEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.seed(t, 1, `{}`)
	path := "/v1/resume/" + itoa(rec.ID) + "/share"

	w := env.do(t, http.MethodGet, path, "alice", nil)
	var status shareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.IsShared || status.ShareID != "" || status.ShareURL != "" {
		t.Fatalf("unexpected initial share status %+v", status)
	}

	w = env.do(t, http.MethodPut, path, "alice", gin.H{"isShared": true})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.IsShared || status.ShareID == "" {
		t.Fatalf("share not enabled: %+v", status)
	}
	if status.ShareURL != "https://cv.example.com/print/share/"+status.ShareID {
		t.Fatalf("ShareURL = %q", status.ShareURL)
	}

	firstID := status.ShareID
	env.do(t, http.MethodPut, path, "alice", gin.H{"isShared": false})
	w = env.do(t, http.MethodPut, path, "alice", gin.H{"isShared": true})
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.ShareID != firstID {
		t.Fatalf("share id changed from %q to %q", firstID, status.ShareID)
	}

	if w := env.do(t, http.MethodPut, path, "alice", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing isShared: expected 400 got %d", w.Code)
	}
	if w := env.do(t, http.MethodPut, path, "bob", gin.H{"isShared": true}); w.Code != http.StatusNotFound {
		t.Fatalf("other user: expected 404 got %d", w.Code)
	}
}

func TestEnqueueExport(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.seed(t, 1, `{}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/resume/"+itoa(rec.ID)+"/export?locale=ru", nil)
	req.Header.Set("Authorization", "Bearer alice")
	req.Header.Set(middleware.CorrelationIDHeader, "cid-42")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d body=%s", w.Code, w.Body.String())
	}
	if len(env.queue.tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(env.queue.tasks))
	}
	payload, err := tasks.ParseResumeExportPayload(env.queue.tasks[0])
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.ResumeID != rec.ID || payload.OwnerID != 1 || payload.Locale != "ru" || payload.CorrelationID != "cid-42" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	got, err := env.repo.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ExportStatus != database.ExportStatusPending {
		t.Fatalf("ExportStatus = %q", got.ExportStatus)
	}
}

func TestDownloadLink(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	rec := env.seed(t, 1, `{"firstName":"Ivan","lastName":"Ivanov"}`)
	path := "/v1/resume/" + itoa(rec.ID) + "/download-link"

	if w := env.do(t, http.MethodGet, path, "alice", nil); w.Code != http.StatusConflict {
		t.Fatalf("not exported: expected 409 got %d", w.Code)
	}

	key := storage.ExportObjectKey(1)
	if err := env.repo.SetExportStatus(ctx, rec.ID, database.ExportStatusCompleted, key); err != nil {
		t.Fatalf("set status: %v", err)
	}
	w := env.do(t, http.MethodGet, path, "alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if env.signer.key != key {
		t.Fatalf("signed key = %q, want %q", env.signer.key, key)
	}
	if !strings.Contains(env.signer.params["response-content-disposition"], "Ivanov-Ivan.pdf") {
		t.Fatalf("unexpected disposition %q", env.signer.params["response-content-disposition"])
	}

	env.signer.missing = true
	if w := env.do(t, http.MethodGet, path, "alice", nil); w.Code != http.StatusConflict {
		t.Fatalf("expired object: expected 409 got %d", w.Code)
	}
	env.signer.missing = false

	// 指向其他用户对象的记录不能被签名。
	if err := env.repo.SetExportStatus(ctx, rec.ID, database.ExportStatusCompleted, storage.ExportObjectKey(2)); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if w := env.do(t, http.MethodGet, path, "alice", nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign key: expected 404 got %d", w.Code)
	}
}

func TestPreviewAndThumbnail(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.seed(t, 1, `{"firstName":"Ivan","templateKey":"sidebar"}`)
	base := "/v1/resume/" + itoa(rec.ID)

	w := env.do(t, http.MethodGet, base+"/preview", "alice", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `data-template="sidebar"`) {
		t.Fatalf("preview: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, base+"/preview?template=ats", "alice", nil)
	if !strings.Contains(w.Body.String(), `data-template="ats"`) {
		t.Fatal("template override ignored")
	}

	w = env.do(t, http.MethodGet, base+"/thumbnail?width=218&padding=20", "alice", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "thumbnail-scale") {
		t.Fatalf("thumbnail: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, base+"/thumbnail?width=0", "alice", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "scale(0.18)") {
		t.Fatalf("unmeasured container should use the fallback scale: %d %s", w.Code, w.Body.String())
	}

	for _, q := range []string{"width=-5", "width=abc", "width=NaN", "width=100000", "padding=-1"} {
		if w := env.do(t, http.MethodGet, base+"/thumbnail?"+q, "alice", nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", q, w.Code)
		}
	}
}

func TestListTemplates(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/v1/templates?locale=ru", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Items   []templateItem `json:"items"`
		Default string         `json:"default"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 7 || resp.Default != "classic" {
		t.Fatalf("unexpected templates %+v", resp)
	}
	if resp.Items[0].Title != "Классический" {
		t.Fatalf("title not localized: %q", resp.Items[0].Title)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if w.Header().Get(middleware.CorrelationIDHeader) == "" {
		t.Fatal("missing correlation id header")
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestWsRejectsBadToken(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsAuthMessage{Type: "auth", Token: "nope"}); err != nil {
		t.Fatalf("write auth: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://cv.example.com/"})
	req := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)

	req.Header.Set("Origin", "https://cv.example.com")
	if !check(req) {
		t.Fatal("configured origin rejected")
	}
	req.Header.Set("Origin", "https://evil.example.com")
	if check(req) {
		t.Fatal("foreign origin accepted")
	}

	sameHost := originChecker(nil)
	req.Host = "api.local"
	req.Header.Set("Origin", "http://api.local")
	if !sameHost(req) {
		t.Fatal("same-host origin rejected")
	}
}
