package storage

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestExportObjectKey(t *testing.T) {
	key := ExportObjectKey(42)
	if !strings.HasPrefix(key, "exports/42/") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if !OwnsExport(42, key) {
		t.Fatalf("owner must own %q", key)
	}
	if OwnsExport(7, key) {
		t.Fatal("foreign owner must not own the key")
	}
	if key == ExportObjectKey(42) {
		t.Fatal("keys must be unique per export")
	}
}

func TestOwnsExportRejectsTraversal(t *testing.T) {
	for _, key := range []string{
		"exports/1/../2/a.pdf",
		"exports/1/not-a-uuid.pdf",
		"thumbnails/resume/1/preview.jpg",
		"",
	} {
		if OwnsExport(1, key) {
			t.Errorf("OwnsExport(1, %q) = true", key)
		}
	}
}

func TestPreviewObjectKey(t *testing.T) {
	if got := PreviewObjectKey(9); got != "thumbnails/resume/9/preview.jpg" {
		t.Fatalf("PreviewObjectKey = %q", got)
	}
}

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no such key", err: minio.ErrorResponse{Code: "NoSuchKey"}, want: true},
		{name: "no such bucket", err: minio.ErrorResponse{Code: "NoSuchBucket"}, want: true},
		{name: "404 status", err: minio.ErrorResponse{StatusCode: http.StatusNotFound}, want: true},
		{name: "wrapped", err: fmt.Errorf("stat: %w", minio.ErrorResponse{Code: "NoSuchKey"}), want: true},
		{name: "access denied", err: minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, want: false},
		{name: "plain error", err: errors.New("connection refused"), want: false},
	}
	for _, tt := range tests {
		if got := IsNoSuchKey(tt.err); got != tt.want {
			t.Fatalf("%s: IsNoSuchKey = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBucketLookup(t *testing.T) {
	for _, raw := range []string{"", "auto", "DNS", " path "} {
		if _, err := bucketLookup(raw); err != nil {
			t.Fatalf("bucketLookup(%q): %v", raw, err)
		}
	}
	if _, err := bucketLookup("virtual"); err == nil {
		t.Fatal("expected error for unknown lookup")
	}
}
