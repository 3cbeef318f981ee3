package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("INTERNAL_API_SECRET", "internal")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 8080 || cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Export.Driver != "rod" || cfg.Export.MaxConcurrent != 2 {
		t.Fatalf("unexpected export defaults: %+v", cfg.Export)
	}
	if cfg.Export.CaptureTimeout != time.Minute {
		t.Fatalf("capture timeout = %v", cfg.Export.CaptureTimeout)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("unexpected pool defaults: %+v", cfg.Database)
	}
	if cfg.Scan.ClamdAddr != "" {
		t.Fatal("clamd must be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PDF_DRIVER", "chromedp")
	t.Setenv("PDF_CAPTURE_TIMEOUT", "90s")
	t.Setenv("PDF_MAX_CONCURRENT", "4")
	t.Setenv("PRINT_BASE_URL", "http://api:8080")
	t.Setenv("CLAMD_ADDR", "tcp://clamd:3310")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Driver != "chromedp" || cfg.Export.CaptureTimeout != 90*time.Second || cfg.Export.MaxConcurrent != 4 {
		t.Fatalf("env not applied: %+v", cfg.Export)
	}
	if cfg.Export.PrintBaseURL != "http://api:8080" || cfg.Scan.ClamdAddr != "tcp://clamd:3310" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"INTERNAL_API_SECRET": ""}, "internal secret"},
		{"bad driver", map[string]string{"PDF_DRIVER": "firefox"}, "not supported"},
		{"relative print url", map[string]string{"PRINT_BASE_URL": "/print"}, "print base url"},
		{"zero concurrency", map[string]string{"PDF_MAX_CONCURRENT": "0"}, "max concurrent"},
		{"zero pool", map[string]string{"DATABASE_MAX_OPEN_CONNS": "0"}, "pool sizes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}
