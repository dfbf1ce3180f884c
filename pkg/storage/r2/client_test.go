package r2

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dotoole/photofolio-backend/pkg/config"
)

func testConfig() config.R2Config {
	return config.R2Config{
		Endpoint:        "https://account.r2.cloudflarestorage.com",
		AccessKey:       "access",
		SecretKey:       "secret",
		Bucket:          "portfolio",
		PublicBaseURL:   "https://img.example.com/",
		UploadURLExpiry: time.Minute,
	}
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.R2Config)
	}{
		{"missing endpoint", func(c *config.R2Config) { c.Endpoint = "" }},
		{"missing bucket", func(c *config.R2Config) { c.Bucket = "" }},
		{"missing access key", func(c *config.R2Config) { c.AccessKey = "" }},
		{"missing secret key", func(c *config.R2Config) { c.SecretKey = "" }},
		{"missing public base", func(c *config.R2Config) { c.PublicBaseURL = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Fatalf("expected config error")
			}
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	t.Parallel()

	host, secure, err := splitEndpoint("https://account.r2.cloudflarestorage.com", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host != "account.r2.cloudflarestorage.com" || !secure {
		t.Fatalf("unexpected split %q secure=%v", host, secure)
	}

	host, secure, err = splitEndpoint("localhost:9000", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host != "localhost:9000" || secure {
		t.Fatalf("bare host should pass through, got %q secure=%v", host, secure)
	}
}

func TestPresignPutSignsKeyAndExpiry(t *testing.T) {
	t.Parallel()

	client, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	signed, err := client.PresignPut(context.Background(), "1700000000-abc-file.jpg")
	if err != nil {
		t.Fatalf("PresignPut: %v", err)
	}

	parsed, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	if !strings.Contains(parsed.Path, "1700000000-abc-file.jpg") {
		t.Fatalf("signed url missing object key: %s", signed)
	}
	query := parsed.Query()
	if query.Get("X-Amz-Signature") == "" {
		t.Fatalf("signed url missing signature: %s", signed)
	}
	if query.Get("X-Amz-Expires") != "60" {
		t.Fatalf("expected 60s expiry, got %q", query.Get("X-Amz-Expires"))
	}
}

func TestPresignPutRequiresKey(t *testing.T) {
	t.Parallel()

	client, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.PresignPut(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	client, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := client.PublicURL("1700000000-abc-my photo.jpg")
	want := "https://img.example.com/1700000000-abc-my%20photo.jpg"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if client.PublicURL("") != "" {
		t.Fatalf("empty key should yield empty url")
	}
}
