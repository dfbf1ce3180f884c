// Package r2 talks to a Cloudflare R2 bucket over the S3 API.
package r2

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dotoole/photofolio-backend/pkg/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pingTimeout = 5 * time.Second

// Client wraps the S3 operations the service needs: presigned writes,
// deletes, and public read URLs derived from the configured base.
type Client struct {
	s3            *minio.Client
	bucket        string
	publicBaseURL string
	uploadExpiry  time.Duration
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New builds the client. It validates configuration only; connectivity is
// checked through Ping so construction stays offline.
func New(cfg config.R2Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("r2 endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("r2 bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("r2 credentials are required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("r2 public base url is required")
	}

	endpoint, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	s3, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	expiry := cfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = time.Minute
	}

	return &Client{
		s3:            s3,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		uploadExpiry:  expiry,
	}, nil
}

// splitEndpoint accepts both bare hosts and full URLs; a scheme in the
// endpoint overrides the configured TLS flag.
func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, useSSL, nil
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parsing r2 endpoint: %w", err)
	}
	if parsed.Host == "" {
		return "", false, fmt.Errorf("r2 endpoint %q has no host", endpoint)
	}
	return parsed.Host, parsed.Scheme == "https", nil
}

// PresignPut returns a time-limited URL that accepts a single PUT of the
// object body. The expiry window is short on purpose: the caller uploads
// immediately after asking.
func (c *Client) PresignPut(ctx context.Context, key string) (string, error) {
	if c == nil || c.s3 == nil {
		return "", errors.New("r2 client not initialized")
	}
	if key == "" {
		return "", errors.New("object key is required")
	}
	signed, err := c.s3.PresignedPutObject(ctx, c.bucket, key, c.uploadExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning put for %s: %w", key, err)
	}
	return signed.String(), nil
}

// PublicURL returns the read URL for a stored object. Reads go through the
// configured public base (a custom domain or r2.dev host), never through
// signed credentials.
func (c *Client) PublicURL(key string) string {
	if c == nil || key == "" {
		return ""
	}
	escaped := url.PathEscape(key)
	return c.publicBaseURL + "/" + escaped
}

// Remove deletes the object. Missing objects are not an error: S3 delete is
// idempotent and the caller may be cleaning up a half-finished upload.
func (c *Client) Remove(ctx context.Context, key string) error {
	if c == nil || c.s3 == nil {
		return errors.New("r2 client not initialized")
	}
	if key == "" {
		return nil
	}
	if err := c.s3.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Ping verifies the bucket is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.s3 == nil {
		return errors.New("r2 client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	exists, err := c.s3.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", c.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", c.bucket)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}
