package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chartmuseum/storage"
)

const defaultRegion = "us-east-1"

// SevallaConfig encapsulates the connection info for Sevalla (S3-compatible) storage.
type SevallaConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

func (cfg SevallaConfig) validate() error {
	switch {
	case cfg.Endpoint == "":
		return fmt.Errorf("sevalla endpoint must be provided")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return fmt.Errorf("sevalla credentials must be provided")
	case cfg.Bucket == "":
		return fmt.Errorf("sevalla bucket must be provided")
	}
	return nil
}

// endpointURL adds a scheme to bare host endpoints.
func (cfg SevallaConfig) endpointURL() string {
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg.Endpoint
	}
	scheme := "https"
	if !cfg.UseSSL {
		scheme = "http"
	}
	return scheme + "://" + strings.TrimPrefix(cfg.Endpoint, "//")
}

func (cfg SevallaConfig) region() string {
	if region := strings.TrimSpace(cfg.Region); region != "" {
		return region
	}
	return defaultRegion
}

// Client implements ObjectStorage on a chartmuseum backend: Amazon S3 for
// Sevalla, or a local directory.
type Client struct {
	kind    string
	backend storage.Backend
}

// NewSevallaClient builds a Client on chartmuseum's Amazon S3 backend.
func NewSevallaClient(cfg SevallaConfig) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// The S3 backend resolves credentials through the AWS default chain.
	region := cfg.region()
	for k, v := range map[string]string{
		"AWS_ACCESS_KEY_ID":     cfg.AccessKey,
		"AWS_SECRET_ACCESS_KEY": cfg.SecretKey,
		"AWS_REGION":            region,
		"AWS_DEFAULT_REGION":    region,
	} {
		if err := os.Setenv(k, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}

	forcePathStyle := true
	backend := storage.NewAmazonS3BackendWithOptions(
		cfg.Bucket,
		cfg.Prefix,
		region,
		cfg.endpointURL(),
		"",
		&storage.AmazonS3Options{S3ForcePathStyle: &forcePathStyle},
	)

	return &Client{kind: "sevalla", backend: backend}, nil
}

// NewLocalClient serves objects from a directory on disk.
func NewLocalClient(rootDir string) (*Client, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("local storage directory must be provided")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating storage directory %s: %w", rootDir, err)
	}
	return &Client{kind: "local", backend: storage.NewLocalFilesystemBackend(rootDir)}, nil
}

func (c *Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objects, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("%s list %q failed: %w", c.kind, prefix, err)
	}

	infos := make([]ObjectInfo, len(objects))
	for i, object := range objects {
		infos[i] = ObjectInfo{
			Key:          object.Path,
			Size:         int64(len(object.Content)),
			LastModified: object.LastModified,
		}
	}
	return infos, nil
}

func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	object, err := c.backend.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("%s get %s failed: %w", c.kind, key, err)
	}
	return object.Content, nil
}

// DownloadObject writes an object to destPath, creating parent directories.
func (c *Client) DownloadObject(ctx context.Context, key, destPath string) error {
	content, err := c.GetObject(ctx, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", destPath, err)
	}
	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", destPath, err)
	}
	return nil
}

// UploadObject stores data under key, replacing any existing object.
func (c *Client) UploadObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("%s put %s failed: %w", c.kind, key, err)
	}
	return nil
}

var _ ObjectStorage = (*Client)(nil)
