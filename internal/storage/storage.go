package storage

import (
	"context"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
)

// ObjectInfo represents metadata for a remote file/object. Listed keys are
// relative to the listed prefix.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage captures the S3-compatible operations used to fetch sheet
// exports from a bucket.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// New picks the local backend when cfg.LocalDir is set, Sevalla otherwise.
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	var (
		client *Client
		err    error
	)
	if cfg.LocalDir != "" {
		client, err = NewLocalClient(cfg.LocalDir)
	} else {
		client, err = NewSevallaClient(SevallaConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Prefix:    cfg.Prefix,
			UseSSL:    cfg.UseSSL,
		})
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
