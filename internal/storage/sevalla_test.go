package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSevallaClient_Validation(t *testing.T) {
	_, err := NewSevallaClient(SevallaConfig{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewSevallaClient(SevallaConfig{Endpoint: "s3.example.com"})
	assert.ErrorContains(t, err, "credentials")

	_, err = NewSevallaClient(SevallaConfig{Endpoint: "s3.example.com", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")
}

func TestLocalClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	client, err := NewLocalClient(root)
	require.NoError(t, err)

	require.NoError(t, client.UploadObject(ctx, "exports/inventory.csv", []byte("a,b\n")))

	content, err := client.GetObject(ctx, "exports/inventory.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))

	objects, err := client.ListObjects(ctx, "exports")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "inventory.csv", filepath.Base(objects[0].Key))

	dest := filepath.Join(t.TempDir(), "nested", "copy.csv")
	require.NoError(t, client.DownloadObject(ctx, "exports/inventory.csv", dest))
	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(written))

	_, err = client.GetObject(ctx, "missing.csv")
	assert.Error(t, err)
}

func TestNew_PicksBackend(t *testing.T) {
	store, err := New(config.StorageConfig{LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, store)

	store, err = New(config.StorageConfig{Endpoint: "s3.example.com"})
	assert.Nil(t, store)
	assert.ErrorContains(t, err, "credentials")
}

func TestSevallaConfig_EndpointAndRegion(t *testing.T) {
	assert.Equal(t, "https://s3.example.com", SevallaConfig{Endpoint: "s3.example.com", UseSSL: true}.endpointURL())
	assert.Equal(t, "http://minio:9000", SevallaConfig{Endpoint: "//minio:9000"}.endpointURL())
	assert.Equal(t, "http://keep.me", SevallaConfig{Endpoint: "http://keep.me", UseSSL: true}.endpointURL())

	assert.Equal(t, defaultRegion, SevallaConfig{Region: "  "}.region())
	assert.Equal(t, "ap-southeast-1", SevallaConfig{Region: "ap-southeast-1"}.region())
}
