package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/andresuchdata/inventory-dashboard/internal/source"
	"github.com/andresuchdata/inventory-dashboard/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// sheetExtensions are the object suffixes pull downloads when listing a prefix.
var sheetExtensions = []string{".csv", ".xlsx"}

func isSheetExport(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range sheetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func runPull(c *cli.Context) error {
	cfg := config.Load()

	client, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	dest := c.String("dest")
	if dest == "" {
		dest = cfg.App.DownloadDir
	}
	if err := config.EnsureDir(dest); err != nil {
		return fmt.Errorf("failed to ensure download dir %s: %w", dest, err)
	}

	paths, err := downloadObjects(c.Context, client, c.String("prefix"), c.String("key"), dest)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(c.App.Writer, p)
	}
	return nil
}

func downloadObjects(ctx context.Context, client storage.ObjectStorage, prefix, override, destDir string) ([]string, error) {
	var keys []string

	if override != "" {
		keys = []string{resolveObjectKey(prefix, override)}
	} else {
		listPrefix := strings.TrimSpace(prefix)
		objects, err := client.ListObjects(ctx, listPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects for prefix %s: %w", listPrefix, err)
		}
		for _, obj := range objects {
			if isSheetExport(obj.Key) {
				keys = append(keys, resolveObjectKey(listPrefix, obj.Key))
			}
		}
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no sheet exports found for prefix %s", prefix)
	}

	localPaths := make([]string, 0, len(keys))
	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(prefix, key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
		}
		if err := client.DownloadObject(ctx, key, localPath); err != nil {
			return nil, err
		}
		log.Debug().Str("key", key).Str("path", localPath).Msg("object downloaded")
		localPaths = append(localPaths, localPath)
	}

	sort.Strings(localPaths)
	return localPaths, nil
}

func runPush(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("push requires a file argument")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	key := c.String("key")
	if key == "" {
		key = filepath.Base(path)
	}

	client, err := storage.New(config.Load().Storage)
	if err != nil {
		return err
	}
	if err := client.UploadObject(c.Context, key, data); err != nil {
		return err
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("sheet export uploaded")
	return nil
}

func runDriveFiles(c *cli.Context) error {
	svc, err := source.NewDriveService(c.Context, config.Load().Drive)
	if err != nil {
		return err
	}

	folderID := c.String("folder-id")
	if path := c.String("path"); path != "" {
		if folderID, err = svc.FindFolderByPath(c.Context, path); err != nil {
			return err
		}
	}

	files, err := svc.ListFiles(c.Context, folderID)
	if err != nil {
		return err
	}
	return printJSON(c, files)
}

func resolveObjectKey(prefix, override string) string {
	if override == "" {
		return strings.TrimSpace(prefix)
	}
	if prefix == "" {
		return strings.TrimPrefix(override, "/")
	}

	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	overrideTrimmed := strings.TrimPrefix(strings.TrimSpace(override), "/")

	if strings.HasPrefix(overrideTrimmed, prefixTrimmed) {
		return overrideTrimmed
	}
	return fmt.Sprintf("%s/%s", prefixTrimmed, overrideTrimmed)
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
