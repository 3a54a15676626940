package source

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/andresuchdata/inventory-dashboard/internal/drive"
	"github.com/andresuchdata/inventory-dashboard/internal/gsheets"
	"github.com/andresuchdata/inventory-dashboard/internal/storage"
	"github.com/rs/zerolog/log"
)

// Sources bundles the inventory grid source and the optional master sheet
// source. Drive is set when the sources read from Google Drive, so callers
// can watch the inventory file for changes.
type Sources struct {
	Inventory GridSource
	Master    GridSource
	Drive     *drive.Service
}

// New builds the configured sources. A Sheets or Drive source without
// credentials falls back to Source.FallbackFile when one is set.
func New(ctx context.Context, cfg *config.Config) (*Sources, error) {
	switch cfg.Source.Kind {
	case config.SourceSheets:
		if !cfg.Sheets.HasSheetsCredentials() {
			return fallback(cfg, "sheets api key or credentials missing")
		}
		return newSheets(ctx, cfg)
	case config.SourceDrive:
		if !cfg.Drive.HasCredentials() {
			return fallback(cfg, "drive credentials missing")
		}
		return newDrive(ctx, cfg)
	case config.SourceObject:
		return newObject(cfg)
	case config.SourceFile, "":
		return newFile(cfg.Source.InventoryPath, cfg.Source.MasterPath)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

func fallback(cfg *config.Config, reason string) (*Sources, error) {
	if cfg.Source.FallbackFile == "" {
		return nil, fmt.Errorf("%s source: %s and no fallback file configured", cfg.Source.Kind, reason)
	}

	log.Warn().
		Str("kind", cfg.Source.Kind).
		Str("fallback", cfg.Source.FallbackFile).
		Msg(reason + ", falling back to local file")

	return newFile(cfg.Source.FallbackFile, cfg.Source.MasterPath)
}

func newSheets(ctx context.Context, cfg *config.Config) (*Sources, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets source: spreadsheet id must be provided")
	}

	client, err := gsheets.NewClient(ctx, gsheets.Config{
		APIKey:          cfg.Sheets.APIKey,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		CredentialsJSON: cfg.Sheets.CredentialsJSON,
	})
	if err != nil {
		return nil, err
	}

	srcs := &Sources{
		Inventory: &SheetsSource{Client: client, SpreadsheetID: cfg.Sheets.SpreadsheetID, Range: cfg.Sheets.InventoryRange},
	}
	if cfg.Sheets.MasterRange != "" {
		srcs.Master = &SheetsSource{Client: client, SpreadsheetID: cfg.Sheets.SpreadsheetID, Range: cfg.Sheets.MasterRange}
	}
	return srcs, nil
}

func newDrive(ctx context.Context, cfg *config.Config) (*Sources, error) {
	if cfg.Drive.InventoryFileID == "" {
		return nil, fmt.Errorf("drive source: inventory file id must be provided")
	}

	svc, err := NewDriveService(ctx, cfg.Drive)
	if err != nil {
		return nil, err
	}

	srcs := &Sources{
		Inventory: &DriveSource{Files: svc, FileID: cfg.Drive.InventoryFileID},
		Drive:     svc,
	}
	if cfg.Drive.MasterFileID != "" {
		srcs.Master = &DriveSource{Files: svc, FileID: cfg.Drive.MasterFileID}
	}
	return srcs, nil
}

// NewDriveService authenticates with inline credentials JSON when set, the
// credentials file otherwise.
func NewDriveService(ctx context.Context, cfg config.DriveConfig) (*drive.Service, error) {
	if cfg.CredentialsJSON != "" {
		return drive.NewService(ctx, cfg.CredentialsJSON)
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("drive credentials missing: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS_JSON")
	}
	return drive.NewServiceFromFile(ctx, cfg.CredentialsFile)
}

func newObject(cfg *config.Config) (*Sources, error) {
	if cfg.Source.InventoryPath == "" {
		return nil, fmt.Errorf("object source: inventory object key must be provided")
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("object source: %w", err)
	}

	srcs := &Sources{Inventory: &ObjectSource{Store: store, Key: cfg.Source.InventoryPath}}
	if cfg.Source.MasterPath != "" {
		srcs.Master = &ObjectSource{Store: store, Key: cfg.Source.MasterPath}
	}
	return srcs, nil
}

func newFile(inventoryPath, masterPath string) (*Sources, error) {
	if inventoryPath == "" {
		return nil, fmt.Errorf("file source: inventory path must be provided")
	}

	srcs := &Sources{Inventory: &FileSource{Path: inventoryPath}}
	if masterPath != "" {
		srcs.Master = &FileSource{Path: masterPath}
	}
	return srcs, nil
}
