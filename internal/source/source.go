// Package source fetches raw inventory and master grids from the places a
// sheet export can live: Google Sheets, Google Drive, object storage or a
// local file.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/drive"
	"github.com/andresuchdata/inventory-dashboard/internal/storage"
)

// GridSource yields a raw cell grid.
type GridSource interface {
	Name() string
	FetchGrid(ctx context.Context) (domain.Grid, error)
}

// SheetsReader is the subset of the Sheets client used by SheetsSource.
type SheetsReader interface {
	FetchGrid(ctx context.Context, spreadsheetID, readRange string) (domain.Grid, error)
}

// SheetsSource reads a range of a Google spreadsheet.
type SheetsSource struct {
	Client        SheetsReader
	SpreadsheetID string
	Range         string
}

func (s *SheetsSource) Name() string {
	return fmt.Sprintf("sheets:%s!%s", s.SpreadsheetID, s.Range)
}

func (s *SheetsSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	grid, err := s.Client.FetchGrid(ctx, s.SpreadsheetID, s.Range)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return grid, nil
}

// DriveFetcher is the subset of the Drive service used by DriveSource.
type DriveFetcher interface {
	Fetch(ctx context.Context, fileID string) (*drive.File, []byte, error)
}

// DriveSource reads a Drive file: a native Google Sheet, an XLSX or a CSV.
type DriveSource struct {
	Files  DriveFetcher
	FileID string
	Sheet  string
}

func (s *DriveSource) Name() string {
	return "drive:" + s.FileID
}

func (s *DriveSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	file, content, err := s.Files.Fetch(ctx, s.FileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}

	name := file.Name
	if file.IsGoogleSheet() || file.MimeType == drive.MimeXLSX {
		name = "export.xlsx"
	}
	grid, err := Decode(name, content, s.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", s.Name(), file.Name, err)
	}
	return grid, nil
}

// ObjectSource reads an object from S3-compatible storage.
type ObjectSource struct {
	Store storage.ObjectStorage
	Key   string
	Sheet string
}

func (s *ObjectSource) Name() string {
	return "object:" + s.Key
}

func (s *ObjectSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	content, err := s.Store.GetObject(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	grid, err := Decode(s.Key, content, s.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return grid, nil
}

// FileSource reads a local CSV or XLSX file.
type FileSource struct {
	Path  string
	Sheet string
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	grid, err := Decode(s.Path, content, s.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return grid, nil
}

// StaticSource serves a fixed in-memory grid.
type StaticSource struct {
	Label string
	Grid  domain.Grid
}

func (s *StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return "static:" + s.Label
}

func (s *StaticSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Grid, nil
}
