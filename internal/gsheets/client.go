package gsheets

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Config holds the credentials of a Sheets client. APIKey works for sheets
// shared publicly; service account JSON is needed otherwise.
type Config struct {
	APIKey          string
	CredentialsFile string
	CredentialsJSON string
}

// Client reads cell ranges from Google Sheets.
type Client struct {
	srv *sheets.Service
}

// NewClient builds a read-only Sheets client. Extra options are appended
// after the credential option.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	credentials := []byte(cfg.CredentialsJSON)
	if len(credentials) == 0 && cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read credentials file %s: %w", cfg.CredentialsFile, err)
		}
		credentials = raw
	}

	var base []option.ClientOption
	switch {
	case len(credentials) > 0:
		jwt, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
		}
		base = append(base, option.WithHTTPClient(jwt.Client(ctx)))
	case cfg.APIKey != "":
		base = append(base, option.WithAPIKey(cfg.APIKey))
	case len(opts) == 0:
		return nil, fmt.Errorf("sheets api key or service account credentials must be provided")
	}

	srv, err := sheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %w", err)
	}

	return &Client{srv: srv}, nil
}

// FetchGrid returns the formatted cell values of a range in A1 notation.
// Formatted values keep date cells in the sheet's display format.
func (c *Client) FetchGrid(ctx context.Context, spreadsheetID, readRange string) (domain.Grid, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read range %q: %w", readRange, err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("range %q returned no values", readRange)
	}

	return domain.Grid(resp.Values), nil
}
