package gsheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{},
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return client
}

func TestFetchGrid(t *testing.T) {
	var gotPath, gotRender string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRender = r.URL.Query().Get("valueRenderOption")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Sheet1!A1:C3","majorDimension":"ROWS","values":[["","Shirt S"],["","Stock"],["3/4/24","10"]]}`))
	})

	grid, err := client.FetchGrid(context.Background(), "sheet-id", "Sheet1")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/v4/spreadsheets/sheet-id/values/Sheet1"), gotPath)
	assert.Equal(t, "FORMATTED_VALUE", gotRender)
	require.Len(t, grid, 3)
	assert.Equal(t, "Shirt S", grid[0][1])
	assert.Equal(t, "3/4/24", grid[2][0])
}

func TestFetchGrid_EmptyRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Sheet1"}`))
	})

	_, err := client.FetchGrid(context.Background(), "sheet-id", "Sheet1")
	assert.ErrorContains(t, err, "no values")
}

func TestFetchGrid_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	_, err := client.FetchGrid(context.Background(), "sheet-id", "Sheet1")
	assert.Error(t, err)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Config{CredentialsJSON: "{not json"})
	assert.Error(t, err)
}
