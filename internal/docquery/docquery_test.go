// SPDX-License-Identifier: Apache-2.0

package docquery_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fecmcp/fec-mcp/internal/docquery"
)

const body = "HDR\x1cFEC\x1c8.4\nF3XN\x1cC00123456\x1cTest PAC\n"

func spoolDir(t *testing.T) (string, func() []os.DirEntry) {
	t.Helper()
	dir := t.TempDir()
	return dir, func() []os.DirEntry {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		return entries
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posted/1896830.fec", r.URL.Path)
		assert.Equal(t, "fec-mcp-test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	dir, entries := spoolDir(t)
	client := docquery.NewClient(
		docquery.WithBaseURL(srv.URL+"/posted/"),
		docquery.WithHTTPClient(srv.Client()),
		docquery.WithUserAgent("fec-mcp-test"),
		docquery.WithTempDir(dir))

	assert.Equal(t, srv.URL+"/posted/1896830.fec", client.URL(1896830))

	doc, err := client.Fetch(context.Background(), 1896830)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), doc.Size())
	assert.Len(t, entries(), 1, "body is spooled to disk")

	got, err := io.ReadAll(io.NewSectionReader(doc, 0, doc.Size()))
	require.NoError(t, err)
	assert.Equal(t, body, string(got))

	require.NoError(t, doc.Close())
	assert.Empty(t, entries(), "spool file is removed on close")
}

func TestFetch_HTTPErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
	}{
		{name: "not found", status: http.StatusNotFound, wantNotFound: true},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "forbidden", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			dir, entries := spoolDir(t)
			client := docquery.NewClient(docquery.WithBaseURL(srv.URL), docquery.WithHTTPClient(srv.Client()), docquery.WithTempDir(dir))

			doc, err := client.Fetch(context.Background(), 42)
			assert.Nil(t, doc)
			var fetchErr *docquery.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.status, fetchErr.StatusCode)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, docquery.ErrFilingNotFound))
			assert.Contains(t, err.Error(), "fetch filing 42")
			assert.Empty(t, entries())
		})
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := docquery.NewClient(docquery.WithBaseURL(srv.URL), docquery.WithHTTPClient(srv.Client()))
	_, err := client.Fetch(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.fec")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	doc, err := docquery.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), doc.Size())
	require.NoError(t, doc.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err, "local files are left in place")

	_, err = docquery.OpenFile(filepath.Join(t.TempDir(), "missing.fec"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
