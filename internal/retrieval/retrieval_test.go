// SPDX-License-Identifier: Apache-2.0

package retrieval_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fecmcp/fec-mcp/internal/docquery"
	"github.com/fecmcp/fec-mcp/internal/filing"
	"github.com/fecmcp/fec-mcp/internal/retrieval"
)

const fs = "\x1c"

var fecBody = strings.Join([]string{
	"HDR" + fs + "FEC" + fs + "8.4" + fs + "TestSoft",
	"F3XN" + fs + "C00123456" + fs + "Test PAC",
	"SA11AI" + fs + "C00123456" + fs + "A1",
	"SB21B" + fs + "C00123456" + fs + "B1",
}, "\n") + "\n"

func newRetriever(t *testing.T, content string) (*retrieval.Retriever, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/100.fec" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, content)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	client := docquery.NewClient(docquery.WithBaseURL(srv.URL), docquery.WithHTTPClient(srv.Client()), docquery.WithTempDir(dir))
	return retrieval.New(client, false, zaptest.NewLogger(t)), dir
}

func TestOpen(t *testing.T) {
	r, dir := newRetriever(t, fecBody)

	f, err := r.Open(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, filing.ID(100), f.ID)
	assert.Equal(t, "F3XN", f.Decoder.FormType())

	agg, err := filing.Aggregate(context.Background(), f.ID, f.Decoder, filing.Scope{Summary: true, Schedules: filing.AllSchedules})
	require.NoError(t, err)
	a, _ := agg.Items(filing.ScheduleA)
	b, _ := agg.Items(filing.ScheduleB)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)

	require.NoError(t, f.Close())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_NotFound(t *testing.T) {
	r, _ := newRetriever(t, fecBody)

	_, err := r.Open(context.Background(), 404)
	assert.ErrorIs(t, err, docquery.ErrFilingNotFound)
}

func TestOpen_UnreadableBodyIsDecodeError(t *testing.T) {
	r, dir := newRetriever(t, "<html>maintenance</html>\n")

	_, err := r.Open(context.Background(), 100)
	var decErr *filing.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, filing.ID(100), decErr.FilingID)
	assert.Zero(t, decErr.Emitted)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "spool file is removed when the body cannot be opened")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "100.fec")
	require.NoError(t, os.WriteFile(path, []byte(fecBody), 0o600))

	r := retrieval.New(nil, true, nil)
	f, err := r.OpenFile(path, 0)
	require.NoError(t, err)
	defer f.Close()

	summary, err := f.Decoder.Summary(context.Background())
	require.NoError(t, err)
	name, _ := summary.Get("committee_name")
	assert.Equal(t, "Test PAC", name.String())
}
