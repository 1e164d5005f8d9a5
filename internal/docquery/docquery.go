// SPDX-License-Identifier: Apache-2.0

// Package docquery retrieves raw electronic filings from the FEC filing host.
// Bodies are spooled to a temporary file so decoders can rescan them without
// holding the filing in memory.
package docquery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fecmcp/fec-mcp/internal/filing"
)

const (
	DefaultBaseURL   = "https://docquery.fec.gov/dcdev/posted"
	DefaultUserAgent = "fec-mcp"
	DefaultTimeout   = 5 * time.Minute
)

// ErrFilingNotFound is matched by a FetchError for a 404 response.
var ErrFilingNotFound = errors.New("filing not found")

// FetchError reports a failed download.
type FetchError struct {
	FilingID   filing.ID
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch filing %s: filing host returned HTTP %d", e.FilingID, e.StatusCode)
	}
	return fmt.Sprintf("fetch filing %s: %v", e.FilingID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	return target == ErrFilingNotFound && e.StatusCode == http.StatusNotFound
}

// Client downloads filings.
type Client struct {
	baseURL   string
	userAgent string
	tempDir   string
	http      *http.Client
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTempDir sets where bodies are spooled; empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(c *Client) { c.tempDir = dir }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the download location of a filing.
func (c *Client) URL(id filing.ID) string {
	return fmt.Sprintf("%s/%s.fec", c.baseURL, id)
}

// Fetch downloads a filing into a spool file. The caller must Close the
// returned Document.
func (c *Client) Fetch(ctx context.Context, id filing.ID) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(id), nil)
	if err != nil {
		return nil, &FetchError{FilingID: id, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{FilingID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{FilingID: id, StatusCode: resp.StatusCode}
	}

	f, err := os.CreateTemp(c.tempDir, "filing-*.fec")
	if err != nil {
		return nil, &FetchError{FilingID: id, Err: fmt.Errorf("create spool file: %w", err)}
	}
	doc := &Document{file: f, remove: true}

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = doc.Close()
		return nil, &FetchError{FilingID: id, Err: fmt.Errorf("read body: %w", err)}
	}
	doc.size = n

	c.logger.Debug("fetched filing",
		zap.Stringer("filing_id", id),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)))
	return doc, nil
}

// Document is a filing body on disk.
type Document struct {
	file   *os.File
	size   int64
	remove bool
}

// OpenFile opens a local .fec file. Closing it leaves the file in place.
func OpenFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open filing: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat filing: %w", err)
	}
	return &Document{file: f, size: info.Size()}, nil
}

func (d *Document) ReadAt(p []byte, off int64) (int, error) {
	return d.file.ReadAt(p, off)
}

// Size returns the body length in bytes.
func (d *Document) Size() int64 { return d.size }

// Close releases the document and removes spooled bodies.
func (d *Document) Close() error {
	err := d.file.Close()
	if d.remove {
		if rmErr := os.Remove(d.file.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}
	return err
}
