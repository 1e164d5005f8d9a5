// SPDX-License-Identifier: Apache-2.0

// Package openfec calls the authenticated OpenFEC API. The API key is sent
// only as a request header and every error is redacted before it leaves
// the package.
package openfec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/fecmcp/fec-mcp/internal/credential"
)

const (
	DefaultBaseURL = "https://api.open.fec.gov/v1"
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "X-Api-Key"
	maxErrorBody = 4 << 10
)

// CredentialProvider supplies the API key. *credential.Resolver implements it.
type CredentialProvider interface {
	Resolve(ctx context.Context) (credential.Secret, error)
	Redactor() *credential.Redactor
}

// Client is an OpenFEC API client.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialProvider
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client that resolves its key from creds on first use.
func NewClient(creds CredentialProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		creds:   creds,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type resultsPage[T any] struct {
	Results []T `json:"results"`
}

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// get performs an authenticated GET and decodes the results array.
func get[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	redactor := c.creds.Redactor()

	key, err := c.creds.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, redactor.Error(&RemoteAPIError{Endpoint: endpoint, Err: err})
	}
	req.Header.Set(apiKeyHeader, key.Reveal())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("openfec request failed", zap.String("endpoint", endpoint), redactor.ErrorField(err))
		return nil, redactor.Error(&RemoteAPIError{Endpoint: endpoint, Err: err})
	}
	defer resp.Body.Close()

	c.logger.Debug("openfec request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, redactor.Error(&RemoteAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    redactor.Redact(errorMessage(resp.Body)),
		})
	}

	var page resultsPage[T]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, redactor.Error(&RemoteAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Err:        fmt.Errorf("decode response: %w", err),
		})
	}
	return page.Results, nil
}

// errorMessage extracts a short message from an error response body.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var parsed apiErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		switch {
		case parsed.Error.Message != "":
			return parsed.Error.Message
		case parsed.Message != "":
			return parsed.Message
		}
	}
	return strings.TrimSpace(truncate(string(raw), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsCredentialRejected reports whether err means the API key was refused.
func IsCredentialRejected(err error) bool {
	return errors.Is(err, ErrCredentialRejected)
}
