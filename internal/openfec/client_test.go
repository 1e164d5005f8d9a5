// SPDX-License-Identifier: Apache-2.0

package openfec_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fecmcp/fec-mcp/internal/credential"
	"github.com/fecmcp/fec-mcp/internal/openfec"
)

const testKey = "k-0123456789"

type staticCreds struct {
	secret   credential.Secret
	err      error
	redactor *credential.Redactor
}

func newCreds() *staticCreds {
	r := credential.NewRedactor()
	s := credential.NewSecret(testKey)
	r.Add(s)
	return &staticCreds{secret: s, redactor: r}
}

func (c *staticCreds) Resolve(ctx context.Context) (credential.Secret, error) {
	return c.secret, c.err
}

func (c *staticCreds) Redactor() *credential.Redactor { return c.redactor }

// apiServer serves handler after checking that the key arrived only as a header.
func apiServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, testKey, r.Header.Get("X-Api-Key"))
		assert.NotContains(t, r.URL.RawQuery, testKey)
		assert.Empty(t, r.URL.Query().Get("api_key"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newClient(srv *httptest.Server, creds openfec.CredentialProvider) *openfec.Client {
	return openfec.NewClient(creds, openfec.WithBaseURL(srv.URL+"/v1/"), openfec.WithHTTPClient(srv.Client()))
}

func TestSearchCommittees(t *testing.T) {
	srv, hits := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/committees/", r.URL.Path)
		assert.Equal(t, "Utah Republican", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		_, _ = io.WriteString(w, `{"pagination":{"count":3},"results":[
			{"committee_id":"C00089482","name":"UTAH REPUBLICAN PARTY","committee_type":"Y","designation":"U","party":"REP","state":"UT","treasurer_name":"DOE, JANE","cycles":[2024]},
			{"committee_id":"C00000001","name":"UTAH REPUBLICAN PAC"},
			{"committee_id":"C00000002","name":"EXTRA"}
		]}`)
	})

	committees, err := newClient(srv, newCreds()).SearchCommittees(context.Background(), openfec.CommitteeQuery{Name: "  Utah Republican ", Limit: 2})
	require.NoError(t, err)
	require.Len(t, committees, 2, "results are capped at the limit")
	assert.Equal(t, openfec.Committee{
		ID: "C00089482", Name: "UTAH REPUBLICAN PARTY", Type: "Y", Designation: "U",
		Party: "REP", State: "UT", Treasurer: "DOE, JANE",
	}, committees[0])
	assert.Equal(t, int32(1), hits.Load())
}

func TestSearchCommittees_EmptyName(t *testing.T) {
	srv, hits := apiServer(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := newClient(srv, newCreds()).SearchCommittees(context.Background(), openfec.CommitteeQuery{Name: " "})
	var target *openfec.InvalidQueryError
	require.ErrorAs(t, err, &target)
	assert.Zero(t, hits.Load())
}

func TestGetFilings(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/committee/C00089482/filings/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("per_page"))
		assert.Equal(t, "-receipt_date", q.Get("sort"))
		assert.Equal(t, "true", q.Get("most_recent"))
		assert.Equal(t, "F3X", q.Get("form_type"))
		assert.Equal(t, "2024", q.Get("cycle"))
		assert.Equal(t, "Q1", q.Get("report_type"))
		_, _ = io.WriteString(w, `{"results":[
			{"file_number":1896830,"form_type":"F3XN","receipt_date":"2024-04-15T00:00:00","coverage_start_date":"2024-01-01T00:00:00","coverage_end_date":"2024-03-31T00:00:00","total_receipts":5000.5,"total_disbursements":null,"amendment_indicator":"N"},
			{"file_number":null,"form_type":"F99","receipt_date":null}
		]}`)
	})

	filings, err := newClient(srv, newCreds()).GetFilings(context.Background(), openfec.FilingQuery{
		CommitteeID: "c00089482",
		Limit:       5,
		FormType:    "f3x",
		Cycle:       2024,
		ReportType:  "q1",
	})
	require.NoError(t, err)
	require.Len(t, filings, 2)

	assert.Equal(t, int64(1896830), filings[0].FilingID)
	assert.Equal(t, "F3XN", filings[0].FormType)
	assert.Equal(t, "2024-04-15T00:00:00", filings[0].ReceiptDate)
	require.NotNil(t, filings[0].TotalReceipts)
	assert.InDelta(t, 5000.5, *filings[0].TotalReceipts, 0.001)
	assert.Nil(t, filings[0].TotalDisbursements)
	assert.Equal(t, "N", filings[0].AmendmentIndicator)

	assert.Zero(t, filings[1].FilingID)
	assert.Empty(t, filings[1].ReceiptDate)
}

func TestGetFilings_IncludeAmended(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("most_recent"))
		assert.Equal(t, "total_receipts", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = io.WriteString(w, `{"results":[]}`)
	})

	filings, err := newClient(srv, newCreds()).GetFilings(context.Background(), openfec.FilingQuery{
		CommitteeID:    "C00089482",
		Limit:          500,
		Sort:           "total_receipts",
		IncludeAmended: true,
	})
	require.NoError(t, err)
	assert.Empty(t, filings)
}

func TestGetFilings_ForwardsSortKeys(t *testing.T) {
	for _, sort := range []string{"file_number", "-report_type", "amendment_indicator"} {
		t.Run(sort, func(t *testing.T) {
			srv, hits := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, sort, r.URL.Query().Get("sort"))
				_, _ = io.WriteString(w, `{"results":[]}`)
			})
			_, err := newClient(srv, newCreds()).GetFilings(context.Background(), openfec.FilingQuery{CommitteeID: "C00089482", Sort: sort})
			require.NoError(t, err)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestGetFilings_InvalidQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       openfec.FilingQuery
		errContains string
	}{
		{name: "malformed committee ID", query: openfec.FilingQuery{CommitteeID: "P80001571"}, errContains: "committee ID"},
		{name: "short committee ID", query: openfec.FilingQuery{CommitteeID: "C123"}, errContains: "committee ID"},
		{name: "malformed sort field", query: openfec.FilingQuery{CommitteeID: "C00089482", Sort: "receipt_date; drop"}, errContains: "sort field"},
		{name: "empty descending sort", query: openfec.FilingQuery{CommitteeID: "C00089482", Sort: "-"}, errContains: "sort field"},
	}

	srv, hits := apiServer(t, func(w http.ResponseWriter, r *http.Request) {})
	client := newClient(srv, newCreds())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetFilings(context.Background(), tt.query)
			var target *openfec.InvalidQueryError
			require.ErrorAs(t, err, &target)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
	assert.Zero(t, hits.Load())
}

func TestRemoteErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantRejected bool
		errContains  string
	}{
		{
			name:         "forbidden means the key was rejected",
			status:       http.StatusForbidden,
			body:         `{"error":{"code":"API_KEY_INVALID","message":"An invalid api_key was supplied: ` + testKey + `"}}`,
			wantRejected: true,
			errContains:  "invalid or expired",
		},
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{"message":"slow down, api_key=` + testKey + `"}`,
			errContains: "HTTP 429: slow down",
		},
		{
			name:        "server error with text body",
			status:      http.StatusBadGateway,
			body:        "upstream unavailable",
			errContains: "HTTP 502: upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := newClient(srv, newCreds()).SearchCommittees(context.Background(), openfec.CommitteeQuery{Name: "x"})
			require.Error(t, err)

			var remote *openfec.RemoteAPIError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tt.status, remote.StatusCode)
			assert.Equal(t, tt.wantRejected, openfec.IsCredentialRejected(err))
			assert.Contains(t, err.Error(), tt.errContains)
			assert.NotContains(t, err.Error(), testKey)
		})
	}
}

func TestCredentialFailureSkipsRequest(t *testing.T) {
	srv, hits := apiServer(t, func(w http.ResponseWriter, r *http.Request) {})
	creds := newCreds()
	creds.err = &credential.CredentialNotFoundError{Service: "fec-api", Account: "api-key"}

	_, err := newClient(srv, creds).SearchCommittees(context.Background(), openfec.CommitteeQuery{Name: "x"})
	var target *credential.CredentialNotFoundError
	require.ErrorAs(t, err, &target)
	assert.Zero(t, hits.Load())
}

func TestTransportFailureIsRedacted(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := newClient(srv, newCreds())
	srv.Close()

	_, err := client.SearchCommittees(context.Background(), openfec.CommitteeQuery{Name: "x"})
	var remote *openfec.RemoteAPIError
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.StatusCode)
	assert.False(t, errors.Is(err, openfec.ErrCredentialRejected))
	assert.NotContains(t, err.Error(), testKey)
}
