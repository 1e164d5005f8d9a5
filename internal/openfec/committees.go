// SPDX-License-Identifier: Apache-2.0

package openfec

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultCommitteeLimit = 20
	maxPerPage            = 100
)

// Committee is one committee search result.
type Committee struct {
	ID          string `json:"committee_id"`
	Name        string `json:"name"`
	Type        string `json:"committee_type,omitempty"`
	Designation string `json:"designation,omitempty"`
	Party       string `json:"party,omitempty"`
	State       string `json:"state,omitempty"`
	Treasurer   string `json:"treasurer_name,omitempty"`
}

// CommitteeQuery selects committees by name.
type CommitteeQuery struct {
	Name  string
	Limit int
}

// SearchCommittees finds committees whose name matches q.Name.
func (c *Client) SearchCommittees(ctx context.Context, q CommitteeQuery) ([]Committee, error) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return nil, &InvalidQueryError{Field: "committee name", Value: q.Name, Reason: "must not be empty"}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultCommitteeLimit
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("per_page", strconv.Itoa(min(limit, maxPerPage)))

	results, err := get[Committee](ctx, c, "/committees/", params)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
