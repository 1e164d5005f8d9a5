// SPDX-License-Identifier: Apache-2.0

package openfec

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCredentialRejected is matched by a RemoteAPIError with status 403: the
// key is invalid or expired and must be re-provisioned, not retried.
var ErrCredentialRejected = errors.New("OpenFEC API key rejected")

// RemoteAPIError reports a failed OpenFEC call. StatusCode is 0 when no
// response was received.
type RemoteAPIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *RemoteAPIError) Error() string {
	switch {
	case e.StatusCode == http.StatusForbidden:
		msg := fmt.Sprintf("OpenFEC %s returned HTTP 403: the API key is invalid or expired; "+
			"store a new key in the keyring or credential command and try again", e.Endpoint)
		if e.Message != "" {
			msg += " (" + e.Message + ")"
		}
		return msg
	case e.StatusCode != 0:
		msg := fmt.Sprintf("OpenFEC %s returned HTTP %d", e.Endpoint, e.StatusCode)
		if e.Message != "" {
			msg += ": " + e.Message
		}
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	default:
		return fmt.Sprintf("OpenFEC %s request failed: %v", e.Endpoint, e.Err)
	}
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }

func (e *RemoteAPIError) Is(target error) bool {
	return target == ErrCredentialRejected && e.StatusCode == http.StatusForbidden
}

// InvalidQueryError reports a query rejected before any request is made.
type InvalidQueryError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
