// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/fecmcp/fec-mcp/internal/credential"
	"github.com/fecmcp/fec-mcp/internal/docquery"
	"github.com/fecmcp/fec-mcp/internal/filing"
	"github.com/fecmcp/fec-mcp/internal/openfec"
)

type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// errorKind classifies err for the structured error payload.
func errorKind(err error) string {
	var (
		invalidID        *filing.InvalidFilingIDError
		invalidSchedule  *filing.InvalidScheduleError
		invalidSelection *filing.InvalidSelectionError
		decodeErr        *filing.DecodeError
		fetchErr         *docquery.FetchError
		notFound         *credential.CredentialNotFoundError
		commandErr       *credential.CredentialCommandError
		keyringErr       *credential.KeyringError
		invalidQuery     *openfec.InvalidQueryError
		remoteErr        *openfec.RemoteAPIError
	)
	switch {
	case errors.As(err, &invalidID):
		return "invalid_filing_id"
	case errors.As(err, &invalidSchedule):
		return "invalid_schedule"
	case errors.As(err, &invalidSelection):
		return "invalid_selection"
	case errors.As(err, &fetchErr):
		return "fetch_error"
	case errors.As(err, &decodeErr):
		return "decode_error"
	case errors.As(err, &notFound):
		return "credential_not_found"
	case errors.As(err, &commandErr):
		return "credential_command"
	case errors.As(err, &keyringErr):
		return "keyring_error"
	case errors.Is(err, openfec.ErrCredentialRejected):
		return "credential_rejected"
	case errors.As(err, &remoteErr):
		return "remote_api_error"
	case errors.As(err, &invalidQuery):
		return "invalid_query"
	}
	return "error"
}

// writeError writes err as a redacted JSON payload.
func writeError(w io.Writer, err error) {
	payload := errorPayload{Error: errorBody{
		Kind:    errorKind(err),
		Message: redactor.Redact(err.Error()),
	}}
	b, mErr := json.Marshal(payload)
	if mErr != nil {
		fmt.Fprintf(w, "Error: %s\n", payload.Error.Message)
		return
	}
	fmt.Fprintln(w, string(b))
}
