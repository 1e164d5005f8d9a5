// SPDX-License-Identifier: Apache-2.0

package filing

import (
	"errors"
	"fmt"
)

// ErrStreamConsumed is returned when a stream is ranged over a second time.
var ErrStreamConsumed = errors.New("filing stream already consumed")

// InvalidFilingIDError reports a filing ID that is not a positive integer.
type InvalidFilingIDError struct {
	Value string
}

func (e *InvalidFilingIDError) Error() string {
	return fmt.Sprintf("invalid filing ID %q: must be a positive integer", e.Value)
}

// InvalidScheduleError reports a schedule name outside A through E.
type InvalidScheduleError struct {
	Value string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule %q: expected one of A, B, C, D, E", e.Value)
}

// InvalidSelectionError reports mutually exclusive selection options.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return "invalid selection: " + e.Reason
}

// DecodeError ends a projection when the decoder fails. Emitted counts the
// units already handed to the consumer; they are not retracted.
type DecodeError struct {
	FilingID ID
	// Schedule is zero when the failure happened while decoding the summary.
	Schedule Schedule
	Emitted  int
	Err      error
}

func (e *DecodeError) Error() string {
	part := "summary"
	if e.Schedule.Valid() {
		part = e.Schedule.Name()
	}
	return fmt.Sprintf("decode filing %s (%s) after %d units: %v", e.FilingID, part, e.Emitted, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
