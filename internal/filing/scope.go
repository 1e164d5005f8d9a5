// SPDX-License-Identifier: Apache-2.0

package filing

import "strings"

// Selection is the caller's request for which parts of a filing to decode.
type Selection struct {
	// SummaryOnly requests the filing summary and no itemizations.
	SummaryOnly bool
	// Schedules names the schedules to decode. Empty, or the single value
	// "all", means every schedule.
	Schedules []string
	// OmitSummary drops the summary from the output.
	OmitSummary bool
}

// Scope is the resolved decode scope handed to decoders and projectors.
type Scope struct {
	Summary   bool
	Schedules []Schedule
}

// SummaryOnly reports whether the scope decodes no itemizations.
func (s Scope) SummaryOnly() bool {
	return len(s.Schedules) == 0
}

// Includes reports whether itemizations of sch are in scope.
func (s Scope) Includes(sch Schedule) bool {
	for _, in := range s.Schedules {
		if in == sch {
			return true
		}
	}
	return false
}

// ResolveScope turns a Selection into a Scope. Schedule order follows the
// order of first mention; duplicates are dropped.
func ResolveScope(sel Selection) (Scope, error) {
	if sel.SummaryOnly {
		if len(sel.Schedules) > 0 {
			return Scope{}, &InvalidSelectionError{Reason: "summary-only cannot be combined with schedule filters"}
		}
		if sel.OmitSummary {
			return Scope{}, &InvalidSelectionError{Reason: "summary-only cannot be combined with omitting the summary"}
		}
		return Scope{Summary: true}, nil
	}

	scope := Scope{Summary: !sel.OmitSummary}
	if len(sel.Schedules) == 0 || (len(sel.Schedules) == 1 && strings.EqualFold(strings.TrimSpace(sel.Schedules[0]), "all")) {
		scope.Schedules = append([]Schedule(nil), AllSchedules...)
		return scope, nil
	}

	seen := make(map[Schedule]bool, len(sel.Schedules))
	for _, name := range sel.Schedules {
		sch, err := ParseSchedule(name)
		if err != nil {
			return Scope{}, err
		}
		if seen[sch] {
			continue
		}
		seen[sch] = true
		scope.Schedules = append(scope.Schedules, sch)
	}
	return scope, nil
}
