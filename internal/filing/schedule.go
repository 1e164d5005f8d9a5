// SPDX-License-Identifier: Apache-2.0

// Package filing selects and projects the contents of FEC electronic filings.
// A Scope picks the summary and schedules to decode; Stream and Aggregate turn
// a Decoder into line-delimited units or one materialized document.
package filing

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies one electronic filing on the FEC filing host.
type ID int64

// ParseID parses a filing ID. Only positive integers are accepted.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, &InvalidFilingIDError{Value: s}
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Schedule is one of the itemization schedules a filing can carry.
type Schedule int

const (
	ScheduleA Schedule = iota + 1
	ScheduleB
	ScheduleC
	ScheduleD
	ScheduleE
)

// AllSchedules lists every schedule in enumeration order.
var AllSchedules = []Schedule{ScheduleA, ScheduleB, ScheduleC, ScheduleD, ScheduleE}

var scheduleInfo = map[Schedule]struct {
	letter      string
	description string
}{
	ScheduleA: {"A", "Contributions"},
	ScheduleB: {"B", "Disbursements"},
	ScheduleC: {"C", "Loans"},
	ScheduleD: {"D", "Debts"},
	ScheduleE: {"E", "Independent Expenditures"},
}

// Letter returns the single-letter schedule code, e.g. "A".
func (s Schedule) Letter() string {
	return scheduleInfo[s].letter
}

// Code returns the record type prefix used in .fec files, e.g. "SA".
func (s Schedule) Code() string {
	return "S" + s.Letter()
}

// Name returns the display name used as the itemization key, e.g. "Schedule A".
func (s Schedule) Name() string {
	return "Schedule " + s.Letter()
}

// Description returns what the schedule itemizes.
func (s Schedule) Description() string {
	return scheduleInfo[s].description
}

func (s Schedule) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
	return s.Name()
}

// Valid reports whether s is one of the enumerated schedules.
func (s Schedule) Valid() bool {
	_, ok := scheduleInfo[s]
	return ok
}

// ParseSchedule accepts a schedule letter ("A"), record code ("SA") or
// display name ("Schedule A"), case-insensitively.
func ParseSchedule(name string) (Schedule, error) {
	v := strings.ToUpper(strings.TrimSpace(name))
	v = strings.TrimPrefix(v, "SCHEDULE ")
	if len(v) == 2 && v[0] == 'S' {
		v = v[1:]
	}
	for _, s := range AllSchedules {
		if v == s.Letter() {
			return s, nil
		}
	}
	return 0, &InvalidScheduleError{Value: name}
}
