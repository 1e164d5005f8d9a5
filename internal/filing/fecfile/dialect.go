// SPDX-License-Identifier: Apache-2.0

package fecfile

import (
	"encoding/csv"
	"fmt"
	"strings"
)

const fieldSeparator = "\x1c"

// dialect splits the lines of one .fec encoding into raw fields.
type dialect interface {
	// CanHandle inspects the header line.
	CanHandle(header string) bool
	Split(line string) ([]string, error)
	// RecordType returns the first field without splitting the whole line.
	RecordType(line string) string
	Name() string
}

// dialects are tried in order; the first that can handle the header wins.
var dialects = []dialect{
	separatorDialect{},
	commaDialect{},
}

func selectDialect(header string) (dialect, error) {
	for _, d := range dialects {
		if d.CanHandle(header) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognised header %q", ErrUnsupportedFormat, truncate(header, 40))
}

// separatorDialect handles version 6 and later files, delimited by the ASCII
// file separator character.
type separatorDialect struct{}

func (separatorDialect) Name() string { return "fs" }

func (separatorDialect) CanHandle(header string) bool {
	return strings.HasPrefix(strings.ToUpper(header), "HDR"+fieldSeparator)
}

func (separatorDialect) Split(line string) ([]string, error) {
	fields := strings.Split(line, fieldSeparator)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, nil
}

func (separatorDialect) RecordType(line string) string {
	if i := strings.Index(line, fieldSeparator); i >= 0 {
		line = line[:i]
	}
	return strings.ToUpper(strings.TrimSpace(line))
}

// commaDialect handles older comma-delimited files with quoted fields.
type commaDialect struct{}

func (commaDialect) Name() string { return "csv" }

func (commaDialect) CanHandle(header string) bool {
	h := strings.ToUpper(strings.TrimLeft(header, `"`))
	return strings.HasPrefix(h, `HDR",`) || strings.HasPrefix(h, "HDR,")
}

func (commaDialect) Split(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("split comma-delimited record: %w", err)
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, nil
}

func (commaDialect) RecordType(line string) string {
	if i := strings.IndexByte(line, ','); i >= 0 {
		line = line[:i]
	}
	return strings.ToUpper(strings.Trim(strings.TrimSpace(line), `"`))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
