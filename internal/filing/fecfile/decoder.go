// SPDX-License-Identifier: Apache-2.0

package fecfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fecmcp/fec-mcp/internal/filing"
)

var (
	// ErrUnsupportedFormat reports a file that is not an electronic filing
	// this package can read, including pre-version-6 "/* Header" files.
	ErrUnsupportedFormat = errors.New("unsupported .fec format")
	// ErrUnmappedField reports non-empty columns beyond a record's layout.
	ErrUnmappedField = errors.New("unmapped field")
)

// Header is the HDR record that opens every filing.
type Header struct {
	Version         string
	SoftwareName    string
	SoftwareVersion string
	ReportID        string
	ReportNumber    string
	Comment         string
}

func parseHeader(fields []string) Header {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Header{
		Version:         get(2),
		SoftwareName:    get(3),
		SoftwareVersion: get(4),
		ReportID:        get(5),
		ReportNumber:    get(6),
		Comment:         get(7),
	}
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithStrictLayouts rejects records carrying non-empty columns beyond their
// layout instead of dropping those columns.
func WithStrictLayouts(strict bool) Option {
	return func(d *Decoder) { d.strict = strict }
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Decoder reads one .fec filing. The summary comes from the form record on
// the second line; each call to Itemizations rescans the body and decodes
// only records of the requested schedule, so memory stays bounded by a
// single record whatever the filing size.
type Decoder struct {
	r       io.ReaderAt
	size    int64
	dialect dialect
	header  Header
	strict  bool
	logger  *zap.Logger

	formLine   string
	formLineNo int
	bodyOffset int64
	bodyLineNo int

	decoded [6]atomic.Int64

	mu      sync.Mutex
	dropped map[string]bool
}

var _ filing.Decoder = (*Decoder)(nil)

// Open reads the header and form record of the filing in r.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Decoder, error) {
	d := &Decoder{
		r:       r,
		size:    size,
		logger:  zap.NewNop(),
		dropped: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}

	lr := newLineReader(io.NewSectionReader(r, 0, size), 0, 0)
	hdr, err := lr.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty filing", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	d.dialect, err = selectDialect(hdr)
	if err != nil {
		return nil, err
	}
	fields, err := d.dialect.Split(hdr)
	if err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}
	d.header = parseHeader(fields)

	d.formLine, err = lr.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing form record", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("read form record: %w", err)
	}
	d.formLineNo = lr.line
	d.bodyOffset = lr.offset
	d.bodyLineNo = lr.line

	d.logger.Debug("opened filing",
		zap.String("dialect", d.dialect.Name()),
		zap.String("fec_version", d.header.Version),
		zap.String("form_type", d.FormType()),
		zap.Int64("size", size))
	return d, nil
}

// Header returns the filing's HDR record.
func (d *Decoder) Header() Header { return d.header }

// FormType returns the record type of the form record, e.g. "F3XN".
func (d *Decoder) FormType() string {
	return d.dialect.RecordType(d.formLine)
}

// Decoded returns how many records of s have been decoded so far. Records of
// other schedules skipped during a scan are not counted.
func (d *Decoder) Decoded(s filing.Schedule) int {
	if !s.Valid() {
		return 0
	}
	return int(d.decoded[s].Load())
}

// Summary decodes the form record. Forms without a full layout yield their
// leading identification columns.
func (d *Decoder) Summary(ctx context.Context) (filing.Record, error) {
	if err := ctx.Err(); err != nil {
		return filing.Record{}, err
	}
	l := lookupForm(d.FormType())
	fields, err := d.dialect.Split(d.formLine)
	if err != nil {
		return filing.Record{}, fmt.Errorf("line %d: %w", d.formLineNo, err)
	}
	return d.decodeRow(l, fields, d.formLineNo)
}

// Itemizations scans the body for records of s. Lines of other record types
// are skipped on their record type alone, before any field is split.
func (d *Decoder) Itemizations(ctx context.Context, s filing.Schedule) iter.Seq2[filing.Record, error] {
	return func(yield func(filing.Record, error) bool) {
		l, ok := scheduleLayouts[s]
		if !ok {
			yield(filing.Record{}, fmt.Errorf("no layout for %s", s))
			return
		}

		section := io.NewSectionReader(d.r, d.bodyOffset, d.size-d.bodyOffset)
		lr := newLineReader(section, d.bodyOffset, d.bodyLineNo)
		inText := false
		for {
			if err := ctx.Err(); err != nil {
				yield(filing.Record{}, err)
				return
			}
			line, err := lr.next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(filing.Record{}, fmt.Errorf("read line %d: %w", lr.line+1, err))
				return
			}

			switch marker := strings.ToUpper(strings.TrimSpace(line)); {
			case marker == "[BEGINTEXT]":
				inText = true
				continue
			case marker == "[ENDTEXT]":
				inText = false
				continue
			case inText:
				continue
			}

			if sch, ok := scheduleOf(d.dialect.RecordType(line)); !ok || sch != s {
				continue
			}
			d.decoded[s].Add(1)

			fields, err := d.dialect.Split(line)
			if err != nil {
				yield(filing.Record{}, fmt.Errorf("line %d: %w", lr.line, err))
				return
			}
			rec, err := d.decodeRow(l, fields, lr.line)
			if err != nil {
				yield(filing.Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (d *Decoder) decodeRow(l layout, fields []string, line int) (filing.Record, error) {
	if len(fields) > len(l.columns) && !allBlank(fields[len(l.columns):]) {
		if d.strict && !l.partial {
			return filing.Record{}, fmt.Errorf("line %d: %s record has %d fields but its layout maps %d: %w",
				line, l.name, len(fields), len(l.columns), ErrUnmappedField)
		}
		d.noteDropped(l.name, len(fields)-len(l.columns))
	}

	out := make([]filing.Field, len(l.columns))
	for i, col := range l.columns {
		raw := ""
		if i < len(fields) {
			raw = fields[i]
		}
		v, err := col.decode(raw)
		if err != nil {
			return filing.Record{}, fmt.Errorf("line %d: %s field %s: %w", line, l.name, col.name, err)
		}
		out[i] = filing.Field{Name: col.name, Value: v}
	}
	return filing.NewRecord(out...), nil
}

// noteDropped logs unmapped columns once per layout.
func (d *Decoder) noteDropped(layout string, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dropped[layout] {
		return
	}
	d.dropped[layout] = true
	d.logger.Debug("dropping unmapped columns", zap.String("layout", layout), zap.Int("columns", n))
}

func allBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

// lineReader yields non-blank lines and tracks the byte offset just past the
// last line returned.
type lineReader struct {
	br     *bufio.Reader
	offset int64
	line   int
}

func newLineReader(r io.Reader, offset int64, line int) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024), offset: offset, line: line}
}

func (l *lineReader) next() (string, error) {
	for {
		s, err := l.br.ReadString('\n')
		if s == "" && err != nil {
			return "", err
		}
		l.offset += int64(len(s))
		l.line++
		s = strings.TrimRight(s, "\r\n")
		if strings.TrimSpace(s) != "" {
			return s, nil
		}
		if err != nil {
			return "", err
		}
	}
}
