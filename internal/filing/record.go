// SPDX-License-Identifier: Apache-2.0

package filing

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/segmentio/encoding/json"
)

// Kind tags the scalar held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindDate
)

// DateLayout is the calendar-date layout used when rendering date values.
const DateLayout = "2006-01-02"

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Value is one scalar field of a filing record. Numbers keep the exact
// decimal text they were decoded from.
type Value struct {
	kind Kind
	text string
	date time.Time
}

// Null returns the empty value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Date returns a date value; the time of day is dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseNumber validates s as a decimal number and keeps its text. Text that
// is numeric but not valid JSON (".5", "+3", "007") is normalized.
func ParseNumber(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if jsonNumber.MatchString(s) {
		return Value{kind: KindNumber, text: s}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", s)
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}, nil
}

func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// String renders v the way it appears in output, without JSON quoting.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindNumber:
		return v.text
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return ""
	}
}

// Time returns the date held by a date value.
func (v Value) Time() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Interface converts v into a plain Go value suitable for generic encoders.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return stdjson.Number(v.text)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.text), nil
	case KindDate:
		return []byte(`"` + v.date.Format(DateLayout) + `"`), nil
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML emits numbers verbatim so amounts keep their decoded precision.
func (v Value) MarshalYAML() ([]byte, error) {
	switch v.kind {
	case KindText:
		b, err := yaml.Marshal(v.text)
		if err != nil {
			return nil, err
		}
		return bytes.TrimRight(b, "\n"), nil
	case KindNumber:
		return []byte(v.text), nil
	case KindDate:
		return []byte(`"` + v.date.Format(DateLayout) + `"`), nil
	default:
		return []byte("null"), nil
	}
}

// Field is one named value of a record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered set of fields. Field names come from the decoder's
// layout for the record's form or schedule.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in order.
func NewRecord(fields ...Field) Record {
	return Record{fields: fields}
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the record's fields in order. Callers must not modify it.
func (r Record) Fields() []Field { return r.fields }

// Get returns the value of the named field.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Map converts the record into a generic map, losing field order.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Name] = f.Value.Interface()
	}
	return m
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Record) MarshalYAML() (interface{}, error) {
	m := make(yaml.MapSlice, 0, len(r.fields))
	for _, f := range r.fields {
		m = append(m, yaml.MapItem{Key: f.Name, Value: f.Value})
	}
	return m, nil
}
