// SPDX-License-Identifier: Apache-2.0

package filing

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/segmentio/encoding/json"
)

// Format selects the encoding of aggregate output.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q: expected json or yaml", s)
}

// WriteStream writes units as newline-delimited JSON, one write per unit, and
// returns how many units were written. The next unit is pulled only after the
// previous one has been written. On error, lines already written stay written.
func WriteStream(w io.Writer, units iter.Seq2[Unit, error]) (int, error) {
	n := 0
	for u, err := range units {
		if err != nil {
			return n, err
		}
		line, err := json.Marshal(u)
		if err != nil {
			return n, fmt.Errorf("encode unit %d: %w", n+1, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return n, fmt.Errorf("write unit %d: %w", n+1, err)
		}
		n++
	}
	return n, nil
}

// WriteAggregate encodes a whole filing in the given format.
func WriteAggregate(w io.Writer, agg *AggregateFiling, format Format) error {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatYAML:
		out, err = yaml.Marshal(agg)
	default:
		out, err = json.MarshalIndent(agg, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode filing as %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}
