// SPDX-License-Identifier: Apache-2.0

package filing

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"

	"github.com/goccy/go-yaml"
	"github.com/segmentio/encoding/json"
)

// Decoder is the filing decoder consumed by the projector. Itemizations must
// decode lazily: one record per pull, and nothing for schedules never asked for.
type Decoder interface {
	Summary(ctx context.Context) (Record, error)
	Itemizations(ctx context.Context, s Schedule) iter.Seq2[Record, error]
}

// UnitKind discriminates stream units.
type UnitKind string

const (
	UnitSummary     UnitKind = "summary"
	UnitItemization UnitKind = "itemization"
)

// Unit is one element of a filing stream.
type Unit struct {
	Kind UnitKind
	// Schedule is set for itemization units only.
	Schedule Schedule
	Data     Record
}

type unitJSON struct {
	DataType UnitKind `json:"data_type"`
	Schedule string   `json:"schedule,omitempty"`
	Data     Record   `json:"data"`
}

func (u Unit) MarshalJSON() ([]byte, error) {
	w := unitJSON{DataType: u.Kind, Data: u.Data}
	if u.Kind == UnitItemization {
		w.Schedule = u.Schedule.Name()
	}
	return json.Marshal(w)
}

// Stream projects a decoded filing as a lazy sequence of units: the summary
// first when in scope, then each schedule's itemizations in scope order.
// Records are decoded only as the consumer pulls them, and stopping the range
// loop stops decoding. A decoder failure ends the sequence with a
// *DecodeError. The sequence can be ranged over once.
func Stream(ctx context.Context, id ID, dec Decoder, scope Scope) iter.Seq2[Unit, error] {
	var consumed atomic.Bool
	return func(yield func(Unit, error) bool) {
		if consumed.Swap(true) {
			yield(Unit{}, ErrStreamConsumed)
			return
		}

		emitted := 0
		fail := func(sch Schedule, err error) {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				yield(Unit{}, err)
				return
			}
			yield(Unit{}, &DecodeError{FilingID: id, Schedule: sch, Emitted: emitted, Err: err})
		}

		if scope.Summary {
			if err := ctx.Err(); err != nil {
				yield(Unit{}, err)
				return
			}
			rec, err := dec.Summary(ctx)
			if err != nil {
				fail(0, err)
				return
			}
			if !yield(Unit{Kind: UnitSummary, Data: rec}, nil) {
				return
			}
			emitted++
		}

		for _, sch := range scope.Schedules {
			for rec, err := range dec.Itemizations(ctx, sch) {
				if err != nil {
					fail(sch, err)
					return
				}
				if !yield(Unit{Kind: UnitItemization, Schedule: sch, Data: rec}, nil) {
					return
				}
				emitted++
			}
		}
	}
}

// ScheduleItems holds one schedule's itemizations in decode order.
type ScheduleItems struct {
	Schedule Schedule
	Records  []Record
}

// AggregateFiling is a fully materialized filing.
type AggregateFiling struct {
	// Filing is nil when the summary was not requested.
	Filing       *Record
	Itemizations []ScheduleItems
}

// Items returns the itemizations collected for s.
func (a *AggregateFiling) Items(s Schedule) ([]Record, bool) {
	for _, it := range a.Itemizations {
		if it.Schedule == s {
			return it.Records, true
		}
	}
	return nil, false
}

// Aggregate collects the whole projection in memory. It performs no size
// check; probe large filings with a summary-only scope first.
func Aggregate(ctx context.Context, id ID, dec Decoder, scope Scope) (*AggregateFiling, error) {
	agg := &AggregateFiling{Itemizations: make([]ScheduleItems, len(scope.Schedules))}
	index := make(map[Schedule]int, len(scope.Schedules))
	for i, sch := range scope.Schedules {
		agg.Itemizations[i] = ScheduleItems{Schedule: sch, Records: []Record{}}
		index[sch] = i
	}

	for u, err := range Stream(ctx, id, dec, scope) {
		if err != nil {
			return nil, err
		}
		switch u.Kind {
		case UnitSummary:
			rec := u.Data
			agg.Filing = &rec
		case UnitItemization:
			i := index[u.Schedule]
			agg.Itemizations[i].Records = append(agg.Itemizations[i].Records, u.Data)
		}
	}
	return agg, nil
}

type orderedItemizations []ScheduleItems

func (o orderedItemizations) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, it := range o {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(it.Schedule.Name())
		if err != nil {
			return nil, err
		}
		records, err := json.Marshal(it.Records)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, records...)
	}
	return append(buf, '}'), nil
}

type aggregateJSON struct {
	Filing       *Record             `json:"filing,omitempty"`
	Itemizations orderedItemizations `json:"itemizations"`
}

func (a *AggregateFiling) MarshalJSON() ([]byte, error) {
	return json.Marshal(aggregateJSON{Filing: a.Filing, Itemizations: a.Itemizations})
}

func (a *AggregateFiling) MarshalYAML() (interface{}, error) {
	items := make(yaml.MapSlice, 0, len(a.Itemizations))
	for _, it := range a.Itemizations {
		items = append(items, yaml.MapItem{Key: it.Schedule.Name(), Value: it.Records})
	}
	out := yaml.MapSlice{}
	if a.Filing != nil {
		out = append(out, yaml.MapItem{Key: "filing", Value: *a.Filing})
	}
	return append(out, yaml.MapItem{Key: "itemizations", Value: items}), nil
}
