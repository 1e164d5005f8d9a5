// SPDX-License-Identifier: Apache-2.0

package filing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fecmcp/fec-mcp/internal/filing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    filing.ID
		wantErr bool
	}{
		{name: "plain integer", input: "1896830", want: 1896830},
		{name: "surrounding whitespace", input: " 42 ", want: 42},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "not a number", input: "FEC-1896830", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filing.ParseID(tt.input)
			if tt.wantErr {
				var target *filing.InvalidFilingIDError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, tt.input, target.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		input   string
		want    filing.Schedule
		wantErr bool
	}{
		{input: "A", want: filing.ScheduleA},
		{input: "b", want: filing.ScheduleB},
		{input: "SC", want: filing.ScheduleC},
		{input: "Schedule D", want: filing.ScheduleD},
		{input: "schedule e", want: filing.ScheduleE},
		{input: "F", wantErr: true},
		{input: "SC1", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := filing.ParseSchedule(tt.input)
			if tt.wantErr {
				var target *filing.InvalidScheduleError
				require.ErrorAs(t, err, &target)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedule_Names(t *testing.T) {
	assert.Equal(t, "SA", filing.ScheduleA.Code())
	assert.Equal(t, "Schedule E", filing.ScheduleE.Name())
	assert.Equal(t, "Loans", filing.ScheduleC.Description())
	assert.False(t, filing.Schedule(0).Valid())
	assert.Equal(t, "Schedule(9)", filing.Schedule(9).String())
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name        string
		sel         filing.Selection
		want        filing.Scope
		wantErr     bool
		errContains string
	}{
		{
			name: "summary only",
			sel:  filing.Selection{SummaryOnly: true},
			want: filing.Scope{Summary: true},
		},
		{
			name: "no filter means every schedule",
			sel:  filing.Selection{},
			want: filing.Scope{Summary: true, Schedules: filing.AllSchedules},
		},
		{
			name: "all keyword",
			sel:  filing.Selection{Schedules: []string{"ALL"}},
			want: filing.Scope{Summary: true, Schedules: filing.AllSchedules},
		},
		{
			name: "single schedule",
			sel:  filing.Selection{Schedules: []string{"a"}},
			want: filing.Scope{Summary: true, Schedules: []filing.Schedule{filing.ScheduleA}},
		},
		{
			name: "order of first mention, duplicates dropped",
			sel:  filing.Selection{Schedules: []string{"E", "A", "SE", "Schedule A"}},
			want: filing.Scope{Summary: true, Schedules: []filing.Schedule{filing.ScheduleE, filing.ScheduleA}},
		},
		{
			name: "omit summary",
			sel:  filing.Selection{Schedules: []string{"B"}, OmitSummary: true},
			want: filing.Scope{Schedules: []filing.Schedule{filing.ScheduleB}},
		},
		{
			name:        "summary only with schedules",
			sel:         filing.Selection{SummaryOnly: true, Schedules: []string{"A"}},
			wantErr:     true,
			errContains: "schedule filters",
		},
		{
			name:        "summary only while omitting summary",
			sel:         filing.Selection{SummaryOnly: true, OmitSummary: true},
			wantErr:     true,
			errContains: "omitting the summary",
		},
		{
			name:        "unknown schedule",
			sel:         filing.Selection{Schedules: []string{"A", "Z"}},
			wantErr:     true,
			errContains: `"Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filing.ResolveScope(tt.sel)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want.Schedules) == 0, got.SummaryOnly())
			for _, sch := range tt.want.Schedules {
				assert.True(t, got.Includes(sch))
			}
		})
	}
}

func TestScope_Includes(t *testing.T) {
	scope := filing.Scope{Schedules: []filing.Schedule{filing.ScheduleB}}
	assert.True(t, scope.Includes(filing.ScheduleB))
	assert.False(t, scope.Includes(filing.ScheduleA))
	assert.False(t, filing.Scope{Summary: true}.Includes(filing.ScheduleA))
}

func TestResolveScope_DoesNotAliasAllSchedules(t *testing.T) {
	scope, err := filing.ResolveScope(filing.Selection{})
	require.NoError(t, err)
	scope.Schedules[0] = filing.ScheduleE
	assert.Equal(t, filing.ScheduleA, filing.AllSchedules[0])
}
