package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialcli/pkg/contracts/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell domain.Cell
		want time.Time
		ok   bool
	}{
		{
			name: "native time truncated to day",
			cell: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "excel serial number",
			cell: 45292.0, // 2024-01-01
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "serial as numeric string",
			cell: "45292",
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "iso date string",
			cell: "2024-03-15",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "day first dotted",
			cell: "15.03.2024",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "day first slashed",
			cell: "15/03/2024",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "n/a marker", cell: "n/a", ok: false},
		{name: "empty string", cell: "  ", ok: false},
		{name: "nil cell", cell: nil, ok: false},
		{name: "garbage", cell: "not a date", ok: false},
		{name: "non-positive serial", cell: -1.0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseAgeMonths(t *testing.T) {
	tests := []struct {
		name string
		cell domain.Cell
		want float64
		ok   bool
	}{
		{name: "years and months", cell: "1Y 8M", want: 20, ok: true},
		{name: "lowercase with spaces", cell: "2 y 3 m", want: 27, ok: true},
		{name: "months only", cell: "6M", want: 6, ok: true},
		{name: "years only", cell: "3Y", want: 36, ok: true},
		{name: "bare number string", cell: "14", want: 14, ok: true},
		{name: "numeric cell", cell: 18.5, want: 18.5, ok: true},
		{name: "fractional years", cell: "1.5Y", want: 18, ok: true},
		{name: "n/a", cell: "N/A", ok: false},
		{name: "empty", cell: "", ok: false},
		{name: "nil", cell: nil, ok: false},
		{name: "garbage", cell: "unknown", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAgeMonths(tt.cell)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "2001", CellString(2001.0), "numeric ids must not grow a decimal point")
	assert.Equal(t, "1.5", CellString(1.5))
	assert.Equal(t, "R-1042", CellString("R-1042"))
	assert.Equal(t, "2024-01-05", CellString(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)))
}
