package daterange_test

import (
	"guesthouse/shared/daterange"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	parsed, err := time.Parse(daterange.DateLayout, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{name: "partial overlap", aStart: "2025-09-20", aEnd: "2025-09-22", bStart: "2025-09-21", bEnd: "2025-09-23", want: true},
		{name: "checkout day equals checkin day", aStart: "2025-09-20", aEnd: "2025-09-22", bStart: "2025-09-22", bEnd: "2025-09-24", want: false},
		{name: "contained range", aStart: "2025-09-01", aEnd: "2025-09-30", bStart: "2025-09-10", bEnd: "2025-09-11", want: true},
		{name: "identical range", aStart: "2025-09-20", aEnd: "2025-09-22", bStart: "2025-09-20", bEnd: "2025-09-22", want: true},
		{name: "disjoint before", aStart: "2025-09-01", aEnd: "2025-09-05", bStart: "2025-09-10", bEnd: "2025-09-12", want: false},
		{name: "degenerate query", aStart: "2025-09-20", aEnd: "2025-09-22", bStart: "2025-09-21", bEnd: "2025-09-21", want: false},
		{name: "reversed query", aStart: "2025-09-20", aEnd: "2025-09-22", bStart: "2025-09-23", bEnd: "2025-09-19", want: false},
		{name: "degenerate booking", aStart: "2025-09-21", aEnd: "2025-09-21", bStart: "2025-09-20", bEnd: "2025-09-22", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := daterange.Overlaps(date(tt.aStart), date(tt.aEnd), date(tt.bStart), date(tt.bEnd))
			assert.Equal(t, tt.want, got)

			symmetric := daterange.Overlaps(date(tt.bStart), date(tt.bEnd), date(tt.aStart), date(tt.aEnd))
			assert.Equal(t, got, symmetric)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: "2025-09-21", want: "2025-09-21"},
		{name: "padded calendar date", input: " 2025-09-21 ", want: "2025-09-21"},
		{name: "timestamp", input: "2025-09-21T18:30:00+05:30", want: "2025-09-21"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "next tuesday", wantErr: true},
		{name: "impossible date", input: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := daterange.ParseDate(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, daterange.ErrInvalidDate)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, daterange.Format(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestEachDay(t *testing.T) {
	var days []string

	for day := range daterange.EachDay(date("2025-10-30"), date("2025-11-02")) {
		days = append(days, daterange.Format(day))
	}

	assert.Equal(t, []string{"2025-10-30", "2025-10-31", "2025-11-01", "2025-11-02"}, days)

	count := 0
	for range daterange.EachDay(date("2025-11-02"), date("2025-11-01")) {
		count++
	}

	assert.Zero(t, count)
}

func TestWeekOfMonth(t *testing.T) {
	tests := map[string]int{
		"2025-11-01": 1,
		"2025-11-07": 1,
		"2025-11-08": 2,
		"2025-11-28": 4,
		"2025-11-29": 5,
		"2025-12-31": 5,
	}

	for input, want := range tests {
		assert.Equal(t, want, daterange.WeekOfMonth(date(input)), input)
	}
}

func TestCombineDateTime(t *testing.T) {
	checkIn, err := daterange.CombineDateTime(date("2025-10-01"), "12:00")
	assert.NoError(t, err)
	assert.Equal(t, 12, checkIn.Hour())

	midnight, err := daterange.CombineDateTime(date("2025-10-01"), "")
	assert.NoError(t, err)
	assert.Equal(t, 0, midnight.Hour())
	assert.Equal(t, 1, midnight.Day())

	_, err = daterange.CombineDateTime(date("2025-10-01"), "noon")
	assert.Error(t, err)
}
