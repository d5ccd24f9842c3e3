package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.March, 9), d)
	assert.Equal(t, "2024-03-09", d.String())

	_, err = Parse("09/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddDaysAcrossMonthAndLeapYear(t *testing.T) {
	assert.Equal(t, New(2024, time.March, 1), New(2024, time.February, 28).AddDays(2))
	assert.Equal(t, New(2023, time.December, 31), New(2024, time.January, 1).AddDays(-1))
}

func TestDaysSinceIgnoresDaylightSaving(t *testing.T) {
	// Spans the US spring-forward weekend.
	start := New(2024, time.March, 9)
	end := New(2024, time.March, 11)
	assert.Equal(t, 2, end.DaysSince(start))
	assert.Equal(t, -2, start.DaysSince(end))
	assert.True(t, start.Before(end))
	assert.True(t, end.After(start))
}

func TestOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	instant := time.Date(2024, time.June, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, New(2024, time.June, 2), Of(instant.In(loc)))
}

func TestJSON(t *testing.T) {
	type payload struct {
		Target Date `json:"target"`
	}

	b, err := json.Marshal(payload{Target: New(2025, time.January, 15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"2025-01-15"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"target":null}`), &p))
	assert.True(t, p.Target.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"target":"tomorrow"}`), &p))
}

func TestScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-05-05"))
	assert.Equal(t, New(2025, time.May, 5), d)

	require.NoError(t, d.Scan([]byte("")))
	assert.True(t, d.IsZero())

	v, err := New(2025, time.May, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-05-05", v)

	assert.Error(t, d.Scan(42))
}
