package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-30")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.January, 30), d)
	assert.Equal(t, "2026-01-30", d.String())

	_, err = ParseDate("30/01/2026")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		CheckIn  Date `json:"check_in"`
		CheckOut Date `json:"check_out"`
	}
	err := json.Unmarshal([]byte(`{"check_in":"2026-02-01","check_out":null}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.February, 1), payload.CheckIn)
	assert.True(t, payload.CheckOut.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"2026-02-01","check_out":null}`, string(out))
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2026, time.January, 30)
	assert.Equal(t, NewDate(2026, time.February, 2), d.AddDays(3))
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, time.Friday, d.Weekday())
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, time.March, 3, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, NewDate(2026, time.March, 3), d)

	require.NoError(t, d.Scan([]byte("2026-03-04")))
	assert.Equal(t, NewDate(2026, time.March, 4), d)

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2026, time.March, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", v)
}
