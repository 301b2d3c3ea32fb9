package gametime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeAddCarries(t *testing.T) {
	start, err := New(1, 23, 59, 58)
	require.NoError(t, err)

	next, ok := start.Add(Seconds(3))
	require.True(t, ok)
	assert.Equal(t, Time{Days: 2, Hours: 0, Minutes: 0, Seconds: 1}, next)
}

func TestTimeSubGoesNegative(t *testing.T) {
	start := Default()

	next, ok := start.Sub(Days(3))
	require.True(t, ok)
	assert.Equal(t, -2, next.Days)
	assert.Equal(t, 8, next.Hours)
}

func TestTimeRounds(t *testing.T) {
	next, ok := Default().Add(Rounds(10))
	require.True(t, ok)
	assert.Equal(t, Time{Days: 1, Hours: 8, Minutes: 1, Seconds: 0}, next)
}

func TestTimeShortStringRoundTrip(t *testing.T) {
	times := []Time{
		Default(),
		{Days: -2, Hours: 23, Minutes: 5, Seconds: 59},
		{Days: 100, Hours: 0, Minutes: 0, Seconds: 0},
	}

	for _, original := range times {
		parsed, err := Parse(original.ShortString())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	}
}

func TestTimeLongString(t *testing.T) {
	assert.Equal(t, "day 1 at 8:00:00 am", Default().LongString())
	assert.Equal(t, "day 1 at 12:00:00 am", Time{Days: 1}.LongString())
	assert.Equal(t, "day 1 at 12:30:00 pm", Time{Days: 1, Hours: 12, Minutes: 30}.LongString())
	assert.Equal(t, "day 1 at 11:00:00 pm", Time{Days: 1, Hours: 23}.LongString())
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "1:08:00", "1:24:00:00", "1:08:61:00", "x:08:00:00"} {
		_, err := Parse(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		raw  string
		want Interval
	}{
		{"1d", Days(1)},
		{"12h", Hours(12)},
		{"30m", Minutes(30)},
		{"10s", Seconds(10)},
		{"3r", Rounds(3)},
		{"d", Days(1)},
		{"r", Rounds(1)},
	}

	for _, tt := range tests {
		got, err := ParseInterval(tt.raw)
		require.NoError(t, err, "input %q", tt.raw)
		assert.Equal(t, tt.want, got, "input %q", tt.raw)
	}

	for _, raw := range []string{"", "1x", "-1d", "1.5h", "h1"} {
		_, err := ParseInterval(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
