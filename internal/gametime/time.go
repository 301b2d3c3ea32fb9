// Package gametime tracks the in-game clock: an absolute day/time and the
// intervals the user advances it by. One combat round is six seconds.
package gametime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Time is an absolute in-game moment. Days may be negative (time before the
// campaign's day zero); hours, minutes and seconds are normalized.
type Time struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// New validates and builds a Time.
func New(days, hours, minutes, seconds int) (Time, error) {
	if hours < 0 || hours >= 24 || minutes < 0 || minutes >= 60 || seconds < 0 || seconds >= 60 {
		return Time{}, fmt.Errorf("invalid time %d:%d:%d:%d", days, hours, minutes, seconds)
	}
	return Time{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}, nil
}

// Default is the campaign start: day 1, 8 am.
func Default() Time {
	return Time{Days: 1, Hours: 8}
}

// Add applies an interval, normalizing carry in every unit. ok is false on
// overflow.
func (t Time) Add(interval Interval) (Time, bool) {
	days := int64(t.Days) + int64(interval.Days)
	hours := int64(t.Hours) + int64(interval.Hours)
	minutes := int64(t.Minutes) + int64(interval.Minutes)
	seconds := int64(t.Seconds) + int64(interval.Seconds) + int64(interval.Rounds)*6

	minutes += floorDiv(seconds, 60)
	seconds = floorMod(seconds, 60)
	hours += floorDiv(minutes, 60)
	minutes = floorMod(minutes, 60)
	days += floorDiv(hours, 24)
	hours = floorMod(hours, 24)

	if days > math.MaxInt32 || days < math.MinInt32 {
		return Time{}, false
	}
	return Time{Days: int(days), Hours: int(hours), Minutes: int(minutes), Seconds: int(seconds)}, true
}

// Sub applies an interval backwards.
func (t Time) Sub(interval Interval) (Time, bool) {
	return t.Add(Interval{
		Days:    -interval.Days,
		Hours:   -interval.Hours,
		Minutes: -interval.Minutes,
		Seconds: -interval.Seconds,
		Rounds:  -interval.Rounds,
	})
}

// ShortString renders the persisted form, "d:hh:mm:ss".
func (t Time) ShortString() string {
	return fmt.Sprintf("%d:%02d:%02d:%02d", t.Days, t.Hours, t.Minutes, t.Seconds)
}

// LongString renders the human form: "day 1 at 8:00:00 am".
func (t Time) LongString() string {
	hours, amPM := t.Hours, "am"
	switch {
	case t.Hours == 0:
		hours = 12
	case t.Hours == 12:
		amPM = "pm"
	case t.Hours > 12:
		hours, amPM = t.Hours-12, "pm"
	}
	return fmt.Sprintf("day %d at %d:%02d:%02d %s", t.Days, hours, t.Minutes, t.Seconds, amPM)
}

func (t Time) String() string {
	return t.ShortString()
}

// Parse reads the persisted "d:hh:mm:ss" form.
func Parse(raw string) (Time, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 4 {
		return Time{}, fmt.Errorf("invalid time %q", raw)
	}

	var values [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Time{}, fmt.Errorf("invalid time %q: %w", raw, err)
		}
		values[i] = v
	}
	return New(values[0], values[1], values[2], values[3])
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
