package core

import (
	"time"
)

// TimestampLayout is the second-resolution text form interactions are stored in
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp represents a point in time recorded with second resolution
type Timestamp time.Time

// NewTimestamp truncates t to whole seconds
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.Truncate(time.Second))
}

// Clock returns the current time; swapped out in tests
type Clock func() time.Time

// SystemClock is the wall clock in local time
func SystemClock() time.Time { return time.Now() }

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// String formats the timestamp with TimestampLayout
func (t Timestamp) String() string {
	return time.Time(t).Format(TimestampLayout)
}

// ParseTimestamp reads a timestamp stored with TimestampLayout
func ParseTimestamp(s string) (Timestamp, error) {
	tm, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp(tm), nil
}
