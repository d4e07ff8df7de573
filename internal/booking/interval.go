package booking

import "time"

// Interval is a half-open span of time [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalizes both bounds to UTC at microsecond precision, the
// resolution both stores keep.
func NewInterval(start, end time.Time) Interval {
	return Interval{
		Start: start.UTC().Truncate(time.Microsecond),
		End:   end.UTC().Truncate(time.Microsecond),
	}
}

// Valid reports whether the interval is non-empty.
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Conflicts reports whether two half-open intervals share any instant.
// Touching intervals (one ends exactly when the other starts) do not conflict.
func Conflicts(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
