package domain

import "time"

// TimeInterval is a half-open range [Start, End): the start instant belongs
// to the interval, the end instant does not, so back-to-back appointments do
// not overlap.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i TimeInterval) IsValid() bool {
	return i.Start.Before(i.End)
}

func (i TimeInterval) UTC() TimeInterval {
	return TimeInterval{Start: i.Start.UTC(), End: i.End.UTC()}
}
