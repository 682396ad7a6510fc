package fss

import "time"

// Clock supplies the signing time and the base of presigned expiries
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns a Clock that is stuck at t
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
