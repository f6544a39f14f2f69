package clock

import "time"

// Clock abstracts time so payment and settlement flows can be tested at a
// fixed instant. All timestamps are UTC.
type Clock interface {
	Now() time.Time
}

// NewSystem returns the wall clock.
func NewSystem() Clock {
	return sysClock{}
}

type sysClock struct{}

func (sysClock) Now() time.Time {
	return time.Now().UTC()
}

// NewFixed returns a clock frozen at t, for tests.
func NewFixed(t time.Time) Clock {
	return frozenClock{at: t.UTC()}
}

type frozenClock struct {
	at time.Time
}

func (c frozenClock) Now() time.Time {
	return c.at
}
