package delivery

import "time"

// Clock abstracts timer scheduling so the delivery state machine can be
// driven by fake time in tests, or later by real acknowledgements instead of
// fixed delays.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewClock returns the wall clock.
func NewClock() Clock { return realClock{} }
