package clock

import "time"

// Clock is the time source used for "not in the past" validation and for
// conference request ids, injectable so both are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func System() Clock {
	return systemClock{}
}
