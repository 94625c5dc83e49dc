package services

import "time"

// Clock abstracts wall-clock reads so elapsed-time math is deterministic in
// tests. All accrual and quota arithmetic goes through a single injected
// Clock rather than scattered time.Now() calls.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func SystemClock() Clock {
	return systemClock{}
}
