package benchmark

import "time"

// Instant is a reading of the wall and process CPU clocks.
type Instant struct {
	Wall   time.Time
	User   time.Duration
	System time.Duration
}

// Sub returns the cost between start and i as a TimeSample.
func (i Instant) Sub(start Instant) TimeSample {
	return TimeSample{
		Wall:   nonNegative(i.Wall.Sub(start.Wall)),
		User:   nonNegative(i.User - start.User),
		System: nonNegative(i.System - start.System),
	}
}

func nonNegative(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// Clock reads the current Instant.
type Clock interface {
	Now() Instant
}

// ProcessClock reads the monotonic wall clock and the CPU time consumed by the
// whole process.
type ProcessClock struct{}

func (ProcessClock) Now() Instant {
	user, system := cpuTimes()
	return Instant{
		Wall:   time.Now(),
		User:   user,
		System: system,
	}
}
