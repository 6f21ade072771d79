package benchmark

import (
	"iter"
)

const (
	// DefaultWarmup is the number of untimed executions before timing starts.
	DefaultWarmup = 4
	// DefaultRepeats is the number of timed executions per input.
	DefaultRepeats = 7
)

// Container groups benchmark routines. Benchmarks registers them in
// declaration order.
type Container interface {
	Benchmarks(r *Registry)
}

// Inputter supplies the values fed to one-parameter routines.
// Input is called again for every pass over the inputs: once to announce the
// report columns and once per routine. Each call must return a fresh sequence
// yielding the same values. An unbounded sequence needs WithMaxInputs.
type Inputter interface {
	Input() iter.Seq[any]
}

// SetUpper runs before each input's trial set.
type SetUpper interface {
	Setup() error
}

// TearDowner runs after each input's trial set, even when setup or the
// routine failed.
type TearDowner interface {
	Teardown() error
}

// WarmupCounter overrides DefaultWarmup.
type WarmupCounter interface {
	Warmup() int
}

// RepeatCounter overrides DefaultRepeats.
type RepeatCounter interface {
	Repeats() int
}

// Config is the run configuration of one container.
type Config struct {
	Warmup  int
	Repeats int
	// Inputs returns a fresh input sequence per call. It is nil when every
	// routine runs once without input.
	Inputs func() iter.Seq[any]
	// MaxInputs bounds how many inputs are pulled. Zero means no bound.
	MaxInputs int
}

// ConfigFor reads a container's optional capabilities, falling back to the
// defaults.
func ConfigFor(c Container) Config {
	cfg := Config{
		Warmup:  DefaultWarmup,
		Repeats: DefaultRepeats,
	}
	if w, ok := c.(WarmupCounter); ok {
		cfg.Warmup = w.Warmup()
	}
	if r, ok := c.(RepeatCounter); ok {
		cfg.Repeats = r.Repeats()
	}
	if in, ok := c.(Inputter); ok && in.Input() != nil {
		cfg.Inputs = in.Input
	}
	return cfg
}

// FixedInputs returns an input source that replays vs on every call.
func FixedInputs(vs ...any) func() iter.Seq[any] {
	return func() iter.Seq[any] { return Values(vs...) }
}

// Values returns a sequence over a fixed list of inputs.
func Values(vs ...any) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range vs {
			if !yield(v) {
				return
			}
		}
	}
}

// Geometric yields start, start*factor, ... while the value stays below limit.
// A limit <= 0 makes the sequence unbounded; bound the run with WithMaxInputs.
func Geometric(start, factor, limit int) iter.Seq[any] {
	return func(yield func(any) bool) {
		if start <= 0 || factor <= 1 {
			return
		}
		for i := start; limit <= 0 || i < limit; i *= factor {
			if !yield(i) {
				return
			}
		}
	}
}
