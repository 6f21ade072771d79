package report

import (
	"errors"

	"unitbench/internal/benchmark"
)

// Multi fans every event out to several sinks. All sinks see each event; the
// errors are joined.
type Multi []benchmark.Sink

func (m Multi) Start(info benchmark.RunInfo) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Start(info))
	}
	return errors.Join(errs...)
}

func (m Multi) Result(res benchmark.Result) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Result(res))
	}
	return errors.Join(errs...)
}

func (m Multi) End() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.End())
	}
	return errors.Join(errs...)
}

// Null discards everything.
type Null struct{}

func (Null) Start(benchmark.RunInfo) error { return nil }
func (Null) Result(benchmark.Result) error { return nil }
func (Null) End() error                    { return nil }
