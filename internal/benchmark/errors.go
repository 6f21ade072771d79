package benchmark

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrInvalidSignature   = errors.New("invalid benchmark signature")
	ErrDuplicateBenchmark = errors.New("duplicate benchmark")
	ErrSetupFailure       = errors.New("setup failed")
	ErrExecutionFailure   = errors.New("benchmark execution failed")
	ErrTeardownFailure    = errors.New("teardown failed")
	ErrInputType          = errors.New("input not assignable to benchmark parameter")
	ErrInputsExhausted    = errors.New("input sequence ended before the announced inputs")
)

// Phase is the step of a trial an error came from.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseWarmup   Phase = "warmup"
	PhaseTiming   Phase = "timing"
	PhaseTeardown Phase = "teardown"
)

// kind maps a phase to the sentinel callers match with errors.Is.
func (p Phase) kind() error {
	switch p {
	case PhaseSetup:
		return ErrSetupFailure
	case PhaseTeardown:
		return ErrTeardownFailure
	default:
		return ErrExecutionFailure
	}
}

// TrialError reports a failure while running one benchmark on one input.
type TrialError struct {
	Benchmark string
	Input     string
	Phase     Phase
	Err       error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("%s (input %s): %s: %v", e.Benchmark, e.Input, e.Phase, e.Err)
}

// Unwrap exposes both the phase sentinel and the underlying error.
func (e *TrialError) Unwrap() []error {
	return []error{e.Phase.kind(), e.Err}
}

// SignatureError reports a registered routine with an unsupported shape.
type SignatureError struct {
	Name   string
	Type   reflect.Type
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s: %s has type %v: %s", ErrInvalidSignature, e.Name, e.Type, e.Reason)
}

func (e *SignatureError) Unwrap() error {
	return ErrInvalidSignature
}

// PanicError carries a panic recovered from a routine or hook.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
