package benchmark

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"regexp"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Sink consumes the output of a run: one Start, a Result per completed
// (benchmark, input) pair, then End. End is not called when the run fails.
type Sink interface {
	Start(info RunInfo) error
	Result(res Result) error
	End() error
}

// Runner drives the setup, warmup, timing and teardown of every benchmark of a
// container. Execution is strictly sequential.
type Runner struct {
	clock     Clock
	logger    *slog.Logger
	suite     string
	warmup    *int
	repeats   *int
	maxInputs *int
	filter    *regexp.Regexp
	gc        bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the process clock.
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithLogger sets the logger used for discovery and trial events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithSuite names the container in RunInfo.
func WithSuite(name string) Option {
	return func(r *Runner) { r.suite = name }
}

// WithWarmup overrides the warmup count of every container.
func WithWarmup(n int) Option {
	return func(r *Runner) { r.warmup = &n }
}

// WithRepeats overrides the repeat count of every container.
func WithRepeats(n int) Option {
	return func(r *Runner) { r.repeats = &n }
}

// WithMaxInputs stops pulling inputs after n values. n <= 0 removes the bound,
// which is only safe for finite input sequences.
func WithMaxInputs(n int) Option {
	return func(r *Runner) { r.maxInputs = &n }
}

// WithFilter keeps only the benchmarks whose name matches re.
func WithFilter(re *regexp.Regexp) Option {
	return func(r *Runner) { r.filter = re }
}

// WithGC forces a garbage collection before each timed loop.
func WithGC(enabled bool) Option {
	return func(r *Runner) { r.gc = enabled }
}

// NewRunner creates a Runner reading the process clock.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		clock:  ProcessClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunContainer benchmarks c with its own configuration and a default Runner.
func RunContainer(ctx context.Context, c Container, sink Sink) error {
	return NewRunner().Run(ctx, c, ConfigFor(c), sink)
}

// Run discovers the benchmarks of c and streams their results to sink.
// The first failure ends the run: setup, routine and teardown errors are
// returned after the current trial's teardown, and no further trial starts.
func (r *Runner) Run(ctx context.Context, c Container, cfg Config, sink Sink) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg = r.override(cfg)
	if cfg.Warmup < 0 || cfg.Repeats < 0 {
		return fmt.Errorf("invalid run configuration: warmup=%d repeats=%d", cfg.Warmup, cfg.Repeats)
	}

	specs, err := discover(c, r.logger)
	if err != nil {
		return err
	}
	specs = r.filterSpecs(specs)

	info := RunInfo{
		ID:         uuid.NewString(),
		Suite:      r.suite,
		StartedAt:  time.Now(),
		Benchmarks: specs,
		Inputs:     inputLabels(cfg),
		Warmup:     cfg.Warmup,
		Repeats:    cfg.Repeats,
	}
	r.logger.Info("starting benchmark run",
		"run_id", info.ID,
		"suite", info.Suite,
		"benchmarks", len(specs),
		"inputs", len(info.Inputs),
		"warmup", cfg.Warmup,
		"repeats", cfg.Repeats,
	)

	if err := sink.Start(info); err != nil {
		return fmt.Errorf("failed to start report: %w", err)
	}

	for _, spec := range specs {
		if err := r.runSpec(ctx, c, cfg, spec, len(info.Inputs), sink); err != nil {
			r.logger.Error("benchmark run aborted", "run_id", info.ID, "benchmark", spec.Name, "error", err)
			return err
		}
	}

	if err := sink.End(); err != nil {
		return fmt.Errorf("failed to finish report: %w", err)
	}
	return nil
}

func (r *Runner) override(cfg Config) Config {
	if r.warmup != nil {
		cfg.Warmup = *r.warmup
	}
	if r.repeats != nil {
		cfg.Repeats = *r.repeats
	}
	if r.maxInputs != nil {
		cfg.MaxInputs = *r.maxInputs
	}
	return cfg
}

func (r *Runner) filterSpecs(specs []Spec) []Spec {
	if r.filter == nil {
		return specs
	}
	kept := specs[:0]
	for _, s := range specs {
		if r.filter.MatchString(s.Name) {
			kept = append(kept, s)
		}
	}
	return kept
}

// inputLabels pulls the announced inputs, at most cfg.MaxInputs of them.
func inputLabels(cfg Config) []string {
	if cfg.Inputs == nil {
		return []string{NoInput}
	}
	var labels []string
	for in := range take(cfg.Inputs(), cfg.MaxInputs) {
		labels = append(labels, Label(in))
	}
	return labels
}

// runSpec pulls a fresh input sequence for spec and stops after the announced
// count, so unannounced values are never pulled.
func (r *Runner) runSpec(ctx context.Context, c Container, cfg Config, spec Spec, announced int, sink Sink) error {
	if cfg.Inputs == nil {
		return r.report(ctx, c, cfg, spec, nil, NoInput, sink)
	}
	if announced == 0 {
		return nil
	}
	pulled := 0
	for in := range take(cfg.Inputs(), announced) {
		if err := r.report(ctx, c, cfg, spec, in, Label(in), sink); err != nil {
			return err
		}
		pulled++
	}
	if pulled < announced {
		return fmt.Errorf("%w: %s got %d of %d inputs", ErrInputsExhausted, spec.Name, pulled, announced)
	}
	return nil
}

// take yields at most n values of seq and stops pulling once it has them.
// n <= 0 yields all of seq.
func take(seq iter.Seq[any], n int) iter.Seq[any] {
	return func(yield func(any) bool) {
		if seq == nil {
			return
		}
		i := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			i++
			if n > 0 && i == n {
				return
			}
		}
	}
}

func (r *Runner) report(ctx context.Context, c Container, cfg Config, spec Spec, input any, label string, sink Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	samples, err := r.trial(c, cfg, spec, input, label)
	if err != nil {
		return err
	}
	r.logger.Debug("trial complete", "benchmark", spec.Name, "input", label, "samples", len(samples))
	if len(samples) == 0 {
		return nil
	}

	return sink.Result(NewResult(spec.Name, label, samples))
}

// trial runs one (benchmark, input) pair. Teardown is deferred so it runs
// exactly once per setup attempt, whatever happened before it.
func (r *Runner) trial(c Container, cfg Config, spec Spec, input any, label string) (samples []TimeSample, err error) {
	fail := func(p Phase, cause error) error {
		return &TrialError{Benchmark: spec.Name, Input: label, Phase: p, Err: cause}
	}

	if td, ok := c.(TearDowner); ok {
		defer func() {
			if terr := guard(td.Teardown); terr != nil {
				if err == nil {
					err = fail(PhaseTeardown, terr)
				} else {
					err = errors.Join(err, fail(PhaseTeardown, terr))
				}
				samples = nil
			}
		}()
	}

	if su, ok := c.(SetUpper); ok {
		if err := guard(su.Setup); err != nil {
			return nil, fail(PhaseSetup, err)
		}
	}

	for range cfg.Warmup {
		if err := invoke(spec, input); err != nil {
			return nil, fail(PhaseWarmup, err)
		}
	}

	if cfg.Repeats == 0 {
		if cfg.Warmup == 0 {
			if err := invoke(spec, input); err != nil {
				return nil, fail(PhaseWarmup, err)
			}
		}
		return nil, nil
	}

	if r.gc {
		runtime.GC()
	}

	samples = make([]TimeSample, 0, cfg.Repeats)
	for range cfg.Repeats {
		start := r.clock.Now()
		err := invoke(spec, input)
		end := r.clock.Now()
		if err != nil {
			return nil, fail(PhaseTiming, err)
		}
		samples = append(samples, end.Sub(start))
	}

	return samples, nil
}

func invoke(spec Spec, input any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return spec.call(input)
}

func guard(hook func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return hook()
}
