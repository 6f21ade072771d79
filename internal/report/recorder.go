package report

import (
	"sync"

	"unitbench/internal/benchmark"
)

// Recorder keeps every result of a run so it can be saved to a history store.
type Recorder struct {
	mu     sync.Mutex
	commit string
	run    benchmark.Run
	done   bool
}

// NewRecorder creates a recorder stamping runs with commit.
func NewRecorder(commit string) *Recorder {
	return &Recorder{commit: commit}
}

func (r *Recorder) Start(info benchmark.RunInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run = benchmark.Run{
		ID:        info.ID,
		Suite:     info.Suite,
		Timestamp: info.StartedAt,
		Commit:    r.commit,
		Warmup:    info.Warmup,
		Repeats:   info.Repeats,
	}
	r.done = false
	return nil
}

func (r *Recorder) Result(res benchmark.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run.Results = append(r.run.Results, res)
	return nil
}

func (r *Recorder) End() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
	return nil
}

// Run returns the recorded run and whether it completed.
func (r *Recorder) Run() (benchmark.Run, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run, r.done
}
