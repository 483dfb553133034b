// SPDX-License-Identifier: EPL-2.0

package task

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ik5/upmix/internal/failure"
)

type recorder struct {
	mu       sync.Mutex
	progress []float64
	status   []string
}

func (r *recorder) OnProgress(p float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
}

func (r *recorder) OnStatus(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = append(r.status, s)
}

func (r *recorder) snapshot() ([]float64, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...), append([]string(nil), r.status...)
}

// manualClock drives the engine's timestamp gate from tests.
type manualClock struct{ now time.Duration }

func (c *manualClock) read() time.Duration { return c.now }

func newTestEngine(rec *recorder) (*Engine, *manualClock) {
	clock := &manualClock{}
	e := NewEngine(WithObserver(rec))
	e.clock = clock.read
	return e, clock
}

func TestEngine_RefusesSecondJob(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	release := make(chan struct{})
	started := make(chan struct{})

	err := e.Start("first", func(r Reporter) error {
		close(started)
		r.SetProgress(0.5)
		<-release
		r.SetStatus("done")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	<-started

	err = e.Start("second", func(Reporter) error {
		t.Error("second job ran")
		return nil
	})
	if !errors.Is(err, failure.ErrConcurrency) {
		t.Errorf("second Start() error = %v, want ErrConcurrency", err)
	}
	if !e.Running() || e.Name() != "first" {
		t.Errorf("running=%v name=%q", e.Running(), e.Name())
	}

	close(release)
	if err := e.Wait(); err != nil {
		t.Errorf("Wait() = %v", err)
	}
	if e.Running() {
		t.Error("engine still running after Wait")
	}
	if e.Progress() != 1 || e.Status() != "done" {
		t.Errorf("final state = %v %q", e.Progress(), e.Status())
	}

	// The engine accepts a new job once idle.
	if err := e.Start("third", func(Reporter) error { return nil }); err != nil {
		t.Errorf("Start after finish = %v", err)
	}
	e.Wait()
}

func TestEngine_FailureForcesCompletion(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	e := NewEngine(WithObserver(rec))
	boom := failure.IO("read", "bass.wav", errors.New("boom"))

	if err := e.Start("render", func(r Reporter) error {
		r.SetProgress(0.3)
		return boom
	}); err != nil {
		t.Fatal(err)
	}

	if err := e.Wait(); !errors.Is(err, failure.ErrIO) {
		t.Errorf("Wait() = %v, want ErrIO", err)
	}
	if e.Progress() != 1 || e.Status() != FailedStatus {
		t.Errorf("state after failure = %v %q", e.Progress(), e.Status())
	}
	progress, status := rec.snapshot()
	if progress[len(progress)-1] != 1 || status[len(status)-1] != FailedStatus {
		t.Errorf("observer saw %v / %v", progress, status)
	}
}

func TestEngine_RecoversPanic(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.Start("bad", func(Reporter) error { panic("index out of range") })
	if err := e.Wait(); err == nil {
		t.Error("Wait() = nil after panic")
	}
	if e.Status() != FailedStatus {
		t.Errorf("Status() = %q", e.Status())
	}
}

func TestEngine_WaitIdle(t *testing.T) {
	t.Parallel()

	if err := NewEngine().Wait(); err != nil {
		t.Errorf("Wait() on idle engine = %v", err)
	}
}

func TestEngine_ProgressRateLimit(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	e, clock := newTestEngine(rec)

	e.SetProgress(0.1) // first update always passes
	clock.now += time.Millisecond
	e.SetProgress(0.2) // within 1/60 s: coalesced
	clock.now += 5 * time.Millisecond
	e.SetProgress(0.3) // still within
	if got := e.Progress(); got != 0.3 {
		t.Errorf("polled Progress() = %v, want latest 0.3", got)
	}
	clock.now += 20 * time.Millisecond
	e.SetProgress(0.4) // window elapsed
	clock.now += time.Millisecond
	e.SetProgress(1) // completion bypasses the gate

	progress, _ := rec.snapshot()
	want := []float64{0.1, 0.4, 1}
	if len(progress) != len(want) {
		t.Fatalf("observer saw %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("observer saw %v, want %v", progress, want)
			break
		}
	}
}

func TestEngine_ProgressClamped(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.SetProgress(-3)
	if e.Progress() != 0 {
		t.Errorf("Progress() = %v", e.Progress())
	}
	e.SetProgress(7)
	if e.Progress() != 1 {
		t.Errorf("Progress() = %v", e.Progress())
	}
}

func TestEngine_LazyStatus(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	e, clock := newTestEngine(rec)

	e.SetStatus("Reading bass...") // immediate
	e.SetStatusLazy("Reading bass (10%)...")
	clock.now += 500 * time.Millisecond
	e.SetStatusLazy("Reading bass (20%)...")
	clock.now += 600 * time.Millisecond
	e.SetStatusLazy("Reading bass (30%)...")
	clock.now += 10 * time.Millisecond
	e.SetStatus("Mixing bass...") // immediate again

	if got := e.Status(); got != "Mixing bass..." {
		t.Errorf("Status() = %q", got)
	}
	_, status := rec.snapshot()
	want := []string{"Reading bass...", "Reading bass (30%)...", "Mixing bass..."}
	if len(status) != len(want) {
		t.Fatalf("observer saw %q, want %q", status, want)
	}
	for i := range want {
		if status[i] != want[i] {
			t.Errorf("observer saw %q, want %q", status, want)
			break
		}
	}
}

func TestSlice(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	r := Slice(e, 0.25, 0.25)

	tests := []struct {
		in, want float64
	}{
		{0, 0.25},
		{0.5, 0.375},
		{1, 0.5},
		{2, 0.5},
	}
	for _, tt := range tests {
		r.SetProgress(tt.in)
		if got := e.Progress(); got != tt.want {
			t.Errorf("SetProgress(%v) published %v, want %v", tt.in, got, tt.want)
		}
	}

	r.SetStatusLazy("x")
	if e.Status() != "x" {
		t.Errorf("status not forwarded: %q", e.Status())
	}

	// Nested slices compose.
	Slice(r, 0.5, 0.5).SetProgress(0.5)
	if got := e.Progress(); got != 0.4375 {
		t.Errorf("nested slice published %v, want 0.4375", got)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	Discard.SetProgress(1)
	Discard.SetStatus("x")
	Discard.SetStatusLazy("y")
}
