// SPDX-License-Identifier: EPL-2.0

package task

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/logging"
)

// FailedStatus is the status shown after a job returned an error.
const FailedStatus = "Failed!"

const (
	// DefaultProgressInterval limits observer progress callbacks to ~60/s.
	DefaultProgressInterval = time.Second / 60
	// DefaultStatusInterval limits lazy status callbacks to one per second.
	DefaultStatusInterval = time.Second
)

// Reporter receives progress in [0,1] and status text from a running job.
type Reporter interface {
	SetProgress(p float64)
	SetStatus(s string)
	// SetStatusLazy is SetStatus for high-frequency text such as percentages;
	// observers see it at most once per status interval.
	SetStatusLazy(s string)
}

// Observer is notified of published progress and status. Callbacks run on
// the worker goroutine.
type Observer interface {
	OnProgress(p float64)
	OnStatus(s string)
}

// Job is the work executed by the engine.
type Job func(r Reporter) error

// Engine runs at most one job at a time in the background and publishes
// its progress.
type Engine struct {
	observer         Observer
	logger           *slog.Logger
	progressInterval time.Duration
	statusInterval   time.Duration
	clock            func() time.Duration

	running  atomic.Bool
	progress atomic.Uint64 // math.Float64bits
	status   atomic.Pointer[string]

	// Monotonic clock readings of the last observer callbacks, offset by
	// one so zero means "never".
	lastProgress atomic.Int64
	lastStatus   atomic.Int64

	mu   sync.Mutex
	name string
	done chan struct{}
	err  error
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers the observer notified of progress and status.
func WithObserver(o Observer) Option { return func(e *Engine) { e.observer = o } }

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithIntervals overrides the progress and status rate limits.
func WithIntervals(progress, status time.Duration) Option {
	return func(e *Engine) {
		e.progressInterval = progress
		e.statusInterval = status
	}
}

// NewEngine returns an idle engine.
func NewEngine(opts ...Option) *Engine {
	epoch := time.Now()
	e := &Engine{
		progressInterval: DefaultProgressInterval,
		statusInterval:   DefaultStatusInterval,
		clock:            func() time.Duration { return time.Since(epoch) },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "task")
	empty := ""
	e.status.Store(&empty)
	return e
}

// Start runs job on a new goroutine. It fails with a concurrency error, and
// without touching the running job, if a job is already in flight.
func (e *Engine) Start(name string, job Job) error {
	if !e.running.CompareAndSwap(false, true) {
		return failure.Busy(fmt.Sprintf("cannot start %s: %s is still running", name, e.Name()))
	}

	done := make(chan struct{})
	e.mu.Lock()
	e.name = name
	e.done = done
	e.err = nil
	e.mu.Unlock()

	e.lastProgress.Store(0)
	e.lastStatus.Store(0)
	e.storeProgress(0)

	go e.run(name, job, done)
	return nil
}

func (e *Engine) run(name string, job Job, done chan struct{}) {
	started := time.Now()
	e.logger.Info("task started", slog.String("task", name))

	err := e.safeRun(job)
	if err != nil {
		e.SetProgress(1)
		e.SetStatus(FailedStatus)
		e.logger.Error("task failed", slog.String("task", name), logging.Error(err),
			slog.Duration("elapsed", time.Since(started)))
	} else {
		if e.Progress() < 1 {
			e.SetProgress(1)
		}
		e.logger.Info("task finished", slog.String("task", name),
			slog.Duration("elapsed", time.Since(started)))
	}

	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
	e.running.Store(false)
	close(done)
}

func (e *Engine) safeRun(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return job(e)
}

// Running reports whether a job is in flight.
func (e *Engine) Running() bool { return e.running.Load() }

// Name of the current or last job.
func (e *Engine) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Wait blocks until the current job finishes and returns its error. It
// returns nil at once if no job was ever started.
func (e *Engine) Wait() error {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Progress is the latest published progress.
func (e *Engine) Progress() float64 {
	return math.Float64frombits(e.progress.Load())
}

// Status is the latest published status text.
func (e *Engine) Status() string { return *e.status.Load() }

func (e *Engine) storeProgress(p float64) {
	e.progress.Store(math.Float64bits(p))
}

// SetProgress publishes p, clamped to [0,1]. Observers are notified at most
// once per progress interval, except that reaching 1 is always delivered.
func (e *Engine) SetProgress(p float64) {
	p = min(max(p, 0), 1)
	e.storeProgress(p)
	if e.observer == nil {
		return
	}
	if p >= 1 || e.pass(&e.lastProgress, e.progressInterval) {
		e.observer.OnProgress(p)
	}
}

// SetStatus publishes s and notifies observers immediately.
func (e *Engine) SetStatus(s string) {
	e.status.Store(&s)
	e.lastStatus.Store(int64(e.clock()) + 1)
	if e.observer != nil {
		e.observer.OnStatus(s)
	}
}

// SetStatusLazy publishes s; observers are notified only if the status
// interval has elapsed since the last notification.
func (e *Engine) SetStatusLazy(s string) {
	e.status.Store(&s)
	if e.observer != nil && e.pass(&e.lastStatus, e.statusInterval) {
		e.observer.OnStatus(s)
	}
}

// pass is the timestamp gate: it reports whether interval has elapsed since
// the stored time and claims the slot if so.
func (e *Engine) pass(last *atomic.Int64, interval time.Duration) bool {
	now := int64(e.clock()) + 1
	prev := last.Load()
	if prev != 0 && now-prev < int64(interval) {
		return false
	}
	return last.CompareAndSwap(prev, now)
}
