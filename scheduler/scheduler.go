// SPDX-License-Identifier: EPL-2.0

package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/mix"
	"github.com/ik5/upmix/stem"
	"github.com/ik5/upmix/task"
)

// TaskName is the engine task name of a render batch.
const TaskName = "render"

// State is the phase of the scheduler.
type State int32

const (
	Idle State = iota
	Discovering
	Running
	Done
	Failed
)

var stateNames = [...]string{"idle", "discovering", "running", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int32(s))
	}
	return stateNames[s]
}

// Job is one queued render.
type Job struct {
	ID    string
	Set   *stem.Set
	Index int
	Total int
}

// Scheduler discovers stem-sets and renders them one after another on a
// task engine.
type Scheduler struct {
	Engine   *task.Engine
	Renderer *mix.Renderer
	Store    audio.Store
	Options  stem.Options
	Logger   *slog.Logger

	mu      sync.Mutex // held by Run from discovery until Start
	state   atomic.Int32
	current atomic.Int32
	total   atomic.Int32
}

// New returns a scheduler rendering with r on engine e.
func New(e *task.Engine, r *mix.Renderer, store audio.Store, opts stem.Options, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		Engine:   e,
		Renderer: r,
		Store:    store,
		Options:  opts,
		Logger:   logging.NewComponentLogger(logger, "scheduler"),
	}
}

// State reports the scheduler phase.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Current returns the zero-based index of the job being rendered and the
// size of the batch.
func (s *Scheduler) Current() (index, total int) {
	return int(s.current.Load()), int(s.total.Load())
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

// Run discovers the stem-sets under root and starts rendering them in the
// background. It returns the queued jobs; use Engine.Wait for the outcome.
//
// Run fails with a user error if root is empty or holds no stem-set and
// with a concurrency error if the engine is busy or another Run is still
// discovering. A refused Run leaves the state of the running batch alone.
func (s *Scheduler) Run(root string) ([]Job, error) {
	if root == "" {
		return nil, failure.User("no folder selected")
	}
	if !s.mu.TryLock() {
		return nil, failure.Busy(fmt.Sprintf("cannot render %s: discovery is still running", root))
	}
	defer s.mu.Unlock()
	if s.Engine.Running() {
		return nil, failure.Busy(fmt.Sprintf("cannot render %s: %s is still running", root, s.Engine.Name()))
	}

	// The engine is idle and mu is held, so no batch of ours can be
	// writing the state until Start below accepts the new one.
	prev := s.state.Swap(int32(Discovering))
	sets, err := Discover(s.Store, root, s.Options, s.logger())
	if err != nil {
		s.state.Store(int32(Failed))
		return nil, err
	}
	if len(sets) == 0 {
		s.state.Store(int32(Failed))
		return nil, failure.User("no stem-sets found in %s", root)
	}
	s.logger().Info("stem-sets discovered", slog.String(logging.FieldFolder, root), slog.Int("count", len(sets)))

	jobs := make([]Job, len(sets))
	for i, set := range sets {
		jobs[i] = Job{ID: uuid.NewString(), Set: set, Index: i, Total: len(sets)}
	}
	if err := s.Engine.Start(TaskName, func(rep task.Reporter) error {
		s.current.Store(0)
		s.total.Store(int32(len(jobs)))
		s.state.Store(int32(Running))
		err := s.drain(jobs, rep)
		if err != nil {
			s.state.Store(int32(Failed))
		} else {
			s.state.Store(int32(Done))
		}
		return err
	}); err != nil {
		// Another task took the engine while we were discovering.
		s.state.Store(prev)
		return nil, err
	}
	return jobs, nil
}

// drain renders the jobs in order. A failing job is logged and the rest of
// the batch still runs; the joined errors are returned at the end.
func (s *Scheduler) drain(jobs []Job, rep task.Reporter) error {
	var errs []error
	for _, job := range jobs {
		width := 1 / float64(job.Total)
		start := float64(job.Index) * width
		log := s.logger().With(
			slog.String(logging.FieldJobID, job.ID),
			slog.String(logging.FieldFolder, job.Set.Dir))

		s.current.Store(int32(job.Index))
		log.Info("job started", slog.Int("index", job.Index+1), slog.Int("total", job.Total))
		rep.SetProgress(start)
		if err := s.Renderer.Process(job.Set, task.Slice(rep, start, width)); err != nil {
			log.Error("job failed", logging.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", job.Set.Dir, err))
			continue
		}
		log.Info("job finished")
	}
	return errors.Join(errs...)
}
