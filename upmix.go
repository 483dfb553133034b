// SPDX-License-Identifier: EPL-2.0

package upmix

import (
	"log/slog"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/config"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/scheduler"
	"github.com/ik5/upmix/stem"
	"github.com/ik5/upmix/task"
)

// Upmixer runs renders, splits and recombinations on one task engine, so
// only one of them is in flight at a time.
type Upmixer struct {
	cfg    *config.Config
	store  audio.Store
	engine *task.Engine
	logger *slog.Logger
}

// New returns an Upmixer. cfg must have been validated.
func New(cfg *config.Config, store audio.Store, engine *task.Engine, logger *slog.Logger) *Upmixer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Upmixer{cfg: cfg, store: store, engine: engine, logger: logger}
}

// Engine is the task engine the operations run on.
func (u *Upmixer) Engine() *task.Engine { return u.engine }

// Discover lists the stem-sets under root without rendering them.
func (u *Upmixer) Discover(root string) ([]*stem.Set, error) {
	return scheduler.Discover(u.store, root, u.cfg.StemOptions(), u.logger)
}

// Scheduler returns a scheduler for the configured renderer.
func (u *Upmixer) Scheduler() (*scheduler.Scheduler, error) {
	r, err := u.cfg.Renderer(u.store, u.logger)
	if err != nil {
		return nil, err
	}
	return scheduler.New(u.engine, r, u.store, u.cfg.StemOptions(), u.logger), nil
}

// RenderFolder renders every stem-set under root and waits for the batch.
// The jobs are returned even when some of them failed.
func (u *Upmixer) RenderFolder(root string) ([]scheduler.Job, error) {
	s, err := u.Scheduler()
	if err != nil {
		return nil, err
	}
	jobs, err := s.Run(root)
	if err != nil {
		return nil, err
	}
	return jobs, u.engine.Wait()
}

// SplitFile splits the file at path into overlapping segments and returns
// their paths.
func (u *Upmixer) SplitFile(path string) ([]string, error) {
	var paths []string
	err := u.engine.Start("split", func(rep task.Reporter) error {
		var err error
		paths, err = u.cfg.Splitter(u.store, u.logger).Split(path, rep)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = u.engine.Wait()
	return paths, err
}

// RecombineFolder joins the processed segments of the split that the
// segment folder dir belongs to and returns the output path.
func (u *Upmixer) RecombineFolder(dir string) (string, error) {
	var out string
	err := u.engine.Start("recombine", func(rep task.Reporter) error {
		var err error
		out, err = u.cfg.Recombiner(u.store, u.logger).Recombine(dir, rep)
		return err
	})
	if err != nil {
		return "", err
	}
	err = u.engine.Wait()
	return out, err
}
