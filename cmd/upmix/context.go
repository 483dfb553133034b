// SPDX-License-Identifier: EPL-2.0

package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ik5/upmix"
	"github.com/ik5/upmix/config"
	"github.com/ik5/upmix/internal/instance"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/task"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := cfg.LoggingOptions()
	opts.Output = w
	return logging.New(opts)
}

// upmixer builds the library entry point with progress going to the
// command's stderr.
func (c *commandContext) upmixer(cmd *cobra.Command) (*upmix.Upmixer, *progressView, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	view := newProgressView(cmd.ErrOrStderr(), logger)
	engine := task.NewEngine(task.WithObserver(view), task.WithLogger(logger))
	store := upmix.NewFileStore(upmix.NewRegistry())
	return upmix.New(cfg, store, engine, logger), view, nil
}

// exclusive runs fn while holding the machine-wide upmix lock.
func exclusive(fn func() error) error {
	lock, err := instance.Acquire(instance.DefaultPath())
	if err != nil {
		return err
	}
	defer lock.Release()
	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
