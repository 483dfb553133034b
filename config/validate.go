// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/mix"
)

var (
	bitDepths      = []int{8, 16, 24, 32}
	stemExtensions = []string{"wav", "aif", "aiff"}
	logFormats     = []string{"console", "json"}
	logLevels      = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateStems(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRender() error {
	if _, err := mix.StrategyFor(mix.Mode(c.Render.Mode)); err != nil {
		return fmt.Errorf("render.mode: %w", err)
	}
	if !slices.Contains(bitDepths, c.Render.BitDepth) {
		return fmt.Errorf("render.bit_depth must be one of %v, got %d", bitDepths, c.Render.BitDepth)
	}
	if !slices.Contains(stemExtensions, c.Render.StemExtension) {
		return fmt.Errorf("render.stem_extension must be one of %v, got %q", stemExtensions, c.Render.StemExtension)
	}
	if c.Render.LFELowpass && c.Render.LFELowpassHz <= 0 {
		return errors.New("render.lfe_lowpass_hz must be positive when render.lfe_lowpass is enabled")
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.SegmentSeconds <= 0 {
		return errors.New("split.segment_seconds must be positive")
	}
	if c.Split.OverlapSeconds < 0 || c.Split.OverlapSeconds >= c.Split.SegmentSeconds {
		return errors.New("split.overlap_seconds must be at least 0 and shorter than split.segment_seconds")
	}
	if c.Split.Gain <= 0 || c.Split.Gain > 1 {
		return errors.New("split.gain must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateStems() error {
	for name, s := range c.Stems.named() {
		if _, err := matrix.ParseOption(s.Upmix); err != nil {
			return fmt.Errorf("stems.%s.upmix: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", logFormats, c.Logging.Format)
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	return nil
}
