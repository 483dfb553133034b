// SPDX-License-Identifier: EPL-2.0

package config

import (
	"iter"
	"log/slog"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/chunk"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/mix"
	"github.com/ik5/upmix/stem"
)

func (s *Stems) all() []*Stem {
	return []*Stem{&s.Bass, &s.Drums, &s.Other, &s.Piano, &s.Vocals}
}

// named yields the stems keyed by role name, in render order.
func (s *Stems) named() iter.Seq2[string, *Stem] {
	return func(yield func(string, *Stem) bool) {
		for _, r := range stem.Roles {
			if !yield(string(r), s.get(r)) {
				return
			}
		}
	}
}

func (s *Stems) get(r stem.Role) *Stem {
	switch r {
	case stem.Bass:
		return &s.Bass
	case stem.Drums:
		return &s.Drums
	case stem.Piano:
		return &s.Piano
	case stem.Vocals:
		return &s.Vocals
	default:
		return &s.Other
	}
}

// StemOptions converts the stem settings. The config must have passed
// Validate.
func (c *Config) StemOptions() stem.Options {
	opts := stem.Options{
		Extension: c.Render.StemExtension,
		Stems:     make(map[stem.Role]stem.Settings, len(stem.Roles)),
	}
	for _, r := range stem.Roles {
		s := c.Stems.get(r)
		option, _ := matrix.ParseOption(s.Upmix)
		opts.Stems[r] = stem.Settings{Upmix: option, LFE: s.LFE, GainDB: s.GainDB}
	}
	return opts
}

// Renderer builds the renderer described by the [render] section.
func (c *Config) Renderer(store audio.Store, logger *slog.Logger) (*mix.Renderer, error) {
	strategy, err := mix.StrategyFor(mix.Mode(c.Render.Mode))
	if err != nil {
		return nil, err
	}
	r := &mix.Renderer{
		Strategy:     strategy,
		Store:        store,
		BitDepth:     c.Render.BitDepth,
		CleanupStems: c.Render.CleanupStems,
		Logger:       logging.NewComponentLogger(logger, "render"),
	}
	if c.Render.LFELowpass {
		r.LowpassHz = c.Render.LFELowpassHz
	}
	return r, nil
}

// Splitter builds the chunk splitter described by the [split] section.
func (c *Config) Splitter(store audio.Store, logger *slog.Logger) *chunk.Splitter {
	s := chunk.NewSplitter(store, logger)
	s.SegmentSeconds = c.Split.SegmentSeconds
	s.OverlapSeconds = c.Split.OverlapSeconds
	s.Gain = c.Split.Gain
	return s
}

// Recombiner builds the chunk recombiner described by the [split] section.
func (c *Config) Recombiner(store audio.Store, logger *slog.Logger) *chunk.Recombiner {
	r := chunk.NewRecombiner(store, logger)
	r.OverlapSeconds = c.Split.OverlapSeconds
	r.Cleanup = c.Split.CleanupRenders
	return r
}

// LoggingOptions returns the logger construction parameters.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Logging.Level, Format: c.Logging.Format}
}
