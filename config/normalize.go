// SPDX-License-Identifier: EPL-2.0

package config

import "strings"

func (c *Config) normalize() {
	c.normalizeRender()
	c.normalizeStems()
	c.normalizeLogging()
}

func (c *Config) normalizeRender() {
	c.Render.Mode = strings.ToLower(strings.TrimSpace(c.Render.Mode))
	if c.Render.Mode == "" {
		c.Render.Mode = Default().Render.Mode
	}
	ext := strings.ToLower(strings.TrimSpace(c.Render.StemExtension))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = defaultExtension
	}
	c.Render.StemExtension = ext
	if c.Render.BitDepth == 0 {
		c.Render.BitDepth = defaultBitDepth
	}
}

func (c *Config) normalizeStems() {
	for _, s := range c.Stems.all() {
		s.Upmix = strings.TrimSpace(s.Upmix)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
