// SPDX-License-Identifier: EPL-2.0

// Package config loads the upmix TOML configuration, fills in defaults and
// validates the result before it is turned into render, split and logging
// settings.
package config
