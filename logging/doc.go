// SPDX-License-Identifier: EPL-2.0

// Package logging builds the slog loggers used across upmix: a console
// text format for terminals and JSON for log collection, plus ProgressLog,
// which keeps task progress down to a line per step and status change.
package logging
