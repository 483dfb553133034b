// SPDX-License-Identifier: EPL-2.0

// Package task runs one long operation at a time on a background goroutine
// and publishes its progress.
//
// Progress and status are stored atomically so any goroutine can poll them.
// Observer callbacks are throttled by a monotonic timestamp gate: progress to
// about 60 per second and lazy status to one per second. Reaching 100% is
// always delivered. When a job fails the engine forces progress to 1 and the
// status to FailedStatus so a front end never looks stuck.
package task
