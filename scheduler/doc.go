// SPDX-License-Identifier: EPL-2.0

// Package scheduler finds stem-set folders and queues one render per set on
// a task engine, so a whole tree of songs is processed in a single batch.
package scheduler
