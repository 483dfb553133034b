// SPDX-License-Identifier: EPL-2.0

package logging

// DefaultProgressSteps splits a task into 5% log steps.
const DefaultProgressSteps = 20

// ProgressLog picks the task updates worth a log line when no progress bar
// is drawn: the first update of every step of [0, 1] and every status
// change. Progress falling back means the engine started a new task.
type ProgressLog struct {
	steps  int
	step   int
	status string
}

// NewProgressLog splits [0, 1] into steps; steps <= 0 selects
// DefaultProgressSteps.
func NewProgressLog(steps int) *ProgressLog {
	if steps <= 0 {
		steps = DefaultProgressSteps
	}
	return &ProgressLog{steps: steps, step: -1}
}

// Progress reports whether fraction p should be logged. A nil ProgressLog
// logs everything.
func (l *ProgressLog) Progress(p float64) bool {
	if l == nil {
		return true
	}
	step := int(min(max(p, 0), 1) * float64(l.steps))
	if step < l.step {
		l.step = -1
		l.status = ""
	}
	if step <= l.step {
		return false
	}
	l.step = step
	return true
}

// Status reports whether s differs from the last logged status.
func (l *ProgressLog) Status(s string) bool {
	if l == nil {
		return true
	}
	if s == "" || s == l.status {
		return false
	}
	l.status = s
	return true
}
