// SPDX-License-Identifier: EPL-2.0

package task

// Slice maps a job-local progress range [0,1] onto [start, start+width) of
// r. Status calls pass through.
func Slice(r Reporter, start, width float64) Reporter {
	return &slice{r: r, start: start, width: width}
}

type slice struct {
	r            Reporter
	start, width float64
}

func (s *slice) SetProgress(p float64) {
	s.r.SetProgress(s.start + min(max(p, 0), 1)*s.width)
}

func (s *slice) SetStatus(text string)     { s.r.SetStatus(text) }
func (s *slice) SetStatusLazy(text string) { s.r.SetStatusLazy(text) }

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) SetProgress(float64)  {}
func (discard) SetStatus(string)     {}
func (discard) SetStatusLazy(string) {}
