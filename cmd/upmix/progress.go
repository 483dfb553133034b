// SPDX-License-Identifier: EPL-2.0

package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ik5/upmix/logging"
)

const barMax = 1000

// progressView is the task observer of the CLI: a progress bar on a
// terminal, sampled log lines otherwise.
type progressView struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	logger  *slog.Logger
	log     *logging.ProgressLog
	status  string
}

func newProgressView(w io.Writer, logger *slog.Logger) *progressView {
	v := &progressView{logger: logger}
	if isTerminal(w) {
		v.bar = progressbar.NewOptions(barMax,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	} else {
		v.log = logging.NewProgressLog(0)
	}
	return v
}

func (v *progressView) OnProgress(p float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bar != nil {
		_ = v.bar.Set(int(p * barMax))
		return
	}
	if v.log.Progress(p) {
		v.logger.Info("progress",
			slog.Float64(logging.FieldProgress, float64(int(p*1000))/10),
			slog.String("status", v.status))
	}
}

func (v *progressView) OnStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
	if v.bar != nil {
		v.bar.Describe(s)
		return
	}
	if v.log.Status(s) {
		v.logger.Info("status", slog.String("status", s))
	}
}

// finish completes the bar so later output starts on a clean line.
func (v *progressView) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bar != nil {
		_ = v.bar.Finish()
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
