// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/dsp"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/stem"
	"github.com/ik5/upmix/task"
)

// Progress milestones of one render, as fractions of the job.
const (
	tracksEnd    = 0.80
	normalizeAt  = 0.83
	lowpassAt    = 0.86
	exportAt     = 0.90
	readShare    = 0.05 // of each track's share; mixing takes the rest
	finishStatus = "Finished!"
)

// Renderer mixes a stem-set into a single render file.
type Renderer struct {
	Strategy Strategy
	Store    audio.Store
	// BitDepth of the render file; 16 when zero.
	BitDepth int
	// LowpassHz filters the LFE channel of surround renders; 0 disables it.
	LowpassHz float64
	// CleanupStems removes the stem files after a successful render.
	CleanupStems bool
	Logger       *slog.Logger
}

var title = cases.Title(language.English)

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// Process renders set, publishing job-local progress to rep. A set whose
// stems disappeared since discovery is skipped without error.
func (r *Renderer) Process(set *stem.Set, rep task.Reporter) error {
	log := r.logger().With(slog.String(logging.FieldFolder, set.Dir))

	rep.SetProgress(0)
	rep.SetStatus("Reading headers...")
	if !set.Valid() {
		log.Warn("stem-set no longer valid, skipping", slog.Any("missing", set.Missing()))
		rep.SetProgress(1)
		return nil
	}
	if err := set.Open(); err != nil {
		return err
	}
	defer set.Close()

	channels := r.Strategy.Channels()
	frames, rate := set.Frames(), set.SampleRate()
	if frames < 0 {
		return failure.IO("open", set.Track(stem.Vocals).Path, audio.ErrUnknownLength)
	}
	log.Info("render started",
		slog.Int64(logging.FieldFrames, frames),
		slog.Int(logging.FieldRate, rate),
		slog.Int("channels", channels))

	acc := make([]float32, frames*int64(channels))

	tracks := set.Tracks()
	share := tracksEnd / float64(len(tracks))
	for i, t := range tracks {
		base := float64(i) * share
		if err := r.renderTrack(acc, t, frames, rate, task.Slice(rep, base, share)); err != nil {
			return err
		}
	}

	r.postProcess(acc, channels, rate, rep)

	if err := r.export(set.OutputPath(), acc, channels, rate, rep); err != nil {
		return err
	}
	log.Info("render written", slog.String("path", set.OutputPath()))

	if r.CleanupStems {
		set.Close()
		if err := set.Cleanup(); err != nil {
			return err
		}
	}

	rep.SetProgress(1)
	rep.SetStatus(finishStatus)
	return nil
}

func (r *Renderer) renderTrack(acc []float32, t *stem.Track, frames int64, rate int, rep task.Reporter) error {
	name := title.String(t.Role.String())

	rep.SetStatus(fmt.Sprintf("Reading %s...", name))
	src, err := t.Read(frames, rate, func(p float64) {
		rep.SetProgress(p * readShare)
		rep.SetStatusLazy(fmt.Sprintf("Reading %s (%.2f%%)...", name, p*100))
	})
	if err != nil {
		return err
	}

	rep.SetStatus(fmt.Sprintf("Mixing %s...", name))
	r.Strategy.Mix(acc, src, t, func(p float64) {
		rep.SetProgress(readShare + p*(1-readShare))
		rep.SetStatusLazy(fmt.Sprintf("Mixing %s (%.2f%%)...", name, p*100))
	})
	rep.SetProgress(1)
	rep.SetStatus(fmt.Sprintf("Mixing %s (100%%)...", name))
	return nil
}

func (r *Renderer) postProcess(acc []float32, channels, rate int, rep task.Reporter) {
	rep.SetProgress(tracksEnd)
	rep.SetStatus("Checking peaks...")
	dsp.EdgeWindow(acc, channels)

	if peak := dsp.Peak(acc); peak > 1 {
		rep.SetProgress(normalizeAt)
		rep.SetStatus("Normalizing...")
		dsp.NormalizeTo(acc, peak)
		r.logger().Debug("normalized", slog.Float64("peak", float64(peak)))
	}

	if channels > 4 && r.LowpassHz > 0 {
		rep.SetProgress(lowpassAt)
		rep.SetStatus("Applying LFE lowpass...")
		dsp.NewLowpass(rate, r.LowpassHz, dsp.Butterworth).Process(acc, matrix.LFE, channels)
	}
}

func (r *Renderer) export(path string, acc []float32, channels, rate int, rep task.Reporter) error {
	bitDepth := r.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	name := filepath.Base(path)

	rep.SetProgress(exportAt)
	rep.SetStatus(fmt.Sprintf("Exporting to %s (0.00%%)...", name))

	sink, err := r.Store.Create(path, channels, rate, bitDepth)
	if err != nil {
		return failure.IO("create", path, err)
	}
	for pos := 0; pos < len(acc); {
		// Blocks stay frame aligned.
		end := min(pos+stem.BlockSize-stem.BlockSize%channels, len(acc))
		if err := sink.WriteSamples(acc[pos:end]); err != nil {
			return errors.Join(failure.IO("write", path, err), sink.Close())
		}
		pos = end
		p := float64(pos) / float64(len(acc))
		rep.SetProgress(exportAt + (1-exportAt)*p)
		rep.SetStatusLazy(fmt.Sprintf("Exporting to %s (%.2f%%)...", name, p*100))
	}
	return failure.IO("close", path, sink.Close())
}
