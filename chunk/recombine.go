// SPDX-License-Identifier: EPL-2.0

package chunk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/dsp"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/task"
)

// RenderName is the processed output expected inside each segment folder
// and the name of the recombined file.
const RenderName = "render.wav"

// Recombiner joins processed segments into one file.
type Recombiner struct {
	Store          audio.Store
	OverlapSeconds int
	// Cleanup removes each segment render once it has been consumed.
	Cleanup bool
	Logger  *slog.Logger
}

// NewRecombiner returns a recombiner for the default overlap.
func NewRecombiner(store audio.Store, logger *slog.Logger) *Recombiner {
	return &Recombiner{
		Store:          store,
		OverlapSeconds: DefaultOverlapSeconds,
		Logger:         logging.NewComponentLogger(logger, "recombine"),
	}
}

// SegmentBase splits a segment folder path of the form <base>.<index>.
func SegmentBase(dir string) (base string, index int, err error) {
	dir = filepath.Clean(dir)
	dot := strings.LastIndexByte(dir, '.')
	if dot <= 0 || dot < len(dir)-len(filepath.Base(dir)) {
		return "", 0, failure.User("%s is not a segment folder (<name>.<index>)", dir)
	}
	index, err = strconv.Atoi(dir[dot+1:])
	if err != nil || index < 0 {
		return "", 0, failure.User("%s is not a segment folder (<name>.<index>)", dir)
	}
	return dir[:dot], index, nil
}

// Renders lists the segment renders of the split that dir belongs to, from
// index 0 up to the first missing one.
func Renders(store audio.Store, dir string) ([]string, error) {
	base, _, err := SegmentBase(dir)
	if err != nil {
		return nil, err
	}
	var renders []string
	for i := 0; ; i++ {
		p := filepath.Join(fmt.Sprintf("%s.%d", base, i), RenderName)
		if !store.Exists(p) {
			break
		}
		renders = append(renders, p)
	}
	if len(renders) == 0 {
		return nil, failure.User("no render found for segment 0 of %s", base)
	}
	return renders, nil
}

// Recombine stitches the renders of the split containing dir and writes
// the result to render.wav next to the segment folders. It returns the
// output path.
func (r *Recombiner) Recombine(dir string, rep task.Reporter) (string, error) {
	if dir == "" {
		return "", failure.User("no folder selected")
	}
	log := r.Logger
	if log == nil {
		log = logging.NewNop()
	}

	rep.SetProgress(0)
	rep.SetStatus("Reading headers...")
	renders, err := Renders(r.Store, dir)
	if err != nil {
		return "", err
	}

	sources := make([]audio.Source, len(renders))
	closeAll := func() {
		for _, s := range sources {
			if s != nil {
				s.Close()
			}
		}
	}
	for i, p := range renders {
		src, err := r.Store.Open(p)
		if err != nil {
			closeAll()
			return "", failure.IO("open", p, err)
		}
		sources[i] = src
		if i > 0 && (src.Channels() != sources[0].Channels() || src.SampleRate() != sources[0].SampleRate()) {
			closeAll()
			return "", failure.IO("open", p, ErrLayoutMismatch)
		}
	}

	first := sources[0]
	channels, rate := first.Channels(), first.SampleRate()
	overlap := int64(r.OverlapSeconds) * int64(rate)
	var total int64
	for i, s := range sources {
		if s.Frames() < 0 {
			closeAll()
			return "", failure.IO("open", renders[i], ErrUnknownLength)
		}
		total += s.Frames()
	}
	total -= overlap * int64(len(sources)-1)

	outPath := filepath.Join(filepath.Dir(filepath.Clean(dir)), RenderName)
	log = log.With(slog.String("output", outPath))
	log.Info("recombine started",
		slog.Int("segments", len(sources)),
		slog.Int64(logging.FieldFrames, total),
		slog.Int(logging.FieldRate, rate))

	out, err := r.Store.Create(outPath, channels, rate, first.BitDepth())
	if err != nil {
		closeAll()
		return "", failure.IO("create", outPath, err)
	}

	j := &joiner{
		out:      out,
		channels: channels,
		block:    make([]float32, rate*channels),
		total:    total,
		rep:      rep,
	}
	for i, src := range sources {
		last := i == len(sources)-1
		rep.SetStatus(fmt.Sprintf("Recombining segment %d of %d...", i+1, len(sources)))
		err := j.segment(src, overlap, last)
		src.Close()
		sources[i] = nil
		if err != nil {
			closeAll()
			out.Close()
			return "", failure.IO("recombine", renders[i], err)
		}
		if r.Cleanup {
			if err := r.Store.Remove(renders[i]); err != nil {
				log.Warn("cleanup failed", slog.String("segment", renders[i]), logging.Error(err))
			}
		}
	}
	if err := out.Close(); err != nil {
		return "", failure.IO("close", outPath, err)
	}

	rep.SetProgress(1)
	rep.SetStatus("Finished!")
	log.Info("recombine finished", slog.Int64(logging.FieldFrames, j.written))
	return outPath, nil
}

// joiner streams segments into out, holding the trailing overlap of one
// segment to crossfade it into the head of the next.
type joiner struct {
	out      audio.Sink
	channels int
	block    []float32
	held     []float32
	total    int64
	written  int64
	rep      task.Reporter
}

func (j *joiner) segment(src audio.Source, overlap int64, last bool) error {
	main := src.Frames()
	if !last {
		main = max(main-overlap, 0)
	}

	if len(j.held) > 0 {
		head := make([]float32, min(int64(len(j.held)/j.channels), main)*int64(j.channels))
		n, err := j.read(src, head)
		if err != nil {
			return err
		}
		dsp.Crossfade(head[:n], j.held, j.channels)
		if err := j.write(head[:n]); err != nil {
			return err
		}
		main -= int64(n / j.channels)
		j.held = nil
	}

	for main > 0 {
		want := min(int64(len(j.block)), main*int64(j.channels))
		n, err := j.read(src, j.block[:want])
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := j.write(j.block[:n]); err != nil {
			return err
		}
		main -= int64(n / j.channels)
	}

	if !last {
		held := make([]float32, overlap*int64(j.channels))
		n, err := j.read(src, held)
		if err != nil {
			return err
		}
		j.held = held[:n]
	}
	return nil
}

// read fills dst as far as the stream allows, in whole frames.
func (j *joiner) read(src audio.Source, dst []float32) (int, error) {
	n, err := audio.ReadFull(src, dst)
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n - n%j.channels, nil
}

func (j *joiner) write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	if err := j.out.WriteSamples(samples); err != nil {
		return err
	}
	j.written += int64(len(samples) / j.channels)
	if j.total > 0 {
		p := min(float64(j.written)/float64(j.total), 1)
		j.rep.SetProgress(p)
		j.rep.SetStatusLazy(fmt.Sprintf("Exporting to %s (%d%%)...", RenderName, int(p*100)))
	}
	return nil
}
