// SPDX-License-Identifier: EPL-2.0

package chunk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/task"
)

const (
	DefaultSegmentSeconds = 60
	DefaultOverlapSeconds = 1
	// DefaultGain leaves headroom for the processing each segment goes
	// through on its own.
	DefaultGain = 0.5

	segmentExt = ".wav"
)

// Splitter cuts a source file into overlapping segments.
type Splitter struct {
	Store          audio.Store
	SegmentSeconds int
	OverlapSeconds int
	Gain           float64
	Logger         *slog.Logger
}

// NewSplitter returns a splitter with the default layout.
func NewSplitter(store audio.Store, logger *slog.Logger) *Splitter {
	return &Splitter{
		Store:          store,
		SegmentSeconds: DefaultSegmentSeconds,
		OverlapSeconds: DefaultOverlapSeconds,
		Gain:           DefaultGain,
		Logger:         logging.NewComponentLogger(logger, "split"),
	}
}

// SegmentPath is the path of segment index of a split of source.
func SegmentPath(source string, index int) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return fmt.Sprintf("%s.%d%s", base, index, segmentExt)
}

// Split writes the segments of the file at path and returns their paths.
func (s *Splitter) Split(path string, rep task.Reporter) ([]string, error) {
	if path == "" {
		return nil, failure.User("no file selected")
	}
	if s.SegmentSeconds <= 0 || s.OverlapSeconds < 0 || s.OverlapSeconds > s.SegmentSeconds {
		return nil, failure.User("invalid segment layout: %ds with %ds overlap", s.SegmentSeconds, s.OverlapSeconds)
	}
	log := s.Logger
	if log == nil {
		log = logging.NewNop()
	}
	log = log.With(slog.String("source", path))

	rep.SetProgress(0)
	rep.SetStatus("Reading headers...")
	src, err := s.Store.Open(path)
	if err != nil {
		return nil, failure.IO("open", path, err)
	}
	defer src.Close()

	total := src.Frames()
	if total < 0 {
		return nil, failure.IO("open", path, ErrUnknownLength)
	}
	channels, rate := src.Channels(), src.SampleRate()
	segment := int64(s.SegmentSeconds) * int64(rate)
	overlap := int64(s.OverlapSeconds) * int64(rate)

	var paths []string
	open := func(i int) (audio.Sink, error) {
		p := SegmentPath(path, i)
		sink, err := s.Store.Create(p, channels, rate, src.BitDepth())
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
		return sink, nil
	}
	out, err := audio.NewSegmentedSink(open, channels, rate, total, segment, overlap)
	if err != nil {
		return nil, failure.User("%v", err)
	}
	log.Info("split started",
		slog.Int64(logging.FieldFrames, total),
		slog.Int(logging.FieldRate, rate),
		slog.Int("segments", out.Segments()))

	gain := float32(s.Gain)
	block := make([]float32, rate*channels)
	var pos int64
	for pos < total {
		n, err := audio.ReadFull(src, block[:min(int64(len(block)), (total-pos)*int64(channels))])
		if errors.Is(err, io.EOF) {
			log.Warn("source ended early", slog.Int64("expected", total), slog.Int64("read", pos))
			break
		}
		if err != nil {
			out.Close()
			return paths, failure.IO("read", path, err)
		}
		n -= n % channels
		if n == 0 {
			break
		}
		if gain != 1 {
			for i := range n {
				block[i] *= gain
			}
		}
		if err := out.WriteSamples(block[:n]); err != nil {
			out.Close()
			return paths, failure.IO("write", SegmentPath(path, int(pos/segment)), err)
		}
		pos += int64(n / channels)

		p := float64(pos) / float64(total)
		rep.SetProgress(p)
		rep.SetStatusLazy(fmt.Sprintf("Splitting (%d%%)...", int(p*100)))
	}
	if err := out.Close(); err != nil {
		return paths, failure.IO("close", path, err)
	}

	rep.SetProgress(1)
	rep.SetStatus("Finished!")
	log.Info("split finished", slog.Int("segments", len(paths)))
	return paths, nil
}
