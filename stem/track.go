// SPDX-License-Identifier: EPL-2.0

package stem

import (
	"errors"
	"io"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/matrix"
)

// BlockSize is the number of samples read per I/O block.
const BlockSize = 1 << 18

// Track is one instrument stem and its mix settings.
type Track struct {
	Role   Role
	Path   string
	LFE    bool
	Gain   float32
	Option matrix.Option
	Matrix matrix.Matrix

	store audio.Store
	src   audio.Source
}

func newTrack(store audio.Store, role Role, path string, s Settings) *Track {
	return &Track{
		Role:   role,
		Path:   path,
		LFE:    s.LFE,
		Gain:   s.Gain(),
		Option: s.Upmix,
		Matrix: matrix.For(s.Upmix),
		store:  store,
	}
}

// Open opens the stem and reads its header. Opening an open track is a no-op.
func (t *Track) Open() error {
	if t.src != nil {
		return nil
	}
	src, err := t.store.Open(t.Path)
	if err != nil {
		return failure.IO("open", t.Path, err)
	}
	t.src = src
	return nil
}

// SampleRate of the open stem, or 0.
func (t *Track) SampleRate() int {
	if t.src == nil {
		return 0
	}
	return t.src.SampleRate()
}

// Frames of the open stem, or 0.
func (t *Track) Frames() int64 {
	if t.src == nil {
		return 0
	}
	return t.src.Frames()
}

// Read streams the whole stem into an interleaved stereo buffer of exactly
// frames frames at sampleRate, applying the track gain. Mono and
// multichannel stems are folded to stereo and other rates are resampled;
// a short stem is zero padded and a long one truncated. report receives
// the fraction read after every block. The reader is closed on return.
func (t *Track) Read(frames int64, sampleRate int, report func(float64)) ([]float32, error) {
	if err := t.Open(); err != nil {
		return nil, err
	}
	defer t.Close()

	var src audio.Source = t.src
	if src.Channels() != 2 {
		src = audio.NewStereoMixer(src)
	}
	if src.SampleRate() != sampleRate {
		src = audio.NewResampler(src, sampleRate)
	}

	out := make([]float32, frames*2)
	for pos := 0; pos < len(out); {
		want := min(BlockSize, len(out)-pos)
		n, err := audio.ReadFull(src, out[pos:pos+want])
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, failure.IO("read", t.Path, err)
		}
		if t.Gain != 1 {
			for i := pos; i < pos+n; i++ {
				out[i] *= t.Gain
			}
		}
		pos += n
		if report != nil {
			report(float64(pos) / float64(len(out)))
		}
		if n < want {
			// Stream ended early; the rest stays silent.
			break
		}
	}
	if report != nil {
		report(1)
	}
	return out, nil
}

// Close releases the stem reader.
func (t *Track) Close() error {
	if t.src == nil {
		return nil
	}
	err := t.src.Close()
	t.src = nil
	return failure.IO("close", t.Path, err)
}
