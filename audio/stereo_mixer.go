// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoMixer presents any source as a two channel stream. Mono is
// duplicated to both sides; sources with more than two channels are folded
// by averaging the even channels into left and the odd channels into right.
type StereoMixer struct {
	src Source
	tmp []float32
}

func NewStereoMixer(src Source) *StereoMixer {
	return &StereoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BitDepth() int   { return m.src.BitDepth() }
func (m *StereoMixer) Frames() int64   { return m.src.Frames() }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }
func (m *StereoMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}

	channels := m.src.Channels()
	if channels == 2 {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	samplesNeeded := frames * channels

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / channels

	switch channels {
	case 1:
		for f := range frames {
			v := m.tmp[f]
			dst[f<<1] = v
			dst[f<<1+1] = v
		}
	default:
		left := float32(1) / float32((channels+1)/2)
		right := float32(1) / float32(channels/2)
		for f := range frames {
			base := f * channels
			var l, r float32
			for c := 0; c < channels; c += 2 {
				l += m.tmp[base+c]
			}
			for c := 1; c < channels; c += 2 {
				r += m.tmp[base+c]
			}
			dst[f<<1] = l * left
			dst[f<<1+1] = r * right
		}
	}

	return frames * 2, err
}
