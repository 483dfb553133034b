// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"fmt"

	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/stem"
)

// reportEvery is the sample cadence of mixing progress reports.
const reportEvery = stem.BlockSize

// Strategy accumulates one stereo track into the output buffer.
type Strategy interface {
	// Channels is the channel count of the output buffer.
	Channels() int
	// Mix adds src (interleaved stereo) into dst (interleaved Channels()),
	// reporting the fraction done.
	Mix(dst, src []float32, t *stem.Track, report func(float64))
}

// Surround spreads each stereo track over the 7.1 layout using the track's
// upmix matrix and feeds the LFE when the track asks for it.
type Surround struct{}

func (Surround) Channels() int { return matrix.Channels }

func (Surround) Mix(dst, src []float32, t *stem.Track, report func(float64)) {
	const out = matrix.Channels
	frames := min(len(src)/2, len(dst)/out)
	m := t.Matrix

	active := 0
	for ch := range out {
		if ch == matrix.LFE {
			if t.LFE {
				active++
			}
		} else if !m.Silent(ch) {
			active++
		}
	}
	if active == 0 {
		progress(report, 1)
		return
	}

	// Progress counts frames across every active channel pass.
	total := active * frames
	done := 0
	tick := func(n int) {
		prev := done
		done += n
		if done/reportEvery != prev/reportEvery {
			progress(report, float64(done)/float64(total))
		}
	}

	for ch := range out {
		if ch == matrix.LFE {
			if t.LFE {
				mixLFE(dst, src, frames, tick)
			}
			continue
		}
		left, right := float32(m.Left[ch]), float32(m.Right[ch])
		switch {
		case left == 0 && right == 0:
			continue
		case right == 0:
			for f := range frames {
				dst[f*out+ch] += src[2*f] * left
			}
		case left == 0:
			for f := range frames {
				dst[f*out+ch] += src[2*f+1] * right
			}
		default:
			for f := range frames {
				dst[f*out+ch] += src[2*f]*left + src[2*f+1]*right
			}
		}
		tick(frames)
	}
	progress(report, 1)
}

func mixLFE(dst, src []float32, frames int, tick func(int)) {
	const out = matrix.Channels
	g := float32(matrix.LFEGain)
	for f := range frames {
		dst[f*out+matrix.LFE] += g * (src[2*f] + src[2*f+1])
	}
	tick(frames)
}

// Stereo adds tracks sample by sample into a stereo buffer, ignoring the
// upmix matrix and LFE flag.
type Stereo struct{}

func (Stereo) Channels() int { return 2 }

func (Stereo) Mix(dst, src []float32, _ *stem.Track, report func(float64)) {
	n := min(len(dst), len(src))
	for start := 0; start < n; start += reportEvery {
		end := min(start+reportEvery, n)
		for i := start; i < end; i++ {
			dst[i] += src[i]
		}
		progress(report, float64(end)/float64(n))
	}
	progress(report, 1)
}

// Mode names a strategy in configuration.
type Mode string

const (
	ModeSurround Mode = "surround"
	ModeStereo   Mode = "stereo"
)

// StrategyFor returns the strategy of mode.
func StrategyFor(mode Mode) (Strategy, error) {
	switch mode {
	case ModeSurround, "":
		return Surround{}, nil
	case ModeStereo:
		return Stereo{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func progress(report func(float64), p float64) {
	if report != nil {
		report(p)
	}
}
