// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Resampler streams from src to a target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
//
// Stems produced by a separation tool normally share one rate, but a stem that
// was re-exported at another rate is brought to the rate of the vocals track
// through this type before mixing.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	ratio    float64 // srcRate / dstRate - how many source frames per output frame
	channels int

	// Ring buffer holding 4 frames for cubic interpolation
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames [4][]float32
	valid  [4]bool
	primed bool

	// Fractional position between frames[1] and frames[2]
	pos float64

	srcBuf []float32
	eof    bool

	// One-pole low-pass state, only used when downsampling
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		filterAlpha = 0.5
	}

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BitDepth() int   { return r.src.BitDepth() }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Frames is the number of output frames: one per output period up to and
// including the last source frame.
func (r *Resampler) Frames() int64 {
	n := r.src.Frames()
	if n < 0 {
		return n
	}
	if n == 0 {
		return 0
	}
	return int64(float64(n-1)/r.ratio) + 1
}

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads one source frame into dst. It reports false at the end of
// the stream.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := ReadFull(r.src, r.srcBuf)
	if err == io.EOF || n < r.channels {
		r.eof = true
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w", err)
	}

	copy(dst, r.srcBuf)
	if r.useFilter {
		for c := range r.channels {
			// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}
	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.readFrame(r.frames[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	if r.useFilter {
		// Start the filter on the first frame to avoid a warm-up transient.
		copy(r.filterState, r.frames[1])
	}
	copy(r.frames[0], r.frames[1])
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < 4; i++ {
		if r.valid[i], err = r.readFrame(r.frames[i]); err != nil {
			return err
		}
	}
	r.primed = true
	return nil
}

// shift advances the ring by one source frame: [0,1,2,3] -> [1,2,3,next].
func (r *Resampler) shift() error {
	first := r.frames[0]
	copy(r.frames[:], r.frames[1:])
	copy(r.valid[:], r.valid[1:])
	r.frames[3] = first

	ok, err := r.readFrame(r.frames[3])
	r.valid[3] = ok
	return err
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		// frames[1] is past the end, or it is the last frame and we are
		// between it and a frame that does not exist.
		if !r.valid[1] || (!r.valid[2] && r.pos > 0) {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range r.channels {
			y1 := r.frames[1][c]
			y0 := r.frames[0][c]
			y2 := y1
			if r.valid[2] {
				y2 = r.frames[2][c]
			}
			y3 := y2
			if r.valid[3] {
				y3 = r.frames[3][c]
			}

			out[c] = cubic(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}

// cubic is a Catmull-Rom spline through y0..y3 evaluated at x in [0,1]
// between y1 and y2.
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
