// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// Butterworth is the Q of a maximally flat second-order section.
const Butterworth = 1 / math.Sqrt2

// Lowpass is a second-order (RBJ cookbook) lowpass biquad.
type Lowpass struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2, y1, y2 float64
}

// NewLowpass designs a lowpass at cutoff Hz for the given sample rate.
func NewLowpass(sampleRate int, cutoff, q float64) *Lowpass {
	w := 2 * math.Pi * cutoff / float64(sampleRate)
	cosw, sinw := math.Cos(w), math.Sin(w)
	alpha := sinw / (2 * q)
	a0 := 1 + alpha

	return &Lowpass{
		b0: (1 - cosw) / 2 / a0,
		b1: (1 - cosw) / a0,
		b2: (1 - cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

// Reset clears the filter history.
func (f *Lowpass) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

// Next filters one sample.
func (f *Lowpass) Next(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// Process filters channel ch of an interleaved buffer in place, leaving the
// other channels untouched.
func (f *Lowpass) Process(buf []float32, ch, channels int) {
	for i := ch; i < len(buf); i += channels {
		buf[i] = float32(f.Next(float64(buf[i])))
	}
}
