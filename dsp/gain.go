// SPDX-License-Identifier: EPL-2.0

package dsp

// Gain multiplies every sample by g.
func Gain(buf []float32, g float32) {
	if g == 1 {
		return
	}
	for i := range buf {
		buf[i] *= g
	}
}

// Peak returns the largest absolute sample value.
func Peak(buf []float32) float32 {
	var peak float32
	for _, x := range buf {
		if x < 0 {
			x = -x
		}
		if x > peak {
			peak = x
		}
	}
	return peak
}

// Normalize scales buf down to a peak of exactly 1 if it exceeds 1.
// It returns the peak found and whether the buffer was changed.
func Normalize(buf []float32) (float32, bool) {
	peak := Peak(buf)
	if peak <= 1 {
		return peak, false
	}
	NormalizeTo(buf, peak)
	return peak, true
}

// NormalizeTo divides buf by a peak measured earlier, clamping rounding
// overshoot so the result never leaves [-1, 1].
func NormalizeTo(buf []float32, peak float32) {
	g := 1 / peak
	for i, x := range buf {
		x *= g
		if x > 1 {
			x = 1
		} else if x < -1 {
			x = -1
		}
		buf[i] = x
	}
}
