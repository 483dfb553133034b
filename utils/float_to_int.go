// SPDX-License-Identifier: EPL-2.0

package utils

// FullScale returns the magnitude of the most negative sample value for a
// signed PCM bit depth (128 for 8-bit, 32768 for 16-bit, ...). Unknown
// depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// FloatToInt converts a sample in [-1,1] to a signed integer of bitDepth
// bits. Out of range input is clamped.
func FloatToInt(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := FullScale(bitDepth)
	// Positive full scale is one step short of the negative one.
	if x > 0 {
		return int(float64(x) * (float64(scale) - 1))
	}
	return int(float64(x) * float64(scale))
}

// IntToFloat converts a signed integer sample of bitDepth bits to [-1,1].
func IntToFloat(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(FullScale(bitDepth)))
}
