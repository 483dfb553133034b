// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DecibelToGain converts a level in dB to a linear voltage multiplier.
func DecibelToGain(db float64) float32 {
	if db == 0 {
		return 1
	}
	return float32(math.Pow(10, db/20))
}
