// SPDX-License-Identifier: EPL-2.0

package dsp

// Crossfade blends the outgoing overlap held from the previous segment into
// the head of the incoming one. The incoming weight rises linearly from 0 at
// the first frame towards 1 at the last; held gets the complement.
// Only the first min(len(held), len(dst)) samples of dst are touched.
func Crossfade(dst, held []float32, channels int) {
	n := min(len(dst), len(held)) / channels
	if n == 0 {
		return
	}
	for f := range n {
		w := float32(f) / float32(n)
		for c := range channels {
			i := f*channels + c
			dst[i] = held[i] + (dst[i]-held[i])*w
		}
	}
}
