// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// EdgeFrames is the number of frames silenced at each end of a render.
const EdgeFrames = 25

// EdgeWindow silences the first and last EdgeFrames frames of the
// interleaved buffer and fades the following (and preceding) EdgeFrames
// frames in (and out) with a half-sine ramp.
func EdgeWindow(buf []float32, channels int) {
	EdgeWindowFrames(buf, channels, EdgeFrames)
}

// EdgeWindowFrames is EdgeWindow with a custom edge length in frames. When
// the buffer is shorter than the windows the ramps overlap and multiply.
func EdgeWindowFrames(buf []float32, channels, edge int) {
	if channels <= 0 || edge <= 0 {
		return
	}
	frames := len(buf) / channels

	zero := min(edge, frames)
	clear(buf[:zero*channels])
	clear(buf[(frames-zero)*channels : frames*channels])

	for k := range edge {
		w := float32(math.Sin(math.Pi / 2 * float64(k) / float64(edge)))
		scaleFrame(buf, channels, edge+k, w)
		scaleFrame(buf, channels, frames-1-edge-k, w)
	}
}

func scaleFrame(buf []float32, channels, frame int, w float32) {
	if frame < 0 || (frame+1)*channels > len(buf) {
		return
	}
	f := buf[frame*channels : (frame+1)*channels]
	for i := range f {
		f[i] *= w
	}
}
