// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// MP3 masters are accepted by the splitter only; stems are expected to be
// lossless. The decoder always produces interleaved stereo at the stream's
// sample rate, reported as 16-bit:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Frames is derived from the decoded byte length when the input is an
// io.Seeker (os.File is) and is 0 otherwise.
package mp3
