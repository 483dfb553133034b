// SPDX-License-Identifier: EPL-2.0

// Package chunk splits long recordings into overlapping segments for
// external processing and stitches the processed segments back together.
//
// A split of song.wav produces song.0.wav, song.1.wav, ... next to it. Each
// segment is expected to be processed into its own folder, so that
// song.N/render.wav holds the result for segment N. Recombine reads those
// renders in order and crossfades them over the shared overlap.
package chunk
