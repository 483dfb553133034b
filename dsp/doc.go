// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the in-place buffer operations applied to a finished
// mix: edge windowing, peak normalization, a biquad lowpass for the LFE
// channel, and the linear crossfade used to stitch chunks.
//
// All functions work on interleaved float32 buffers.
package dsp
