// SPDX-License-Identifier: EPL-2.0

// Package mix renders a stem-set into one file.
//
// The Renderer reads the tracks one at a time in a fixed order (bass, drums,
// piano, other, vocals), hands each to a Strategy that accumulates it into
// a shared buffer, then windows the edges, normalizes the peak if it
// exceeds full scale, optionally lowpasses the LFE channel, and writes the
// result. Surround produces 7.1 through the upmix matrices; Stereo simply
// sums the stems.
package mix
