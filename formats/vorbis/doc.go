// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Like mp3, it only feeds the splitter. Decoded samples are already float
// and are passed through unchanged, interleaved in the stream's channel
// order.
package vorbis
