// SPDX-License-Identifier: EPL-2.0

// Package upmix turns separated stereo stems into 7.1 surround renders and
// splits long recordings into overlapping chunks that can be processed one
// by one and stitched back together.
//
// # Stem-sets
//
// A stem-set is a folder holding bass, drums, other and vocals stems, plus
// an optional piano stem, all in the configured extension:
//
//	song/
//	  bass.wav  drums.wav  other.wav  piano.wav  vocals.wav
//
// RenderFolder finds every stem-set under a root folder and writes
// song/render.wav for each of them. Every stem is spread over the eight
// output channels (L, R, C, LFE, rear L/R, side L/R) by its upmix option,
// see the matrix package; bass and drums also feed the LFE channel by
// default.
//
// # Chunks
//
// SplitFile cuts long.wav into long.0.wav, long.1.wav, ... of one minute
// each with a one second overlap. Once each chunk was processed into
// long.N/render.wav, RecombineFolder crossfades them into one render.
//
// # Formats
//
// Stems and split sources are decoded through an audio.Registry:
//   - WAV (8/16/24/32-bit PCM) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3 (split sources)
//   - Ogg Vorbis via formats/vorbis (split sources)
//
// Output is always PCM WAV.
//
// # Quick Start
//
//	cfg := config.Default()
//	u := upmix.New(&cfg, upmix.NewFileStore(upmix.NewRegistry()), task.NewEngine(), logger)
//	jobs, err := u.RenderFolder("/music/separated")
package upmix
