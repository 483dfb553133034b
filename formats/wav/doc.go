// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes linear PCM WAV files on top of
// github.com/go-audio/wav.
//
// The Decoder accepts 8, 16, 24 and 32-bit integer PCM with any channel
// count and reports the frame count from the data chunk, so callers can
// size accumulators before reading:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // ErrNotWavFile, ErrOnlyPCMSupported, ...
//	}
//	buf := make([]float32, 4096*src.Channels())
//	n, err := src.ReadSamples(buf)
//
// Writer is an audio.Sink. Samples are clamped to [-1, 1] and quantized to
// the requested bit depth; the header sizes are patched on Close:
//
//	w, err := wav.Create("render.wav", 8, 44100, 16)
//	err = w.WriteSamples(block)
//	err = w.Close()
package wav
