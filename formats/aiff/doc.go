// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Stem folders exported from macOS tools often carry .aiff stems, and the
// splitter accepts AIFF masters. The decoder reads 8, 16, 24 and 32-bit PCM
// at any channel count and reports the frame count from the COMM chunk:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF
//	}
//	fmt.Println(src.Frames(), src.SampleRate())
//
// Samples are delivered as float32 in [-1, 1]. AIFF writing is not provided;
// renders are always WAV.
package aiff
