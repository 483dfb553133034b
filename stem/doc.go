// SPDX-License-Identifier: EPL-2.0

// Package stem models a folder of separated instrument stems.
//
// A Set is valid when bass, drums, other and vocals exist; piano is optional.
// Each Track streams its file into a stereo buffer with the configured gain,
// ready to be spread over the surround layout by its upmix matrix.
package stem
