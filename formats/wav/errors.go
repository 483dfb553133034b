// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrOnlyPCMSupported     = errors.New("only linear PCM WAV supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported bit depth")
	ErrNoPCMData            = errors.New("WAV data chunk not found")
)
