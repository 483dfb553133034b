// SPDX-License-Identifier: EPL-2.0

package config

import (
	"github.com/ik5/upmix/chunk"
	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/mix"
)

const (
	defaultBitDepth  = 16
	defaultExtension = "wav"
	defaultLowpassHz = 80
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: Render{
			Mode:          string(mix.ModeSurround),
			BitDepth:      defaultBitDepth,
			StemExtension: defaultExtension,
			LFELowpass:    true,
			LFELowpassHz:  defaultLowpassHz,
		},
		Split: Split{
			SegmentSeconds: chunk.DefaultSegmentSeconds,
			OverlapSeconds: chunk.DefaultOverlapSeconds,
			Gain:           chunk.DefaultGain,
		},
		Stems: Stems{
			Bass:   Stem{Upmix: matrix.QuadroRear.String(), LFE: true},
			Drums:  Stem{Upmix: matrix.QuadroSide.String(), LFE: true},
			Other:  Stem{Upmix: matrix.Full.String()},
			Piano:  Stem{Upmix: matrix.Screen.String()},
			Vocals: Stem{Upmix: matrix.MidSideScreen.String()},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
