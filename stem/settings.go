// SPDX-License-Identifier: EPL-2.0

package stem

import (
	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/utils"
)

// Settings is the per-instrument mix configuration.
type Settings struct {
	Upmix  matrix.Option
	LFE    bool
	GainDB float64
}

// Gain is the linear gain of s.
func (s Settings) Gain() float32 { return utils.DecibelToGain(s.GainDB) }

// Options configures how a folder is turned into a stem-set.
type Options struct {
	// Extension of the stem files, without the dot.
	Extension string
	Stems     map[Role]Settings
}

// DefaultOptions returns the stock layout: WAV stems, vocals in mid-side
// across the screen, bass and drums feeding the LFE.
func DefaultOptions() Options {
	return Options{
		Extension: "wav",
		Stems: map[Role]Settings{
			Vocals: {Upmix: matrix.MidSideScreen},
			Bass:   {Upmix: matrix.QuadroRear, LFE: true},
			Drums:  {Upmix: matrix.QuadroSide, LFE: true},
			Piano:  {Upmix: matrix.Screen},
			Other:  {Upmix: matrix.Full},
		},
	}
}

// settings returns the configuration of r, falling back to the defaults
// when the caller left it out.
func (o Options) settings(r Role) Settings {
	if s, ok := o.Stems[r]; ok {
		return s
	}
	return DefaultOptions().Stems[r]
}
