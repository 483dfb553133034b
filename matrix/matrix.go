// SPDX-License-Identifier: EPL-2.0

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// Output channel indices of the 7.1 layout.
const (
	L = iota
	R
	C
	LFE
	RearL
	RearR
	SideL
	SideR

	Channels
)

// Constant-power scaling for a signal spread over 2, 3 or 4 speakers.
var (
	k2 = math.Sqrt(1.0 / 2.0)
	k3 = math.Sqrt(1.0 / 3.0)
	k4 = 0.5
)

// LFEGain is the -10 dB level at which (L+R) feeds the LFE channel.
const LFEGain = 0.31622776601683794

// Option names an upmix style for one stereo stem.
type Option int

const (
	Center Option = iota
	Front
	Screen
	QuadroSide
	QuadroRear
	MidSideScreen
	MidSideFull
	Full
	Skip
)

// Options lists every style in declaration order.
var Options = []Option{Center, Front, Screen, QuadroSide, QuadroRear, MidSideScreen, MidSideFull, Full, Skip}

var names = [...]string{
	Center:        "center",
	Front:         "front",
	Screen:        "screen",
	QuadroSide:    "quadro_side",
	QuadroRear:    "quadro_rear",
	MidSideScreen: "mid_side_screen",
	MidSideFull:   "mid_side_full",
	Full:          "full",
	Skip:          "skip",
}

func (o Option) valid() bool { return o >= Center && o <= Skip }

// String returns the configuration name of o.
func (o Option) String() string {
	if !o.valid() {
		return fmt.Sprintf("Option(%d)", int(o))
	}
	return names[o]
}

// ParseOption maps a configuration name (case and separator insensitive:
// "mid-side screen", "MidSideScreen" and "mid_side_screen" are equal) to an
// Option.
func ParseOption(s string) (Option, error) {
	key := canonical(s)
	for i, name := range names {
		if canonical(name) == key {
			return Option(i), nil
		}
	}
	return Skip, fmt.Errorf("%w: %q", ErrUnknownOption, s)
}

func canonical(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

func (o Option) MarshalText() ([]byte, error) {
	if !o.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOption, int(o))
	}
	return []byte(names[o]), nil
}

func (o *Option) UnmarshalText(text []byte) error {
	v, err := ParseOption(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Matrix holds, per output channel, the gain applied to the left and the
// right input channel.
type Matrix struct {
	Left  [Channels]float64
	Right [Channels]float64
}

var table = [...]Matrix{
	Center: {
		Left:  gains(C, k2),
		Right: gains(C, k2),
	},
	Front: {
		Left:  gains(L, 1),
		Right: gains(R, 1),
	},
	Screen: {
		Left:  gains(L, k2, C, k2),
		Right: gains(R, k2, C, k2),
	},
	QuadroSide: {
		Left:  gains(L, k2, SideL, k2),
		Right: gains(R, k2, SideR, k2),
	},
	QuadroRear: {
		Left:  gains(L, k2, RearL, k2),
		Right: gains(R, k2, RearR, k2),
	},
	MidSideScreen: {
		Left:  gains(L, k3, C, k3, R, -k3),
		Right: gains(R, k3, C, k3, L, -k3),
	},
	// Mid feeds the front pair and C; the side difference goes to the
	// side pair in opposite polarity. Four k4 taps per input keep the
	// row at unit power, so the rear pair stays silent.
	MidSideFull: {
		Left:  gains(L, k4, C, k4, SideL, k4, SideR, -k4),
		Right: gains(R, k4, C, k4, SideR, k4, SideL, -k4),
	},
	Full: {
		Left:  gains(L, k3, RearL, k3, SideL, k3),
		Right: gains(R, k3, RearR, k3, SideR, k3),
	},
	Skip: {},
}

// gains builds a channel row from (channel, gain) pairs.
func gains(pairs ...float64) (row [Channels]float64) {
	for i := 0; i+1 < len(pairs); i += 2 {
		row[int(pairs[i])] = pairs[i+1]
	}
	return row
}

// For returns the gain matrix of o. Unknown options yield the Skip matrix.
func For(o Option) Matrix {
	if !o.valid() {
		return Matrix{}
	}
	return table[o]
}

// Matrix is shorthand for For(o).
func (o Option) Matrix() Matrix { return For(o) }

// Power is the emitted power of a unit stereo signal relative to the input,
// (sum(left²) + sum(right²)) / 2. It is 1 for every option that keeps the
// two sides on separate speakers and 0 for Skip.
func (m Matrix) Power() float64 {
	var p float64
	for ch := range Channels {
		p += m.Left[ch]*m.Left[ch] + m.Right[ch]*m.Right[ch]
	}
	return p / 2
}

// Silent reports whether channel ch receives nothing from either side.
func (m Matrix) Silent(ch int) bool {
	return m.Left[ch] == 0 && m.Right[ch] == 0
}

// IsZero reports whether m routes nothing anywhere.
func (m Matrix) IsZero() bool {
	return m == Matrix{}
}
