// SPDX-License-Identifier: EPL-2.0

package matrix

import (
	"errors"
	"math"
	"testing"
)

func TestPower(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opt  Option
		want float64
	}{
		{Center, 0.5}, // both sides fold into one speaker
		{Front, 1},
		{Screen, 1},
		{QuadroSide, 1},
		{QuadroRear, 1},
		{MidSideScreen, 1},
		{MidSideFull, 1},
		{Full, 1},
		{Skip, 0},
	}

	if len(tests) != len(Options) {
		t.Fatalf("table covers %d options, want %d", len(tests), len(Options))
	}

	for _, tt := range tests {
		t.Run(tt.opt.String(), func(t *testing.T) {
			t.Parallel()
			if got := For(tt.opt).Power(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("For(%s).Power() = %v, want %v", tt.opt, got, tt.want)
			}
		})
	}
}

func TestPerSidePower(t *testing.T) {
	t.Parallel()

	// Each side on its own emits unit power for every spreading style.
	for _, opt := range Options {
		if opt == Skip || opt == Center {
			continue
		}
		m := For(opt)
		var left, right float64
		for ch := range Channels {
			left += m.Left[ch] * m.Left[ch]
			right += m.Right[ch] * m.Right[ch]
		}
		if math.Abs(left-1) > 1e-12 || math.Abs(right-1) > 1e-12 {
			t.Errorf("%s: left power %v, right power %v, want 1", opt, left, right)
		}
	}
}

func TestLFENeverRouted(t *testing.T) {
	t.Parallel()

	for _, opt := range Options {
		if !For(opt).Silent(LFE) {
			t.Errorf("%s routes input to LFE", opt)
		}
	}
}

func TestSkipIsZero(t *testing.T) {
	t.Parallel()

	if !For(Skip).IsZero() {
		t.Error("Skip matrix is not all zero")
	}
	for _, opt := range Options[:len(Options)-1] {
		if For(opt).IsZero() {
			t.Errorf("%s matrix is all zero", opt)
		}
	}
	if !For(Option(42)).IsZero() {
		t.Error("unknown option should yield the zero matrix")
	}
}

func TestMidSideSigns(t *testing.T) {
	t.Parallel()

	m := For(MidSideFull)
	// A mono (L == R) signal cancels on the sides.
	if got := m.Left[SideL] + m.Right[SideL]; got != 0 {
		t.Errorf("mono leak into SideL = %v", got)
	}
	if got := m.Left[SideR] + m.Right[SideR]; got != 0 {
		t.Errorf("mono leak into SideR = %v", got)
	}
	if m.Left[SideR] >= 0 || m.Right[SideL] >= 0 {
		t.Error("side component should be inverted on the opposite speaker")
	}
	for _, ch := range []int{RearL, RearR, LFE} {
		if m.Left[ch] != 0 || m.Right[ch] != 0 {
			t.Errorf("mid-side full feeds channel %d", ch)
		}
	}
	if m.Left[C] != m.Right[C] || m.Left[L] != m.Left[C] {
		t.Error("mid should reach the front pair and center at equal gain")
	}

	s := For(MidSideScreen)
	if s.Left[R] >= 0 || s.Right[L] >= 0 {
		t.Error("mid-side screen should feed an inverted cue to the opposite front")
	}
}

func TestFrontUnity(t *testing.T) {
	t.Parallel()

	m := For(Front)
	if m.Left[L] != 1 || m.Right[R] != 1 {
		t.Errorf("Front gains = %v / %v, want unity", m.Left[L], m.Right[R])
	}
}

func TestParseOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Option
		err  error
	}{
		{"front", Front, nil},
		{"Mid-Side Screen", MidSideScreen, nil},
		{"MidSideFull", MidSideFull, nil},
		{"quadro_rear", QuadroRear, nil},
		{"SKIP", Skip, nil},
		{"surround", Skip, ErrUnknownOption},
		{"", Skip, ErrUnknownOption},
	}

	for _, tt := range tests {
		got, err := ParseOption(tt.in)
		if !errors.Is(err, tt.err) {
			t.Errorf("ParseOption(%q) error = %v, want %v", tt.in, err, tt.err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseOption(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, opt := range Options {
		got, err := ParseOption(opt.String())
		if err != nil || got != opt {
			t.Errorf("ParseOption(%q) = %v, %v", opt.String(), got, err)
		}
	}
}

func TestTextMarshaling(t *testing.T) {
	t.Parallel()

	var o Option
	if err := o.UnmarshalText([]byte("quadro-side")); err != nil || o != QuadroSide {
		t.Errorf("UnmarshalText = %v, %v", o, err)
	}
	b, err := Full.MarshalText()
	if err != nil || string(b) != "full" {
		t.Errorf("MarshalText = %q, %v", b, err)
	}
	if _, err := Option(-1).MarshalText(); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("MarshalText(-1) error = %v", err)
	}
	if got := Option(99).String(); got != "Option(99)" {
		t.Errorf("String() = %q", got)
	}
}
