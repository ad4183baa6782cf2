//go:build linux

package evdevio

import "testing"

func TestTestBit(t *testing.T) {
	buf := []byte{0b00000100, 0b00000001}

	cases := []struct {
		bit  uint
		want bool
	}{
		{0, false},
		{2, true},
		{7, false},
		{8, true},
		{9, false},
		{100, false}, // out of range never panics
	}

	for _, c := range cases {
		if got := testBit(buf, c.bit); got != c.want {
			t.Errorf("testBit(buf, %d) = %v, want %v", c.bit, got, c.want)
		}
	}
}

func TestIocCodeMatchesEviocgbitShape(t *testing.T) {
	// EVIOCGBIT(0, len) is a well-known constant on Linux: direction=READ,
	// type='E', nr=0x20, size=len. Spot-check against that to catch a
	// shift-order mistake rather than trusting the formula blind.
	got := eviocgbit(0, 8)
	// (2 << 30) | (8 << 16) | ('E' << 8) | 0x20
	want := uint(0x80084520)
	if got != want {
		t.Errorf("eviocgbit(0, 8) = %#x, want %#x", got, want)
	}
}
