package fixedpoint

import "testing"

func TestShiftRoundsToNearest(t *testing.T) {
	cases := []struct{ a, want int32 }{
		{0, 0},
		{8, 1},  // (8+8)>>4 = 1
		{7, 0},  // (7+8)>>4 = 0
		{24, 2}, // (24+8)>>4 = 2
	}
	for _, c := range cases {
		if got := Shift(c.a, SampleShift); got != c.want {
			t.Errorf("Shift(%d, %d) = %d, want %d", c.a, SampleShift, got, c.want)
		}
	}
}

func TestShiftDown(t *testing.T) {
	cases := []struct{ a, want int32 }{
		{16, 1},
		{-16, 0},
		{17, 1},
		{-17, -1},
		{0, 0},
	}
	for _, c := range cases {
		if got := ShiftDown(c.a, 4); got != c.want {
			t.Errorf("ShiftDown(%d, 4) = %d, want %d", c.a, got, c.want)
		}
	}
}

func TestMulWrapMatchesPlainMultiplyInRange(t *testing.T) {
	if got := MulWrap(1000, 1000); got != 1000000 {
		t.Errorf("MulWrap(1000, 1000) = %d, want 1000000", got)
	}
	if got := MulWrap(-1000, 1000); got != -1000000 {
		t.Errorf("MulWrap(-1000, 1000) = %d, want -1000000", got)
	}
}

func TestMulWrapOverflowsLikeUint32(t *testing.T) {
	// (uint32)(-1) * (uint32)(-1) = 1, reinterpreted as signed int32(1).
	if got := MulWrap(-1, -1); got != 1 {
		t.Errorf("MulWrap(-1, -1) = %d, want 1", got)
	}
}
