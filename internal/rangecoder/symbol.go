package rangecoder

import "github.com/mewkiz/pkg/errutil"

// maxUnaryPrefix bounds the number of leading one-bits a magnitude's unary
// exponent prefix may carry before a decode is rejected as corrupt (§4.2).
const maxUnaryPrefix = 32

func log2(a uint32) int {
	n := -1
	for a != 0 {
		n++
		a >>= 1
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// PutSymbol encodes v as a signed (or, when signed is false, unsigned)
// integer symbol: a zero flag, an Elias-gamma-like unary exponent prefix,
// a binary mantissa, and - for signed symbols with v != 0 - a sign bit.
//
// State indices follow §4.2 of the codec spec: state[0] is the zero flag,
// state[1..10] the unary exponent prefix (saturating at index 10),
// state[11..21] the sign bit (indexed by min(exponent,10)), and
// state[22..31] the mantissa bits (each saturating at index 9 past the
// tenth).
func PutSymbol(e *Encoder, states *States, state *[32]uint8, v int, signed bool) {
	if v == 0 {
		e.PutBit(states, &state[0], true)
		return
	}
	e.PutBit(states, &state[0], false)

	a := uint32(v)
	if v < 0 {
		a = uint32(-v)
	}
	exp := log2(a)

	for i := 0; i < exp; i++ {
		e.PutBit(states, &state[1+minInt(i, 9)], true)
	}
	e.PutBit(states, &state[1+minInt(exp, 9)], false)

	for i := exp - 1; i >= 0; i-- {
		bit := (a>>uint(i))&1 != 0
		e.PutBit(states, &state[22+minInt(i, 9)], bit)
	}

	if signed {
		e.PutBit(states, &state[11+minInt(exp, 10)], v < 0)
	}
}

// GetSymbol decodes a value written by PutSymbol. It returns an
// InvalidData error if the unary exponent prefix exceeds maxUnaryPrefix.
func GetSymbol(d *Decoder, states *States, state *[32]uint8, signed bool) (int, error) {
	if d.GetBit(states, &state[0]) {
		return 0, nil
	}

	exp := 0
	for d.GetBit(states, &state[1+minInt(exp, 9)]) {
		exp++
		if exp > maxUnaryPrefix {
			return 0, errutil.Newf("rangecoder: unary exponent prefix exceeds %d bits", maxUnaryPrefix)
		}
	}

	a := uint32(1)
	for i := exp - 1; i >= 0; i-- {
		bit := uint32(0)
		if d.GetBit(states, &state[22+minInt(i, 9)]) {
			bit = 1
		}
		a = a<<1 | bit
	}

	neg := signed && d.GetBit(states, &state[11+minInt(exp, 10)])
	if neg {
		return -int(a), nil
	}
	return int(a), nil
}
