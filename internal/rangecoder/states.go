package rangecoder

// States holds the pair of 256-entry transition tables that drive the
// adaptive probability update of the range coder: zero[p] is the next state
// after observing a zero bit at probability p, one[p] after a one bit.
//
// Both tables are deterministic functions of (factor, maxP) and are
// rebuilt once per coder instance rather than shared globally, keeping each
// Encoder/Decoder self-contained (§5: no global mutable state).
type States struct {
	zero [256]uint8
	one  [256]uint8
}

// DefaultFactor and DefaultMaxP are the parameters the Sonic bitstream uses
// to seed every range coder instance: factor ~= 0.05*2^32, maxP = 256-8.
//
// DefaultFactor is written as an integer-valued expression rather than
// uint64(0.05*(1<<32)): that float product (214748364.8) has a non-zero
// fractional part, and Go rejects a constant float-to-integer conversion
// that would truncate. 1<<32/20 is 0.05 of 1<<32 rounded down (214748364).
const (
	DefaultFactor = uint64(1) << 32 / 20
	DefaultMaxP   = 256 - 8
)

// NewStates builds the zero/one transition tables for the given exponential
// update factor and probability ceiling. factor and maxP are expressed in
// the same fixed-point domain as the C reference (factor is a Q32 fraction
// of 1.0, maxP is an 8-bit probability ceiling strictly below 256).
func NewStates(factor uint64, maxP uint8) *States {
	const one = uint64(1) << 32

	var st States

	// Build the "one" half of the table by repeatedly applying the
	// exponential relaxation p' = p + (1-p)*factor starting near p=0.5,
	// producing an increasing run of representable 8-bit probabilities.
	lastP8 := 0
	p := one / 2
	for i := 0; i < 128; i++ {
		p8 := int((256*p + one/2) >> 32)
		if p8 <= lastP8 {
			p8 = lastP8 + 1
		}
		if lastP8 > 0 && lastP8 < 256 && p8 <= int(maxP) {
			st.one[lastP8] = uint8(p8)
		}
		p += ((one - p) * factor) >> 32
		lastP8 = p8
	}

	// Fill in any probability bytes the relaxation above never reached.
	for i := 256 - int(maxP); i <= int(maxP); i++ {
		if st.one[i] != 0 {
			continue
		}
		p := (uint64(i)*one + 128) >> 8
		p += ((one - p) * factor) >> 32
		p8 := int((256*p + one/2) >> 32)
		if p8 <= i {
			p8 = i + 1
		}
		if p8 > int(maxP) {
			p8 = int(maxP)
		}
		st.one[i] = uint8(p8)
	}

	// The zero table is the mirror image of the one table around 128: a
	// low probability of seeing a one is a high probability of seeing a
	// zero, and vice versa.
	for i := 1; i < 256; i++ {
		st.zero[i] = uint8(256 - int(st.one[256-i]))
	}

	return &st
}
