// Package lattice implements the Sonic whitening predictor: a modified
// Levinson-Durbin analysis on the encode side, and the matching reflection
// lattice synthesis (state warm-up and per-sample error correction) on the
// decode side.
//
// All arithmetic here is integer fixed-point except the Levinson-Durbin
// correlation sums, which accumulate in float64 to match the reference
// encoder's use of double precision (§5 of the codec spec: only analysis
// and rate control use floating point).
package lattice

import (
	"math"

	"github.com/mewkiz/sonic/internal/fixedpoint"
)

// TapQuant returns the fixed, untransmitted per-tap quantizer table for the
// given predictor order: tap_quant[i] = isqrt(i+1).
func TapQuant(numTaps int) []int32 {
	quant := make([]int32, numTaps)
	for i := range quant {
		quant[i] = isqrt(int64(i + 1))
	}
	return quant
}

func isqrt(x int64) int32 {
	if x <= 0 {
		return 0
	}
	r := int64(0)
	for (r+1)*(r+1) <= x {
		r++
	}
	return int32(r)
}

// Analyze runs the modified Levinson-Durbin recursion over window in
// place, whitening it as it goes, and writes the quantized reflection
// coefficients for each of len(out) taps into out.
//
// window must have length >= (len(out)+1)*channels plus however many
// trailing samples the caller wants whitened; the algorithm only reads and
// updates window[0:len(window)].
func Analyze(window []int32, out []int32, channels int, tapQuant []int32) {
	n := len(window)
	state := make([]int32, n)
	copy(state, window)

	for i := range out {
		step := (i + 1) * channels
		var xx, xy float64
		for j := 0; j < n-step; j++ {
			sv := float64(state[j])
			xx += sv * sv
			xy += float64(window[step+j]) * sv
		}

		var k int32
		bound := fixedpoint.LatticeFactor / tapQuant[i]
		if xx != 0 {
			kf := -xy/xx*float64(fixedpoint.LatticeFactor)/float64(tapQuant[i]) + 0.5
			k = int32(math.Floor(kf))
			if k > bound {
				k = bound
			}
			if -k > bound {
				k = -bound
			}
		}
		out[i] = k

		kk := k * tapQuant[i]
		for j := 0; j < n-step; j++ {
			xv := window[step+j]
			sv := state[j]
			window[step+j] = xv + fixedpoint.ShiftDown(fixedpoint.MulWrap(kk, sv), fixedpoint.LatticeShift)
			state[j] = sv + fixedpoint.ShiftDown(fixedpoint.MulWrap(kk, xv), fixedpoint.LatticeShift)
		}
	}
}

// InitState warms up the lattice synthesis state from a dequantized
// coefficient vector k, ahead of decoding a channel's first block.
func InitState(k, state []int32) {
	order := len(k)
	for i := order - 2; i >= 0; i-- {
		x := state[i]
		for j, p := 0, i+1; p < order; j, p = j+1, p+1 {
			tmp := x + fixedpoint.ShiftDown(fixedpoint.MulWrap(k[j], state[p]), fixedpoint.LatticeShift)
			state[p] += fixedpoint.ShiftDown(fixedpoint.MulWrap(k[j], x), fixedpoint.LatticeShift)
			x = tmp
		}
	}
}

// CalcError synthesizes one reconstructed sample from a residual error
// value, advancing the lattice state in place.
func CalcError(k, state []int32, errorValue int32) int32 {
	order := len(k)
	x := errorValue - fixedpoint.ShiftDown(fixedpoint.MulWrap(k[order-1], state[order-1]), fixedpoint.LatticeShift)

	for i := order - 2; i >= 0; i-- {
		kv, sv := k[i], state[i]
		x -= fixedpoint.ShiftDown(fixedpoint.MulWrap(kv, sv), fixedpoint.LatticeShift)
		state[i+1] = sv + fixedpoint.ShiftDown(fixedpoint.MulWrap(kv, x), fixedpoint.LatticeShift)
	}

	const clampBound = int32(fixedpoint.SampleFactor << 16)
	if x > clampBound {
		x = clampBound
	}
	if x < -clampBound {
		x = -clampBound
	}

	state[0] = x
	return x
}
