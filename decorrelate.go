package sonic

import "github.com/mewkiz/sonic/internal/fixedpoint"

// decorrelateForward applies the channel decorrelation transform to
// interleaved stereo samples in place, ahead of prediction (§4.5).
func decorrelateForward(mode Decorrelation, samples []int32, channels int) {
	if channels != 2 {
		return
	}
	switch mode {
	case MidSide:
		for i := 0; i < len(samples); i += channels {
			samples[i] += samples[i+1]
			samples[i+1] -= fixedpoint.Shift(samples[i], 1)
		}
	case LeftSide:
		for i := 0; i < len(samples); i += channels {
			samples[i+1] -= samples[i]
		}
	case RightSide:
		for i := 0; i < len(samples); i += channels {
			samples[i] -= samples[i+1]
		}
	}
}

// decorrelateInverse undoes decorrelateForward.
func decorrelateInverse(mode Decorrelation, samples []int32, channels int) {
	if channels != 2 {
		return
	}
	switch mode {
	case MidSide:
		for i := 0; i < len(samples); i += channels {
			samples[i+1] += fixedpoint.Shift(samples[i], 1)
			samples[i] -= samples[i+1]
		}
	case LeftSide:
		for i := 0; i < len(samples); i += channels {
			samples[i+1] += samples[i]
		}
	case RightSide:
		for i := 0; i < len(samples); i += channels {
			samples[i] += samples[i+1]
		}
	}
}
