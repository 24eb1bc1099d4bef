package sonic

import (
	"github.com/mewkiz/sonic/internal/fixedpoint"
	"github.com/mewkiz/sonic/internal/lattice"
	"github.com/mewkiz/sonic/internal/rangecoder"
)

// Decoder holds the per-stream predictor synthesis state carried across
// frames (§3 Decoder state, §5 Ordering: frames must be fed in order).
type Decoder struct {
	cfg      Config
	tapQuant []int32

	predictorState [][]int32
	intSamples     []int32
	codedSamples   [][]int32
	coeffs         []int32
}

// NewDecoder validates cfg (applying the decoder's tighter num_taps bound,
// §8) and allocates a Decoder ready to decompress packets produced for
// this configuration.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.validate(true); err != nil {
		return nil, err
	}

	state := make([][]int32, cfg.Channels)
	coded := make([][]int32, cfg.Channels)
	for ch := range state {
		state[ch] = make([]int32, cfg.NumTaps)
		coded[ch] = make([]int32, cfg.BlockAlign())
	}

	return &Decoder{
		cfg:            cfg,
		tapQuant:       lattice.TapQuant(cfg.NumTaps),
		predictorState: state,
		intSamples:     make([]int32, cfg.FrameSize()),
		codedSamples:   coded,
		coeffs:         make([]int32, cfg.NumTaps),
	}, nil
}

// DecodeFrame decompresses one packet produced by Encoder.EncodeFrame and
// returns cfg.FrameSize() interleaved int16 samples.
//
// On failure the partially reconstructed frame is discarded and the error
// is returned; the decoder's predictor state is left as-is (§7: the stream
// is effectively corrupt past that point, the decoder never retries).
func (d *Decoder) DecodeFrame(packet []byte) ([]int16, error) {
	dec, err := rangecoder.NewDecoder(packet)
	if err != nil {
		return nil, invalidDataf("sonic: %v", err)
	}
	states := rangecoder.NewStates(rangecoder.DefaultFactor, rangecoder.DefaultMaxP)
	var state [32]uint8
	for i := range state {
		state[i] = 128
	}

	for i := range d.coeffs {
		v, err := rangecoder.GetSymbol(dec, states, &state, true)
		if err != nil {
			return nil, invalidDataf("sonic: decoding predictor coefficient %d: %v", i, err)
		}
		d.coeffs[i] = fixedpoint.MulWrap(int32(v), d.tapQuant[i])
	}

	quant := 1
	if !d.cfg.Lossless {
		q, err := rangecoder.GetSymbol(dec, states, &state, false)
		if err != nil {
			return nil, invalidDataf("sonic: decoding quantizer: %v", err)
		}
		quant = q * fixedpoint.SampleFactor
	}

	channels := d.cfg.Channels
	blockAlign := d.cfg.BlockAlign()
	frameSize := d.cfg.FrameSize()

	for ch := 0; ch < channels; ch++ {
		if dec.Overread() > MaxOverread {
			return nil, invalidDataf("sonic: range decoder overread %d exceeds bound %d", dec.Overread(), MaxOverread)
		}

		lattice.InitState(d.coeffs, d.predictorState[ch])

		row := d.codedSamples[ch]
		for i := range row {
			v, err := rangecoder.GetSymbol(dec, states, &state, true)
			if err != nil {
				return nil, invalidDataf("sonic: decoding residual %d of channel %d: %v", i, ch, err)
			}
			row[i] = int32(v)
		}

		x := ch
		for i := 0; i < blockAlign; i++ {
			for j := 0; j < d.cfg.Downsampling-1; j++ {
				d.intSamples[x] = lattice.CalcError(d.coeffs, d.predictorState[ch], 0)
				x += channels
			}
			errVal := fixedpoint.MulWrap(row[i], int32(quant))
			d.intSamples[x] = lattice.CalcError(d.coeffs, d.predictorState[ch], errVal)
			x += channels
		}

		for i := 0; i < d.cfg.NumTaps; i++ {
			d.predictorState[ch][i] = d.intSamples[frameSize-channels+ch-i*channels]
		}
	}

	if dec.Overread() > MaxOverread {
		return nil, invalidDataf("sonic: range decoder overread %d exceeds bound %d", dec.Overread(), MaxOverread)
	}

	decorrelateInverse(d.cfg.Decorrelation, d.intSamples, channels)

	out := make([]int16, frameSize)
	for i, v := range d.intSamples {
		if !d.cfg.Lossless {
			v = fixedpoint.Shift(v, fixedpoint.SampleShift)
		}
		out[i] = clipInt16(v)
	}
	return out, nil
}

func clipInt16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
