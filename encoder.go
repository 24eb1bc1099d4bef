package sonic

import (
	"math"

	"github.com/mewkiz/sonic/internal/fixedpoint"
	"github.com/mewkiz/sonic/internal/lattice"
	"github.com/mewkiz/sonic/internal/rangecoder"
)

const (
	baseQuant     = 0.6
	rateVariation = 3.0
)

// Encoder holds the per-stream state an encode call needs across frames:
// the analysis tail carried from the previous frame and scratch buffers
// sized once at construction (§5: each instance exclusively owns its
// scratch buffers, reused across frames).
type Encoder struct {
	cfg      Config
	tapQuant []int32

	tail   []int32
	window []int32

	intSamples   []int32
	codedSamples [][]int32
	coeffs       []int32
}

// NewEncoder validates cfg and allocates an Encoder ready to compress
// frames of cfg.FrameSize() interleaved int16 samples.
func NewEncoder(cfg Config) (*Encoder, error) {
	if cfg.Channels > MaxChannels {
		return nil, invalidArgumentf("sonic: encoder supports at most %d channels, got %d", MaxChannels, cfg.Channels)
	}
	if err := cfg.validate(false); err != nil {
		return nil, err
	}

	tailSize := cfg.tailSize()
	windowSize := 2*tailSize + cfg.FrameSize()

	coded := make([][]int32, cfg.Channels)
	for ch := range coded {
		coded[ch] = make([]int32, cfg.BlockAlign())
	}

	return &Encoder{
		cfg:          cfg,
		tapQuant:     lattice.TapQuant(cfg.NumTaps),
		tail:         make([]int32, tailSize),
		window:       make([]int32, windowSize),
		intSamples:   make([]int32, cfg.FrameSize()),
		codedSamples: coded,
		coeffs:       make([]int32, cfg.NumTaps),
	}, nil
}

// packetCapacity is the worst-case encoded packet size the reference
// codec pre-allocates: frame_size*5 + 1000 bytes.
func (e *Encoder) packetCapacity() int {
	return e.cfg.FrameSize()*5 + 1000
}

// EncodeFrame compresses one frame of cfg.FrameSize() interleaved int16
// samples and returns the encoded packet. Apart from rejecting a frame of
// the wrong length with ErrInvalidArgument, the encoder has no runtime
// failure mode once construction succeeds (§7): its output buffer is
// sized for the worst case.
func (e *Encoder) EncodeFrame(samples []int16) ([]byte, error) {
	if len(samples) != e.cfg.FrameSize() {
		return nil, invalidArgumentf("sonic: expected %d samples, got %d", e.cfg.FrameSize(), len(samples))
	}

	for i, s := range samples {
		v := int32(s)
		if !e.cfg.Lossless {
			v <<= fixedpoint.SampleShift
		}
		e.intSamples[i] = v
	}

	decorrelateForward(e.cfg.Decorrelation, e.intSamples, e.cfg.Channels)

	tailSize := e.cfg.tailSize()
	for i := range e.window {
		e.window[i] = 0
	}
	copy(e.window, e.tail)
	copy(e.window[tailSize:], e.intSamples)
	copy(e.tail, e.intSamples[len(e.intSamples)-tailSize:])

	lattice.Analyze(e.window, e.coeffs, e.cfg.Channels, e.tapQuant)

	buf := make([]byte, e.packetCapacity())
	enc := rangecoder.NewEncoder(buf)
	states := rangecoder.NewStates(rangecoder.DefaultFactor, rangecoder.DefaultMaxP)
	var state [32]uint8
	for i := range state {
		state[i] = 128
	}

	for _, k := range e.coeffs {
		rangecoder.PutSymbol(enc, states, &state, int(k), true)
	}

	blockAlign := e.cfg.BlockAlign()
	channels := e.cfg.Channels
	for ch := 0; ch < channels; ch++ {
		x := tailSize + ch
		for i := 0; i < blockAlign; i++ {
			var sum int32
			for j := 0; j < e.cfg.Downsampling; j++ {
				sum += e.window[x]
				x += channels
			}
			e.codedSamples[ch][i] = sum
		}
	}

	quant := 1
	if !e.cfg.Lossless {
		quant = e.rateControl()
		rangecoder.PutSymbol(enc, states, &state, quant, false)
		quant *= fixedpoint.SampleFactor
	}

	for ch := 0; ch < channels; ch++ {
		row := e.codedSamples[ch]
		if !e.cfg.Lossless {
			for i, v := range row {
				row[i] = roundedDiv(v, int32(quant))
			}
		}
		for _, v := range row {
			rangecoder.PutSymbol(enc, states, &state, int(v), true)
		}
	}

	n := enc.Terminate()
	return buf[:n], nil
}

// rateControl estimates a per-frame quantizer from the energy of the
// downsampled residual (§4.6 step 8): when the RMS value exceeds sqrt(2)
// times the mean absolute value (tails heavier than a two-sided exponential
// distribution), the estimate is raised by rateVariation times the excess,
// which raises the quantizer; otherwise the RMS value is used as is.
func (e *Encoder) rateControl() int {
	var energy1, energy2 float64
	n := 0
	for ch := range e.codedSamples {
		for _, v := range e.codedSamples[ch] {
			s := float64(v)
			energy2 += s * s
			energy1 += math.Abs(s)
			n++
		}
	}
	energy2 = math.Sqrt(energy2 / float64(n))
	energy1 = math.Sqrt2 * energy1 / float64(n)

	if energy2 > energy1 {
		energy2 += (energy2 - energy1) * rateVariation
	}

	quant := int(baseQuant * 1.0 * energy2 / float64(fixedpoint.SampleFactor))
	if quant < 1 {
		quant = 1
	}
	if quant > 65534 {
		quant = 65534
	}
	return quant
}

// roundedDiv performs the symmetric rounding division the reference codec
// uses to divide residuals by the quantizer: sign(n)*floor((|n|+d/2)/d).
func roundedDiv(n, d int32) int32 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}
