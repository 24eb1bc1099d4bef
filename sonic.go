// Package sonic implements the core of the Sonic audio codec: a
// block-based lossless/lossy compressor for 16-bit PCM, based on Paul
// Francis Harrison's Bonk design.
//
// The package is organized the way the codec's three tightly coupled
// subsystems are described in the spec: internal/rangecoder carries the
// binary arithmetic coder and integer symbol codec, internal/lattice
// carries the whitening predictor, and this package sequences them
// (decorrelate.go, header.go, encoder.go, decoder.go) into per-frame
// encode/decode pipelines.
//
// The codec core is single-threaded and non-suspending: each call to
// Encoder.EncodeFrame or Decoder.DecodeFrame is synchronous and consumes
// or produces exactly one frame. A caller running multiple streams
// concurrently must give each its own Encoder/Decoder.
package sonic

// Decorrelation selects the inter-channel decorrelation transform applied
// before prediction (§4.5). It is meaningless, and must be NONE, for mono
// streams.
type Decorrelation uint8

// Decorrelation modes.
const (
	MidSide Decorrelation = iota
	LeftSide
	RightSide
	NoDecorrelation
)

func (d Decorrelation) String() string {
	switch d {
	case MidSide:
		return "mid_side"
	case LeftSide:
		return "left_side"
	case RightSide:
		return "right_side"
	case NoDecorrelation:
		return "none"
	default:
		return "unknown"
	}
}

// MaxChannels is the largest channel count this core supports (§1
// Non-goals: more than two channels is out of scope).
const MaxChannels = 2

// MaxOverread is the range-decoder overread tolerance before a frame is
// rejected as invalid data (§4.1).
const MaxOverread = 8

// Version is the only stream version this codec emits or accepts.
const Version = 2

// samplerateTable is the fixed, index-addressed sample rate table (§3).
var samplerateTable = [...]uint32{44100, 22050, 11025, 96000, 48000, 32000, 24000, 16000, 8000}

func samplerateIndex(rate uint32) (int, bool) {
	for i, r := range samplerateTable {
		if r == rate {
			return i, true
		}
	}
	return 0, false
}

// Config holds the stream-level parameters persisted in the stream header
// and otherwise immutable for the stream's lifetime (§3).
type Config struct {
	MinorVersion  uint8
	Channels      int
	SampleRate    uint32
	Lossless      bool
	Decorrelation Decorrelation
	Downsampling  int
	NumTaps       int
}

// PresetLossless returns the configuration the original sonicls encoder
// used: 32 taps, no downsampling, lossless.
func PresetLossless(channels int, sampleRate uint32) Config {
	c := Config{
		Channels:     channels,
		SampleRate:   sampleRate,
		Lossless:     true,
		NumTaps:      32,
		Downsampling: 1,
	}
	c.Decorrelation = defaultDecorrelation(channels)
	return c
}

// PresetLossy returns the configuration the original sonic encoder used:
// 128 taps, 2x downsampling, lossy.
func PresetLossy(channels int, sampleRate uint32) Config {
	c := Config{
		Channels:     channels,
		SampleRate:   sampleRate,
		Lossless:     false,
		NumTaps:      128,
		Downsampling: 2,
	}
	c.Decorrelation = defaultDecorrelation(channels)
	return c
}

func defaultDecorrelation(channels int) Decorrelation {
	if channels == 2 {
		return MidSide
	}
	return NoDecorrelation
}

// blockAlign returns the per-channel sample count of one downsampled block:
// floor(2048*samplerate / (44100*downsampling)).
func blockAlign(sampleRate uint32, downsampling int) int {
	return int(2048 * uint64(sampleRate) / (44100 * uint64(downsampling)))
}

// FrameSize returns the number of interleaved int16 samples (across all
// channels) one encode/decode call consumes or produces.
func (c Config) FrameSize() int {
	return c.Channels * blockAlign(c.SampleRate, c.Downsampling) * c.Downsampling
}

// BlockAlign returns the per-channel downsampled residual block size.
func (c Config) BlockAlign() int {
	return blockAlign(c.SampleRate, c.Downsampling)
}

// tailSize returns num_taps*channels, the analysis/synthesis overlap carried
// between frames.
func (c Config) tailSize() int {
	return c.NumTaps * c.Channels
}

// validate checks the invariants common to both encode-time and decode-time
// configuration (§3 Invariants), returning ErrInvalidHeader on violation.
// With decoderSide false the num_taps upper bound is 1024 (§8: a documented
// encoder/decoder asymmetry); with decoderSide true it is the tighter 128.
func (c Config) validate(decoderSide bool) error {
	if c.Channels < 1 || c.Channels > MaxChannels {
		return invalidHeaderf("sonic: unsupported channel count %d", c.Channels)
	}
	if _, ok := samplerateIndex(c.SampleRate); !ok {
		return invalidHeaderf("sonic: unsupported sample rate %d", c.SampleRate)
	}
	if c.Downsampling <= 0 || c.Downsampling > 3 {
		return invalidHeaderf("sonic: invalid downsampling %d", c.Downsampling)
	}
	if c.NumTaps < 32 || c.NumTaps%32 != 0 {
		return invalidHeaderf("sonic: invalid num_taps %d", c.NumTaps)
	}
	maxTaps := 1024
	if decoderSide {
		maxTaps = 128
	}
	if c.NumTaps > maxTaps {
		return invalidHeaderf("sonic: num_taps %d exceeds bound %d", c.NumTaps, maxTaps)
	}
	if (c.Decorrelation == NoDecorrelation) != (c.Channels == 1) {
		return invalidHeaderf("sonic: decorrelation %v invalid for %d channel(s)", c.Decorrelation, c.Channels)
	}
	if c.tailSize() > c.FrameSize() {
		return invalidHeaderf("sonic: num_taps*channels (%d) exceeds frame_size (%d)", c.tailSize(), c.FrameSize())
	}
	return nil
}
