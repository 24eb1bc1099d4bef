package sonic

import (
	"bytes"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// HeaderSize is the fixed extradata length the encoder emits; trailing bits
// are zero-padded out to this many bytes (§6.1).
const HeaderSize = 16

// EncodeHeader packs c into the 16-byte stream header ("extradata"), MSB
// first, the way the teacher packs FLAC's STREAMINFO block with
// github.com/icza/bitio.
func EncodeHeader(c Config) ([]byte, error) {
	if err := c.validate(false); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)

	// version_lo (2 bits): always 2, signalling the extended header.
	if err := bw.WriteBits(uint64(Version), 2); err != nil {
		return nil, errutil.Err(err)
	}
	// version (8 bits), minor_version (8 bits).
	if err := bw.WriteBits(uint64(Version), 8); err != nil {
		return nil, errutil.Err(err)
	}
	if err := bw.WriteBits(uint64(c.MinorVersion), 8); err != nil {
		return nil, errutil.Err(err)
	}
	// channels (2 bits).
	if err := bw.WriteBits(uint64(c.Channels), 2); err != nil {
		return nil, errutil.Err(err)
	}
	// samplerate_index (4 bits).
	idx, ok := samplerateIndex(c.SampleRate)
	if !ok {
		return nil, invalidHeaderf("sonic: unsupported sample rate %d", c.SampleRate)
	}
	if err := bw.WriteBits(uint64(idx), 4); err != nil {
		return nil, errutil.Err(err)
	}
	// lossless (1 bit).
	if err := bw.WriteBool(c.Lossless); err != nil {
		return nil, errutil.Err(err)
	}
	// sample_precision (3 bits), written only when lossy.
	if !c.Lossless {
		const samplePrecision = 4 // SAMPLE_SHIFT
		if err := bw.WriteBits(samplePrecision, 3); err != nil {
			return nil, errutil.Err(err)
		}
	}
	// decorrelation (2 bits).
	if err := bw.WriteBits(uint64(c.Decorrelation), 2); err != nil {
		return nil, errutil.Err(err)
	}
	// downsampling (2 bits).
	if err := bw.WriteBits(uint64(c.Downsampling), 2); err != nil {
		return nil, errutil.Err(err)
	}
	// (num_taps/32)-1 (5 bits).
	if err := bw.WriteBits(uint64(c.NumTaps/32-1), 5); err != nil {
		return nil, errutil.Err(err)
	}
	// custom_tap_quant_table (1 bit): always 0, reserved.
	if err := bw.WriteBool(false); err != nil {
		return nil, errutil.Err(err)
	}

	if err := bw.Close(); err != nil {
		return nil, errutil.Err(err)
	}

	out := make([]byte, HeaderSize)
	copy(out, buf.Bytes())
	return out, nil
}

// ParseHeader parses a stream header packed by EncodeHeader. It returns
// ErrInvalidHeader for an unsupported version, sample rate index, channel
// count, zero downsampling, or an out-of-bound/mismatched field (§6.1,
// §7). num_taps is additionally rejected above 128, tighter than the
// encoder's 1024 bound (§8 documents this as an intentional asymmetry).
func ParseHeader(data []byte) (Config, error) {
	br := bitio.NewReader(bytes.NewReader(data))

	versionLo, err := br.ReadBits(2)
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	if versionLo != 2 {
		return Config{}, invalidHeaderf("sonic: unsupported header version_lo %d", versionLo)
	}

	version, err := br.ReadBits(8)
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	if version != Version {
		return Config{}, invalidHeaderf("sonic: unsupported Sonic version %d", version)
	}
	minorVersion, err := br.ReadBits(8)
	if err != nil {
		return Config{}, errutil.Err(err)
	}

	channels, err := br.ReadBits(2)
	if err != nil {
		return Config{}, errutil.Err(err)
	}

	sampleRateIdx, err := br.ReadBits(4)
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	if int(sampleRateIdx) >= len(samplerateTable) {
		return Config{}, invalidHeaderf("sonic: invalid samplerate_index %d", sampleRateIdx)
	}

	lossless, err := br.ReadBool()
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	if !lossless {
		if _, err := br.ReadBits(3); err != nil { // sample_precision, unvalidated per §9(c)
			return Config{}, errutil.Err(err)
		}
	}

	decorr, err := br.ReadBits(2)
	if err != nil {
		return Config{}, errutil.Err(err)
	}

	downsampling, err := br.ReadBits(2)
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	if downsampling == 0 {
		return Config{}, invalidHeaderf("sonic: invalid downsampling value 0")
	}

	numTapsField, err := br.ReadBits(5)
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	numTaps := (int(numTapsField) + 1) << 5

	customTable, err := br.ReadBool()
	if err != nil {
		return Config{}, errutil.Err(err)
	}
	_ = customTable // reserved; must be 0 but the reference decoder does not enforce it

	c := Config{
		MinorVersion:  uint8(minorVersion),
		Channels:      int(channels),
		SampleRate:    samplerateTable[sampleRateIdx],
		Lossless:      lossless,
		Decorrelation: Decorrelation(decorr),
		Downsampling:  int(downsampling),
		NumTaps:       numTaps,
	}
	if err := c.validate(true); err != nil {
		return Config{}, err
	}
	return c, nil
}
