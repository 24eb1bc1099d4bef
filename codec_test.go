package sonic

import "testing"

func encodeDecodeFrame(t *testing.T, cfg Config, samples []int16) []int16 {
	t.Helper()

	enc, err := NewEncoder(cfg)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	packet, err := enc.EncodeFrame(samples)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	dec, err := NewDecoder(cfg)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	out, err := dec.DecodeFrame(packet)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(out) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(out), len(samples))
	}
	return out
}

func TestLosslessStereoSilenceRoundTrip(t *testing.T) {
	cfg := PresetLossless(2, 44100)
	samples := make([]int16, cfg.FrameSize())

	out := encodeDecodeFrame(t, cfg, samples)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %d, want 0", i, v)
		}
	}
}

func TestLosslessMonoImpulseRoundTrip(t *testing.T) {
	cfg := PresetLossless(1, 44100)
	samples := make([]int16, cfg.FrameSize())
	samples[0] = 30000

	out := encodeDecodeFrame(t, cfg, samples)
	for i, v := range out {
		if v != samples[i] {
			t.Fatalf("sample %d: got %d, want %d", i, v, samples[i])
		}
	}
}

// TestLosslessConsecutiveFramesCarryPredictorState feeds two consecutive
// frames of silence through one Encoder/Decoder pair each, checking the
// predictor tail/state handoff between frames does not itself introduce
// drift when there is nothing to predict.
func TestLosslessConsecutiveFramesCarryPredictorState(t *testing.T) {
	cfg := PresetLossless(1, 44100)
	enc, err := NewEncoder(cfg)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	dec, err := NewDecoder(cfg)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	silence := make([]int16, cfg.FrameSize())
	for frame := 0; frame < 2; frame++ {
		packet, err := enc.EncodeFrame(silence)
		if err != nil {
			t.Fatalf("frame %d: EncodeFrame: %v", frame, err)
		}
		out, err := dec.DecodeFrame(packet)
		if err != nil {
			t.Fatalf("frame %d: DecodeFrame: %v", frame, err)
		}
		for i, v := range out {
			if v != 0 {
				t.Fatalf("frame %d sample %d: got %d, want 0", frame, i, v)
			}
		}
	}
}

func TestLossyStereoRoundTripStaysInRange(t *testing.T) {
	cfg := PresetLossy(2, 44100)
	samples := make([]int16, cfg.FrameSize())
	for i := range samples {
		// A simple deterministic tone; exact reconstruction is not
		// expected in lossy mode, only a plausible, bounded result.
		samples[i] = int16(1000 * ((i % 17) - 8))
	}

	out := encodeDecodeFrame(t, cfg, samples)
	for i, v := range out {
		if v < -32768 || v > 32767 {
			t.Fatalf("sample %d out of int16 range: %d", i, v)
		}
	}
}

func TestEncodeFrameRejectsWrongLength(t *testing.T) {
	cfg := PresetLossless(1, 44100)
	enc, err := NewEncoder(cfg)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.EncodeFrame(make([]int16, cfg.FrameSize()+1)); err == nil {
		t.Fatal("expected an error for a mis-sized frame")
	}
}

func TestNewEncoderRejectsTooManyChannels(t *testing.T) {
	cfg := PresetLossless(2, 44100)
	cfg.Channels = 3
	cfg.Decorrelation = NoDecorrelation
	if _, err := NewEncoder(cfg); err == nil {
		t.Fatal("expected an error for a 3-channel configuration")
	}
}
