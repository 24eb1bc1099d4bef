package rangecoder

import "testing"

func TestSymbolRoundTripSigned(t *testing.T) {
	values := []int{0, 1, -1, 7, -7, 1023, -1024, 1 << 20, -(1 << 20), 65535, -65535}

	buf := make([]byte, 4096)
	enc := NewEncoder(buf)
	states := NewStates(DefaultFactor, DefaultMaxP)
	var state [32]uint8
	for i := range state {
		state[i] = 128
	}
	for _, v := range values {
		PutSymbol(enc, states, &state, v, true)
	}
	n := enc.Terminate()

	dec, err := NewDecoder(buf[:n])
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	decStates := NewStates(DefaultFactor, DefaultMaxP)
	var decState [32]uint8
	for i := range decState {
		decState[i] = 128
	}
	for i, want := range values {
		got, err := GetSymbol(dec, decStates, &decState, true)
		if err != nil {
			t.Fatalf("value %d: GetSymbol: %v", i, err)
		}
		if got != want {
			t.Fatalf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestSymbolRoundTripUnsigned(t *testing.T) {
	values := []int{0, 1, 2, 63, 64, 65534}

	buf := make([]byte, 1024)
	enc := NewEncoder(buf)
	states := NewStates(DefaultFactor, DefaultMaxP)
	var state [32]uint8
	for i := range state {
		state[i] = 128
	}
	for _, v := range values {
		PutSymbol(enc, states, &state, v, false)
	}
	n := enc.Terminate()

	dec, err := NewDecoder(buf[:n])
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	decStates := NewStates(DefaultFactor, DefaultMaxP)
	var decState [32]uint8
	for i := range decState {
		decState[i] = 128
	}
	for i, want := range values {
		got, err := GetSymbol(dec, decStates, &decState, false)
		if err != nil {
			t.Fatalf("value %d: GetSymbol: %v", i, err)
		}
		if got != want {
			t.Fatalf("value %d: got %d, want %d", i, got, want)
		}
	}
}

// TestUnaryPrefixBoundary constructs a bitstream directly (bypassing
// PutSymbol, which never emits a prefix this long) to check the 32-succeeds,
// 33-fails boundary documented for the exponent prefix.
func TestUnaryPrefixBoundary(t *testing.T) {
	encodeRun := func(ones int) []byte {
		buf := make([]byte, 256)
		enc := NewEncoder(buf)
		states := NewStates(DefaultFactor, DefaultMaxP)
		var state [32]uint8
		for i := range state {
			state[i] = 128
		}
		enc.PutBit(states, &state[0], false) // non-zero value
		for i := 0; i < ones; i++ {
			enc.PutBit(states, &state[1+minInt(i, 9)], true)
		}
		enc.PutBit(states, &state[1+minInt(ones, 9)], false)
		for i := ones - 1; i >= 0; i-- {
			enc.PutBit(states, &state[22+minInt(i, 9)], false)
		}
		enc.PutBit(states, &state[11+minInt(ones, 10)], false)
		n := enc.Terminate()
		return buf[:n]
	}

	if buf := encodeRun(32); true {
		dec, err := NewDecoder(buf)
		if err != nil {
			t.Fatalf("NewDecoder: %v", err)
		}
		states := NewStates(DefaultFactor, DefaultMaxP)
		var state [32]uint8
		for i := range state {
			state[i] = 128
		}
		if _, err := GetSymbol(dec, states, &state, true); err != nil {
			t.Fatalf("a 32-bit unary prefix should decode: %v", err)
		}
	}

	if buf := encodeRun(33); true {
		dec, err := NewDecoder(buf)
		if err != nil {
			t.Fatalf("NewDecoder: %v", err)
		}
		states := NewStates(DefaultFactor, DefaultMaxP)
		var state [32]uint8
		for i := range state {
			state[i] = 128
		}
		if _, err := GetSymbol(dec, states, &state, true); err == nil {
			t.Fatal("a 33-bit unary prefix should be rejected")
		}
	}
}
