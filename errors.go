package sonic

import (
	"errors"
	"fmt"
)

// Error kinds returned by the codec, per §7 of the codec spec. Callers
// distinguish them with errors.Is.
var (
	// ErrInvalidHeader marks an unsupported version, sample rate index,
	// channel count, zero downsampling, num_taps bound violation, or
	// decorrelation/channel mismatch.
	ErrInvalidHeader = errors.New("sonic: invalid header")
	// ErrInvalidData marks a range-coder overread beyond MaxOverread, or a
	// unary prefix longer than the codec's bound.
	ErrInvalidData = errors.New("sonic: invalid data")
	// ErrOutOfMemory marks a buffer allocation failure during init.
	ErrOutOfMemory = errors.New("sonic: out of memory")
	// ErrInvalidArgument marks an encoder configured with more than
	// MaxChannels channels, or an EncodeFrame call with a frame of the
	// wrong length.
	ErrInvalidArgument = errors.New("sonic: invalid argument")
)

type wrappedError struct {
	kind error
	msg  string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.kind }

func wrapf(kind error, format string, args ...interface{}) error {
	return &wrappedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func invalidHeaderf(format string, args ...interface{}) error {
	return wrapf(ErrInvalidHeader, format, args...)
}

func invalidDataf(format string, args ...interface{}) error {
	return wrapf(ErrInvalidData, format, args...)
}

func invalidArgumentf(format string, args ...interface{}) error {
	return wrapf(ErrInvalidArgument, format, args...)
}
