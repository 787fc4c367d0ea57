package dsp

import "errors"

var (
	// ErrInvalidParameter reports a non-positive frequency, amplitude, or
	// sample count.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrIndexOutOfRange reports buffer access outside [0, len).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLengthMismatch reports a stereo buffer that is not exactly twice
	// the mono length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidChannel reports a channel selector outside {0, 1}.
	ErrInvalidChannel = errors.New("invalid channel")
)
