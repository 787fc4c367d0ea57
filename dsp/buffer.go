// Package dsp provides the sample buffer, oscillators, envelopes, and
// stereo mixing primitives used to synthesize audio at a fixed 44100 Hz
// sample rate.
package dsp

import "fmt"

// SampleRate is the fixed render rate in samples per second.
const SampleRate = 44100

// Buffer is a fixed-length sequence of audio samples, nominally in [-1, 1].
// Buffers are mutable in place and zero-initialized by New.
type Buffer []float64

// New returns a zero-initialized buffer of n samples.
func New(n int) (Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: buffer length %d", ErrInvalidParameter, n)
	}
	return make(Buffer, n), nil
}

// At returns the sample at index i.
func (b Buffer) At(i int) (float64, error) {
	if i < 0 || i >= len(b) {
		return 0, fmt.Errorf("%w: index %d in buffer of %d", ErrIndexOutOfRange, i, len(b))
	}
	return b[i], nil
}

// Set stores v at index i.
func (b Buffer) Set(i int, v float64) error {
	if i < 0 || i >= len(b) {
		return fmt.Errorf("%w: index %d in buffer of %d", ErrIndexOutOfRange, i, len(b))
	}
	b[i] = v
	return nil
}

// Scale multiplies every sample by gain in place.
func (b Buffer) Scale(gain float64) {
	for i := range b {
		b[i] *= gain
	}
}

// Clone returns an independent copy of the buffer.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}
