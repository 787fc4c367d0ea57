package dsp

import (
	"fmt"
	"math"
)

// Channel selectors for MixInChannel.
const (
	LeftChannel  = 0
	RightChannel = 1
)

// PanGains returns the left and right channel gains for a pan angle in
// radians. The gains are not clamped; angles outside [-pi/4, pi/4] can
// push a gain above 1 or below 0, and callers choose their angle ranges
// accordingly.
func PanGains(angle float64) (left, right float64) {
	const scale = math.Sqrt2 / 2
	left = scale * (math.Cos(angle) + math.Sin(angle))
	right = scale * (math.Cos(angle) - math.Sin(angle))
	return left, right
}

// MixInChannel adds mono into one channel of the interleaved stereo
// buffer. Existing stereo content is accumulated, not replaced.
func MixInChannel(stereo, mono Buffer, channel int) error {
	if len(stereo) != 2*len(mono) {
		return fmt.Errorf("%w: stereo length %d is not twice mono length %d",
			ErrLengthMismatch, len(stereo), len(mono))
	}
	if channel != LeftChannel && channel != RightChannel {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	for i, v := range mono {
		stereo[2*i+channel] += v
	}
	return nil
}
