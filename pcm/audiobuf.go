package pcm

import (
	"fmt"

	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-synth/dsp"
)

// AudioBuffer converts the container into a go-audio float buffer for
// interop with go-audio encoders and transforms.
func (c *Container) AudioBuffer() *audio.Float32Buffer {
	data := make([]float32, len(c.Data))
	for i, v := range c.Data {
		data[i] = float32(v)
	}
	return &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  SampleRate,
			NumChannels: c.NumChannels,
		},
		Data:           data,
		SourceBitDepth: BitsPerSample,
	}
}

// FromAudioBuffer builds a container from a go-audio float buffer. The
// buffer must already be at the fixed 44100 Hz rate.
func FromAudioBuffer(buf *audio.Float32Buffer) (*Container, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: nil audio buffer", dsp.ErrInvalidParameter)
	}
	if buf.Format.SampleRate != SampleRate {
		return nil, fmt.Errorf("%w: sample rate %d, want %d", ErrUnsupportedFormat, buf.Format.SampleRate, SampleRate)
	}
	if buf.Format.NumChannels < 1 || buf.Format.NumChannels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, buf.Format.NumChannels)
	}
	data := make(dsp.Buffer, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float64(v)
	}
	return &Container{NumChannels: buf.Format.NumChannels, Data: data}, nil
}
