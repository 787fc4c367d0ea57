package pcm

import (
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-synth/dsp"
)

func TestAudioBufferRoundTrip(t *testing.T) {
	c, err := New(3, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	copy(c.Data, []float64{0.1, -0.1, 0.5, -0.5, 1, -1})

	buf := c.AudioBuffer()
	if buf.Format.SampleRate != SampleRate || buf.Format.NumChannels != 2 {
		t.Fatalf("format = %d Hz / %d ch", buf.Format.SampleRate, buf.Format.NumChannels)
	}
	if buf.SourceBitDepth != BitsPerSample {
		t.Fatalf("bit depth = %d, want %d", buf.SourceBitDepth, BitsPerSample)
	}

	back, err := FromAudioBuffer(buf)
	if err != nil {
		t.Fatalf("FromAudioBuffer: %v", err)
	}
	if back.NumChannels != 2 || len(back.Data) != len(c.Data) {
		t.Fatalf("round trip shape: %d ch / %d samples", back.NumChannels, len(back.Data))
	}
	for i := range c.Data {
		if math.Abs(back.Data[i]-c.Data[i]) > 1e-7 { // float32 precision
			t.Fatalf("sample %d: %g -> %g", i, c.Data[i], back.Data[i])
		}
	}
}

func TestFromAudioBufferRejectsForeignRates(t *testing.T) {
	buf := &audio.Float32Buffer{
		Format: &audio.Format{SampleRate: 48000, NumChannels: 1},
		Data:   make([]float32, 8),
	}
	if _, err := FromAudioBuffer(buf); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := FromAudioBuffer(nil); !errors.Is(err, dsp.ErrInvalidParameter) {
		t.Fatalf("nil buffer: err = %v, want ErrInvalidParameter", err)
	}
}
