package dsp

import (
	"errors"
	"math"
	"testing"
)

func TestSineBoundsAndPhase(t *testing.T) {
	const freq = 440.0
	const amp = 0.7
	buf, err := Render(Sine, 2000, freq, amp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf[0] != 0 {
		t.Errorf("sample 0 = %g, want 0", buf[0])
	}
	for i, v := range buf {
		if math.Abs(v) > amp+1e-12 {
			t.Fatalf("sample %d = %g exceeds amplitude %g", i, v, amp)
		}
		want := amp * math.Sin(2*math.Pi*freq*float64(i)/SampleRate)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("sample %d = %g, want %g", i, v, want)
		}
	}
}

func TestSquareEmitsOnlyExtremes(t *testing.T) {
	const amp = 0.5
	buf, err := Render(Square, 4410, 440.0, amp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// sin(0) = 0 is a tie and must map to the positive half.
	if buf[0] != amp {
		t.Errorf("sample 0 = %g, want +%g", buf[0], amp)
	}
	sawNegative := false
	for i, v := range buf {
		if v != amp && v != -amp {
			t.Fatalf("sample %d = %g, want exactly ±%g", i, v, amp)
		}
		if v == -amp {
			sawNegative = true
		}
	}
	if !sawNegative {
		t.Error("square wave never reached its negative half")
	}
}

func TestSawtoothAtCycleStart(t *testing.T) {
	// 441 Hz gives an exact 100-sample period, so frac(f*t) is exactly
	// zero at every period boundary.
	const amp = 0.9
	buf, err := Render(Sawtooth, 300, 441.0, amp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, i := range []int{0, 100, 200} {
		if buf[i] != -amp {
			t.Errorf("sample %d = %g, want %g", i, buf[i], -amp)
		}
	}
	for i, v := range buf {
		if v < -amp || v >= amp {
			t.Fatalf("sample %d = %g outside [-%g, %g)", i, v, amp, amp)
		}
	}
}

func TestComplexNormalizationIndependentOfLength(t *testing.T) {
	const freq = 493.88
	const amp = 0.8
	short, err := Render(Complex, 500, freq, amp)
	if err != nil {
		t.Fatalf("Render short: %v", err)
	}
	long, err := Render(Complex, 5000, freq, amp)
	if err != nil {
		t.Fatalf("Render long: %v", err)
	}
	// The normalization window is one full second regardless of buffer
	// length, so the common prefix must match exactly.
	for i := range short {
		if short[i] != long[i] {
			t.Fatalf("sample %d differs between lengths: %g vs %g", i, short[i], long[i])
		}
	}
}

func TestComplexPeakMatchesAmplitude(t *testing.T) {
	const amp = 0.6
	buf, err := Render(Complex, SampleRate, 329.63, amp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	peak := 0.0
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > amp+1e-12 {
		t.Errorf("peak %g exceeds amplitude %g", peak, amp)
	}
	// The peak of the one-second reference window lies inside a
	// one-second render, so it must be hit exactly.
	if math.Abs(peak-amp) > 1e-12 {
		t.Errorf("peak %g, want %g", peak, amp)
	}
}

func TestStringMatchesFeedbackRecurrence(t *testing.T) {
	freq := 329.63
	const amp = 0.8
	const n = 1000

	buf, err := Render(String, n, freq, amp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Independent reference: square-seeded ring averaged two taps at a
	// time with write-back.
	ringLen := int(float64(SampleRate) / freq)
	ring := make([]float64, ringLen)
	for i := range ring {
		if math.Sin(2*math.Pi*freq*float64(i)/SampleRate) >= 0 {
			ring[i] = amp
		} else {
			ring[i] = -amp
		}
	}
	prev, cur := ringLen-1, 0
	for i := 0; i < n; i++ {
		want := (ring[prev] + ring[cur]) / 2
		if buf[i] != want {
			t.Fatalf("sample %d = %g, want %g", i, buf[i], want)
		}
		ring[cur] = want
		prev = cur
		cur = (cur + 1) % ringLen
	}
}

func TestStringRejectsEmptyRing(t *testing.T) {
	// Above 44100 Hz the ring length floors to zero.
	if _, err := Render(String, 100, 50000, 0.8); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestRenderRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		n    int
		freq float64
		amp  float64
	}{
		{"zero samples", 0, 440, 0.8},
		{"negative samples", -1, 440, 0.8},
		{"zero frequency", 100, 0, 0.8},
		{"negative frequency", 100, -440, 0.8},
		{"zero amplitude", 100, 440, 0},
		{"negative amplitude", 100, 440, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(Sine, tt.n, tt.freq, tt.amp); !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestParseWaveform(t *testing.T) {
	for code := 1; code <= 5; code++ {
		w, err := ParseWaveform(code)
		if err != nil {
			t.Fatalf("code %d: %v", code, err)
		}
		if int(w) != code {
			t.Fatalf("code %d parsed as %d", code, int(w))
		}
	}
	for _, code := range []int{0, 6, -1} {
		if _, err := ParseWaveform(code); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("code %d: err = %v, want ErrInvalidParameter", code, err)
		}
	}
}

func TestNoteFrequency(t *testing.T) {
	tests := []struct {
		note int
		want float64
	}{
		{69, 440.0},
		{57, 220.0},
		{81, 880.0},
		{60, 261.6255653005986},
	}
	for _, tt := range tests {
		got := NoteFrequency(tt.note)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NoteFrequency(%d) = %g, want %g", tt.note, got, tt.want)
		}
	}
}
