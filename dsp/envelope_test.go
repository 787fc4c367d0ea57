package dsp

import (
	"errors"
	"math"
	"testing"
)

func ones(n int) Buffer {
	buf := make(Buffer, n)
	for i := range buf {
		buf[i] = 1
	}
	return buf
}

func TestRiseFallOnConstant(t *testing.T) {
	const n = 101
	buf := ones(n)
	if err := ApplyEnvelope(buf, RiseFall); err != nil {
		t.Fatalf("ApplyEnvelope: %v", err)
	}
	if buf[0] != 0 {
		t.Errorf("first sample = %g, want 0", buf[0])
	}
	if buf[n/2] != 1 {
		t.Errorf("midpoint sample = %g, want 1", buf[n/2])
	}
	if buf[n-1] != 0 {
		t.Errorf("last sample = %g, want 0", buf[n-1])
	}
	for i := 1; i <= n/2; i++ {
		if buf[i] <= buf[i-1] {
			t.Fatalf("gain not rising at %d: %g <= %g", i, buf[i], buf[i-1])
		}
	}
	for i := n/2 + 1; i < n; i++ {
		if buf[i] >= buf[i-1] {
			t.Fatalf("gain not falling at %d: %g >= %g", i, buf[i], buf[i-1])
		}
	}
}

func TestRiseFallDegenerateLengths(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		buf := ones(n)
		if err := ApplyEnvelope(buf, RiseFall); err != nil {
			t.Fatalf("length %d: %v", n, err)
		}
		if n > 0 && buf[0] != 0 {
			t.Errorf("length %d: first sample = %g, want 0", n, buf[0])
		}
		for i, v := range buf {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("length %d: sample %d = %g", n, i, v)
			}
		}
	}
}

func TestADSRPhases(t *testing.T) {
	const n = 5000
	buf := ones(n)
	if err := ApplyEnvelope(buf, ADSR); err != nil {
		t.Fatalf("ApplyEnvelope: %v", err)
	}

	tests := []struct {
		name string
		i    int
		want float64
	}{
		{"attack start", 0, 0},
		{"attack midpoint", 441, 0.6},
		{"decay start", 882, 1.2},
		{"sustain", 2500, 1},
		{"release start", n - 882, 1},
		{"last sample", n - 1, 1.0 / 882},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(buf[tt.i]-tt.want) > 1e-12 {
				t.Errorf("sample %d = %g, want %g", tt.i, buf[tt.i], tt.want)
			}
		})
	}
}

func TestADSRReleaseNeverReachesZero(t *testing.T) {
	buf := ones(3000)
	if err := ApplyEnvelope(buf, ADSR); err != nil {
		t.Fatalf("ApplyEnvelope: %v", err)
	}
	if buf[len(buf)-1] == 0 {
		t.Error("last sample is exactly zero; the release curve ends at 1/882")
	}
}

func TestADSRFallsBackToRiseFallWhenShort(t *testing.T) {
	const n = 1000 // below the 2646-sample ADSR minimum
	adsr := ones(n)
	risefall := ones(n)
	if err := ApplyEnvelope(adsr, ADSR); err != nil {
		t.Fatalf("ApplyEnvelope ADSR: %v", err)
	}
	if err := ApplyEnvelope(risefall, RiseFall); err != nil {
		t.Fatalf("ApplyEnvelope RiseFall: %v", err)
	}
	for i := range adsr {
		if adsr[i] != risefall[i] {
			t.Fatalf("sample %d: adsr %g != risefall %g", i, adsr[i], risefall[i])
		}
	}
}

func TestNoneEnvelopeLeavesBufferUntouched(t *testing.T) {
	buf := Buffer{0.1, -0.2, 0.3}
	want := buf.Clone()
	if err := ApplyEnvelope(buf, None); err != nil {
		t.Fatalf("ApplyEnvelope: %v", err)
	}
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d changed: %g != %g", i, buf[i], want[i])
		}
	}
}

func TestParseEnvelope(t *testing.T) {
	for code := 0; code <= 2; code++ {
		e, err := ParseEnvelope(code)
		if err != nil {
			t.Fatalf("code %d: %v", code, err)
		}
		if int(e) != code {
			t.Fatalf("code %d parsed as %d", code, int(e))
		}
	}
	for _, code := range []int{-1, 3} {
		if _, err := ParseEnvelope(code); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("code %d: err = %v, want ErrInvalidParameter", code, err)
		}
	}
}
