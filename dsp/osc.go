package dsp

import (
	"fmt"
	"math"
)

// Waveform selects the oscillator used to render a tone. The numeric
// values match the wave codes used by the score format.
type Waveform int

const (
	Sine Waveform = iota + 1
	Square
	Sawtooth
	Complex
	String
)

// ParseWaveform maps a score wave code (1..5) to a Waveform.
func ParseWaveform(code int) (Waveform, error) {
	if code < int(Sine) || code > int(String) {
		return 0, fmt.Errorf("%w: wave code %d", ErrInvalidParameter, code)
	}
	return Waveform(code), nil
}

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Complex:
		return "complex"
	case String:
		return "string"
	}
	return fmt.Sprintf("waveform(%d)", int(w))
}

// NoteFrequency converts a MIDI note number to frequency in Hz. The
// conversion is exact; rendered output is compared sample-wise against
// reference files, so no fast-math approximation is allowed here.
func NoteFrequency(note int) float64 {
	const a4Freq = 440.0
	const a4Note = 69
	return a4Freq * math.Exp2(float64(note-a4Note)/12.0)
}

// Render allocates a buffer of n samples and fills it with the given
// waveform at SampleRate.
func Render(w Waveform, n int, freq, amp float64) (Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample count %d", ErrInvalidParameter, n)
	}
	buf := make(Buffer, n)
	if err := Generate(buf, w, freq, amp); err != nil {
		return nil, err
	}
	return buf, nil
}

// Generate fills buf in place with the given waveform. Sample i is a
// deterministic function of t = i/SampleRate.
func Generate(buf Buffer, w Waveform, freq, amp float64) error {
	if freq <= 0 {
		return fmt.Errorf("%w: frequency %g", ErrInvalidParameter, freq)
	}
	if amp <= 0 {
		return fmt.Errorf("%w: amplitude %g", ErrInvalidParameter, amp)
	}
	switch w {
	case Sine:
		generateSine(buf, freq, amp)
	case Square:
		generateSquare(buf, freq, amp)
	case Sawtooth:
		generateSawtooth(buf, freq, amp)
	case Complex:
		generateComplex(buf, freq, amp)
	case String:
		return generateString(buf, freq, amp)
	default:
		return fmt.Errorf("%w: unknown waveform %d", ErrInvalidParameter, int(w))
	}
	return nil
}

func generateSine(buf Buffer, freq, amp float64) {
	for i := range buf {
		t := float64(i) / SampleRate
		buf[i] = amp * math.Sin(2*math.Pi*freq*t)
	}
}

// generateSquare emits +amp wherever the underlying sine is >= 0, so the
// tie at sin = 0 lands on the positive half.
func generateSquare(buf Buffer, freq, amp float64) {
	for i := range buf {
		t := float64(i) / SampleRate
		if math.Sin(2*math.Pi*freq*t) >= 0 {
			buf[i] = amp
		} else {
			buf[i] = -amp
		}
	}
}

func generateSawtooth(buf Buffer, freq, amp float64) {
	for i := range buf {
		t := float64(i) / SampleRate
		cycles := freq * t
		pos := cycles - math.Floor(cycles)
		buf[i] = amp * (2*pos - 1)
	}
}

// complexHarmonics is the number of partials summed before cubing.
const complexHarmonics = 6

// complexRaw evaluates the unnormalized complex waveform at time t: six
// harmonics with halving weights under an exponential decay, cubed.
func complexRaw(freq, t float64) float64 {
	var sum float64
	div := 1.0
	for k := 1; k <= complexHarmonics; k++ {
		sum += math.Sin(2*math.Pi*float64(k)*freq*t) / div
		div *= 2
	}
	s := sum * math.Exp(-0.0008*math.Pi*freq*t)
	return s * s * s
}

// generateComplex renders the additive waveform normalized against its
// peak over one full second, not over the buffer itself, so the timbre and
// loudness do not depend on note length.
func generateComplex(buf Buffer, freq, amp float64) {
	var peak float64
	for i := 0; i < SampleRate; i++ {
		if v := math.Abs(complexRaw(freq, float64(i)/SampleRate)); v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}
	for i := range buf {
		buf[i] = amp * complexRaw(freq, float64(i)/SampleRate) / peak
	}
}

// generateString renders a plucked string with the Karplus-Strong
// recurrence. A ring of floor(SampleRate/freq) samples is seeded with the
// square wave at the same frequency; each output sample is the average of
// the two trailing taps and is fed back into the ring. Every step depends
// on the mutated ring state from the previous one, so the loop is strictly
// sequential.
func generateString(buf Buffer, freq, amp float64) error {
	ringLen := int(float64(SampleRate) / freq)
	if ringLen <= 0 {
		return fmt.Errorf("%w: frequency %g leaves an empty feedback ring", ErrInvalidParameter, freq)
	}
	ring := make(Buffer, ringLen)
	generateSquare(ring, freq, amp)

	prev := ringLen - 1
	cur := 0
	for i := range buf {
		out := (ring[prev] + ring[cur]) / 2
		buf[i] = out
		ring[cur] = out
		prev = cur
		cur = (cur + 1) % ringLen
	}
	return nil
}
