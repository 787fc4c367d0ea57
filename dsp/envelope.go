package dsp

import "fmt"

// Envelope selects the amplitude envelope applied to a rendered note. The
// numeric values match the envelope codes used by the score format.
type Envelope int

const (
	None Envelope = iota
	RiseFall
	ADSR
)

// ADSR phase lengths in samples, 20 ms each at 44100 Hz. Notes shorter
// than the three phases combined fall back to the rise/fall envelope.
const (
	adsrAttackSamples  = 882
	adsrDecaySamples   = 882
	adsrReleaseSamples = 882
)

// ParseEnvelope maps a score envelope code (0..2) to an Envelope.
func ParseEnvelope(code int) (Envelope, error) {
	if code < int(None) || code > int(ADSR) {
		return 0, fmt.Errorf("%w: envelope code %d", ErrInvalidParameter, code)
	}
	return Envelope(code), nil
}

func (e Envelope) String() string {
	switch e {
	case None:
		return "none"
	case RiseFall:
		return "risefall"
	case ADSR:
		return "adsr"
	}
	return fmt.Sprintf("envelope(%d)", int(e))
}

// ApplyEnvelope shapes buf in place with the selected envelope.
func ApplyEnvelope(buf Buffer, e Envelope) error {
	switch e {
	case None:
		return nil
	case RiseFall:
		applyRiseFall(buf)
		return nil
	case ADSR:
		applyADSR(buf)
		return nil
	}
	return fmt.Errorf("%w: unknown envelope %d", ErrInvalidParameter, int(e))
}

// applyRiseFall ramps the gain linearly from 0 at the first sample to 1 at
// the midpoint and back down to 0 at the last sample. A midpoint of zero
// (buffers of one sample) is treated as 1 to keep the division defined.
func applyRiseFall(buf Buffer) {
	n := len(buf)
	if n == 0 {
		return
	}
	mid := n / 2
	if mid == 0 {
		mid = 1
	}
	for i := range buf {
		var gain float64
		if i <= mid {
			gain = float64(i) / float64(mid)
		} else {
			gain = float64(n-1-i) / float64(n-1-mid)
		}
		buf[i] *= gain
	}
}

// applyADSR applies the fixed-phase envelope: attack ramps 0 to 1.2, decay
// ramps 1.2 back to 1.0, sustain holds 1.0, and the release gain is
// (n-i)/882 over the last phase. The release therefore ends at 1/882
// rather than exactly zero; reference renders depend on that exact curve,
// so it must not be "fixed".
func applyADSR(buf Buffer) {
	n := len(buf)
	if n < adsrAttackSamples+adsrDecaySamples+adsrReleaseSamples {
		applyRiseFall(buf)
		return
	}
	for i := range buf {
		var gain float64
		switch {
		case i < adsrAttackSamples:
			gain = 1.2 * float64(i) / adsrAttackSamples
		case i < adsrAttackSamples+adsrDecaySamples:
			gain = 1 + 0.2*float64(adsrAttackSamples+adsrDecaySamples-i)/adsrDecaySamples
		case i < n-adsrReleaseSamples:
			gain = 1
		default:
			gain = float64(n-i) / adsrReleaseSamples
		}
		buf[i] *= gain
	}
}
