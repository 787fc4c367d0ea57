// Package analysis provides diagnostic comparisons between rendered audio
// buffers: per-threshold difference counts and an FFT-based spectral
// distance.
package analysis

import (
	"math"
	"math/cmplx"

	approx "github.com/cwbudde/algo-approx"
	algofft "github.com/cwbudde/algo-fft"
)

// Thresholds are the absolute-difference levels reported by Compare.
var Thresholds = [4]float64{0.001, 0.01, 0.1, 0.2}

// Diff summarizes sample-wise differences between two buffers.
type Diff struct {
	SamplesA int `json:"samples_a"`
	SamplesB int `json:"samples_b"`
	Compared int `json:"compared"`

	// Exceeding maps each reporting threshold to the number of compared
	// samples whose absolute difference exceeds it.
	Exceeding map[float64]int `json:"exceeding"`
}

// Compare counts the samples of the common prefix of a and b whose
// absolute difference exceeds each reporting threshold.
func Compare(a, b []float64) Diff {
	d := Diff{
		SamplesA:  len(a),
		SamplesB:  len(b),
		Exceeding: make(map[float64]int, len(Thresholds)),
	}
	for _, th := range Thresholds {
		d.Exceeding[th] = 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d.Compared = n
	for i := 0; i < n; i++ {
		diff := math.Abs(a[i] - b[i])
		for _, th := range Thresholds {
			if diff > th {
				d.Exceeding[th]++
			}
		}
	}
	return d
}

// Identical reports whether the buffers matched in length and at every
// threshold.
func (d Diff) Identical() bool {
	if d.SamplesA != d.SamplesB {
		return false
	}
	for _, n := range d.Exceeding {
		if n > 0 {
			return false
		}
	}
	return true
}

// SpectralRMSEDB reports the RMS difference in dB between the averaged
// magnitude spectra of two takes, using Hann-windowed 4096-point frames at
// half overlap. Takes shorter than one frame are zero-padded into a single
// frame.
func SpectralRMSEDB(a, b []float64) (float64, error) {
	const fftSize = 4096
	const hop = fftSize / 2

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return 0, err
	}

	hann := make([]float64, fftSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}
	spec := make([]complex128, fftSize/2+1)
	frame := make([]float64, fftSize)
	bins := fftSize / 2

	avgSpectrum := func(x []float64) []float64 {
		out := make([]float64, bins)
		frames := 0
		for pos := 0; pos+fftSize <= len(x); pos += hop {
			for i := 0; i < fftSize; i++ {
				frame[i] = x[pos+i] * hann[i]
			}
			plan.Forward(spec, frame)
			for k := 1; k < bins; k++ {
				out[k] += cmplx.Abs(spec[k])
			}
			frames++
		}
		if frames == 0 {
			for i := range frame {
				frame[i] = 0
			}
			for i := 0; i < len(x) && i < fftSize; i++ {
				frame[i] = x[i] * hann[i]
			}
			plan.Forward(spec, frame)
			for k := 1; k < bins; k++ {
				out[k] = cmplx.Abs(spec[k])
			}
			frames = 1
		}
		scale := 1.0 / float64(frames)
		for k := range out {
			out[k] *= scale
		}
		return out
	}

	specA := avgSpectrum(a)
	specB := avgSpectrum(b)

	var sum float64
	for k := 1; k < bins; k++ {
		d := linToDB(specA[k]) - linToDB(specB[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1)), nil
}

// Similarity folds a spectral distance in dB into a [0, 1] score, 1 being
// spectrally identical. Diagnostic only, so the fast exponential is fine
// here.
func Similarity(rmseDB float64) float64 {
	if rmseDB < 0 {
		rmseDB = 0
	}
	return clamp01(float64(approx.FastExp(float32(-rmseDB / 12.0))))
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
