package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-synth/dsp"
	"github.com/cwbudde/algo-synth/pcm"
)

func main() {
	wave := flag.String("wave", "sine", "Waveform: sine, square, sawtooth, complex, string")
	samples := flag.Int("samples", dsp.SampleRate, "Number of samples to render")
	freq := flag.Float64("freq", 440.0, "Frequency in Hz")
	amp := flag.Float64("amp", 0.8, "Amplitude in (0, 1]")
	envelope := flag.String("envelope", "none", "Envelope: none, risefall, adsr")
	stereo := flag.Bool("stereo", false, "Write a panned stereo file instead of mono")
	pan := flag.Float64("pan", 0.0, "Stereo pan angle in radians (with -stereo)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	w, err := waveformByName(*wave)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	env, err := envelopeByName(*envelope)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering %d %s samples at %.2f Hz (amp %.2f, envelope %s)...\n",
		*samples, w, *freq, *amp, env)

	buf, err := dsp.Render(w, *samples, *freq, *amp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering wave: %v\n", err)
		os.Exit(1)
	}
	if err := dsp.ApplyEnvelope(buf, env); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying envelope: %v\n", err)
		os.Exit(1)
	}

	var out *pcm.Container
	if *stereo {
		out, err = panToStereo(buf, *pan)
	} else {
		out, err = pcm.New(len(buf), 1)
		if err == nil {
			copy(out.Data, buf)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building container: %v\n", err)
		os.Exit(1)
	}

	if err := out.Save(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, out.Frames())
}

// panToStereo mixes two independently scaled copies of mono into a fresh
// stereo container.
func panToStereo(mono dsp.Buffer, angle float64) (*pcm.Container, error) {
	out, err := pcm.New(len(mono), 2)
	if err != nil {
		return nil, err
	}
	leftGain, rightGain := dsp.PanGains(angle)
	left := mono.Clone()
	left.Scale(leftGain)
	right := mono.Clone()
	right.Scale(rightGain)
	if err := dsp.MixInChannel(out.Data, left, dsp.LeftChannel); err != nil {
		return nil, err
	}
	if err := dsp.MixInChannel(out.Data, right, dsp.RightChannel); err != nil {
		return nil, err
	}
	return out, nil
}

func waveformByName(name string) (dsp.Waveform, error) {
	switch name {
	case "sine":
		return dsp.Sine, nil
	case "square":
		return dsp.Square, nil
	case "sawtooth":
		return dsp.Sawtooth, nil
	case "complex":
		return dsp.Complex, nil
	case "string":
		return dsp.String, nil
	}
	return 0, fmt.Errorf("unknown waveform %q", name)
}

func envelopeByName(name string) (dsp.Envelope, error) {
	switch name {
	case "none":
		return dsp.None, nil
	case "risefall":
		return dsp.RiseFall, nil
	case "adsr":
		return dsp.ADSR, nil
	}
	return 0, fmt.Errorf("unknown envelope %q", name)
}
