// Command synth is the interactive front end: it prompts for parameters,
// renders tones, envelopes, stereo mixes, and songs to WAV files, and when
// given two .wav arguments compares them sample by sample.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-synth/analysis"
	"github.com/cwbudde/algo-synth/dsp"
	"github.com/cwbudde/algo-synth/pcm"
	"github.com/cwbudde/algo-synth/score"
)

// defaultAmplitude is used for tones created from the menu; the score
// format carries explicit amplitudes instead.
const defaultAmplitude = 0.8

func main() {
	args := os.Args[1:]
	switch len(args) {
	case 0:
		runMenu(bufio.NewReader(os.Stdin))
	case 2:
		if strings.HasSuffix(args[0], ".wav") && strings.HasSuffix(args[1], ".wav") {
			if err := compareFiles(args[0], args[1]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		usage()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("\nTo compare two wave files: synth wave_file_1.wav wave_file_2.wav")
	fmt.Print("\n\tOR\n\n")
	fmt.Println("To test audio processing: synth")
}

func runMenu(in *bufio.Reader) {
	option := 0
	for option < 1 || option > 9 {
		printMenu()
		n, err := readInt(in, "Enter [1-9]: ")
		if err != nil {
			fmt.Println("Invalid input! Please try again.")
			continue
		}
		option = n
	}

	var err error
	switch option {
	case 1:
		err = createWaveform(in, dsp.Sine)
	case 2:
		err = createWaveform(in, dsp.Square)
	case 3:
		err = createWaveform(in, dsp.Sawtooth)
	case 4:
		err = createWaveform(in, dsp.Complex)
	case 5:
		err = createWaveform(in, dsp.String)
	case 6:
		err = applyStereo(in)
	case 7:
		err = applyEnvelope(in, dsp.RiseFall)
	case 8:
		err = applyEnvelope(in, dsp.ADSR)
	case 9:
		err = generateSong(in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printMenu() {
	fmt.Println("Select one of the below test options:")
	fmt.Println("\t1) Create a simple sine wave tone")
	fmt.Println("\t2) Create a simple square wave tone")
	fmt.Println("\t3) Create a simple sawtooth wave tone")
	fmt.Println("\t4) Create a simple complex wave tone")
	fmt.Println("\t5) Create a simple string wave tone")
	fmt.Println("\t6) Apply stereo")
	fmt.Println("\t7) Apply rise/fall envelope")
	fmt.Println("\t8) Apply ADSR envelope")
	fmt.Println("\t9) Generate a song")
	fmt.Println()
}

func createWaveform(in *bufio.Reader, w dsp.Waveform) error {
	samples, err := readInt(in, "Number of samples: ")
	if err != nil {
		return err
	}
	freq, err := readFloat(in, "Wave frequency: ")
	if err != nil {
		return err
	}
	path, err := readLine(in, "Output file: ")
	if err != nil {
		return err
	}

	buf, err := dsp.Render(w, samples, freq, defaultAmplitude)
	if err != nil {
		return err
	}
	out, err := pcm.New(len(buf), 1)
	if err != nil {
		return err
	}
	copy(out.Data, buf)
	return out.Save(path)
}

func applyStereo(in *bufio.Reader) error {
	inPath, err := readLine(in, "Input file: ")
	if err != nil {
		return err
	}
	angle, err := readFloat(in, "Angle: ")
	if err != nil {
		return err
	}
	outPath, err := readLine(in, "Output file: ")
	if err != nil {
		return err
	}

	mono, err := pcm.Load(inPath)
	if err != nil {
		return err
	}
	out, err := pcm.New(len(mono.Data), 2)
	if err != nil {
		return err
	}
	leftGain, rightGain := dsp.PanGains(angle)
	left := mono.Data.Clone()
	left.Scale(leftGain)
	right := mono.Data.Clone()
	right.Scale(rightGain)
	if err := dsp.MixInChannel(out.Data, left, dsp.LeftChannel); err != nil {
		return err
	}
	if err := dsp.MixInChannel(out.Data, right, dsp.RightChannel); err != nil {
		return err
	}
	return out.Save(outPath)
}

func applyEnvelope(in *bufio.Reader, env dsp.Envelope) error {
	inPath, err := readLine(in, "Input file: ")
	if err != nil {
		return err
	}
	outPath, err := readLine(in, "Output file: ")
	if err != nil {
		return err
	}

	c, err := pcm.Load(inPath)
	if err != nil {
		return err
	}
	if err := dsp.ApplyEnvelope(c.Data, env); err != nil {
		return err
	}
	return c.Save(outPath)
}

func generateSong(in *bufio.Reader) error {
	inPath, err := readLine(in, "Input file: ")
	if err != nil {
		return err
	}
	outPath, err := readLine(in, "Output file: ")
	if err != nil {
		return err
	}

	song, err := score.CompileFile(inPath)
	if err != nil {
		return err
	}
	return song.Save(outPath)
}

func compareFiles(path1, path2 string) error {
	fmt.Printf("Comparing %s and %s\n", path1, path2)
	a, err := pcm.Load(path1)
	if err != nil {
		return err
	}
	b, err := pcm.Load(path2)
	if err != nil {
		return err
	}

	diff := analysis.Compare(a.Data, b.Data)
	if diff.SamplesA != diff.SamplesB {
		fmt.Printf("The number of samples does not match: %d vs %d\n", diff.SamplesA, diff.SamplesB)
	}
	if diff.Identical() {
		fmt.Println("Files are identical!")
		return nil
	}
	thresholds := make([]float64, 0, len(diff.Exceeding))
	for th := range diff.Exceeding {
		thresholds = append(thresholds, th)
	}
	sort.Float64s(thresholds)
	for _, th := range thresholds {
		if n := diff.Exceeding[th]; n > 0 {
			fmt.Printf("Number of samples (> %g): %d\n", th, n)
		}
	}
	return nil
}

func readLine(in *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readInt(in *bufio.Reader, prompt string) (int, error) {
	line, err := readLine(in, prompt)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(line)
}

func readFloat(in *bufio.Reader, prompt string) (float64, error) {
	line, err := readLine(in, prompt)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(line, 64)
}
