// Package score compiles the textual music score format into a stereo PCM
// container.
//
// A score is line-oriented with space-separated fields:
//
//	totalSamples
//	instrumentCount
//	<instrumentCount lines> waveCode envelopeCode amplitude panAngle
//	noteCount
//	<noteCount lines> instrumentIndex noteNumber amplitude startSample endSample
//
// Each note is rendered independently with its instrument's waveform and
// envelope, accumulated into a per-instrument sum with a per-sample overlap
// counter, averaged, panned, and mixed into one interleaved stereo buffer.
package score

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-synth/dsp"
	"github.com/cwbudde/algo-synth/pcm"
)

// ErrMalformedScore reports a score text that violates the line or token
// grammar.
var ErrMalformedScore = errors.New("malformed score")

// Instrument describes one score instrument: the waveform and envelope
// used for its notes, a master amplitude, and a stereo pan angle in
// radians. Immutable once parsed.
type Instrument struct {
	Wave      dsp.Waveform
	Envelope  dsp.Envelope
	Amplitude float64
	PanAngle  float64
}

// Note places one tone of an instrument at an inclusive sample range.
type Note struct {
	Instrument int
	Number     int
	Amplitude  float64
	Start      int
	End        int
}

// compileState tracks the phases of a compilation. Transitions only move
// forward; any failure jumps to stateFailed and stays there.
type compileState int

const (
	stateReadingHeader compileState = iota
	stateReadingInstruments
	stateReadingNotes
	stateRendering
	stateAveraging
	stateMixing
	stateDone
	stateFailed
)

// compiler holds the working set of one compilation. A compiler is
// single-use; Compile creates one per call.
type compiler struct {
	scanner *bufio.Scanner
	state   compileState
	err     error

	totalSamples int
	instruments  []Instrument

	// One accumulator per instrument: the running sample sums and the
	// per-sample overlap counters used for averaging.
	sums   []dsp.Buffer
	counts [][]int
}

// Compile parses the score text from r and renders it into a stereo
// container.
func Compile(r io.Reader) (*pcm.Container, error) {
	c := &compiler{scanner: bufio.NewScanner(r)}
	c.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return c.run()
}

// CompileString renders a score held in memory.
func CompileString(text string) (*pcm.Container, error) {
	return Compile(strings.NewReader(text))
}

// CompileFile renders a score file.
func CompileFile(path string) (*pcm.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Compile(f)
}

func (c *compiler) run() (*pcm.Container, error) {
	numInstruments, err := c.readHeader()
	if err != nil {
		return nil, c.fail(err)
	}
	if err := c.readInstruments(numInstruments); err != nil {
		return nil, c.fail(err)
	}
	notes, err := c.readNotes()
	if err != nil {
		return nil, c.fail(err)
	}
	if err := c.render(notes); err != nil {
		return nil, c.fail(err)
	}
	c.average()
	out, err := c.mix()
	if err != nil {
		return nil, c.fail(err)
	}
	c.state = stateDone
	return out, nil
}

func (c *compiler) fail(err error) error {
	c.state = stateFailed
	c.err = err
	return err
}

func (c *compiler) readLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: unexpected end of score", ErrMalformedScore)
	}
	return c.scanner.Text(), nil
}

func (c *compiler) readCount(what string) (int, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: expected integer, found %q", ErrMalformedScore, what, line)
	}
	return n, nil
}

func (c *compiler) readHeader() (int, error) {
	c.state = stateReadingHeader
	total, err := c.readCount("total samples")
	if err != nil {
		return 0, err
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: total samples %d", ErrMalformedScore, total)
	}
	numInstruments, err := c.readCount("instrument count")
	if err != nil {
		return 0, err
	}
	if numInstruments <= 0 {
		return 0, fmt.Errorf("%w: instrument count %d", ErrMalformedScore, numInstruments)
	}
	c.totalSamples = total
	return numInstruments, nil
}

func (c *compiler) readInstruments(n int) error {
	c.state = stateReadingInstruments
	c.instruments = make([]Instrument, 0, n)
	for i := 0; i < n; i++ {
		line, err := c.readLine()
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return fmt.Errorf("%w: instrument %d: expected 4 fields, found %d", ErrMalformedScore, i, len(fields))
		}
		waveCode, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("%w: instrument %d: wave code %q", ErrMalformedScore, i, fields[0])
		}
		wave, err := dsp.ParseWaveform(waveCode)
		if err != nil {
			return fmt.Errorf("%w: instrument %d: wave code %d", ErrMalformedScore, i, waveCode)
		}
		envCode, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("%w: instrument %d: envelope code %q", ErrMalformedScore, i, fields[1])
		}
		env, err := dsp.ParseEnvelope(envCode)
		if err != nil {
			return fmt.Errorf("%w: instrument %d: envelope code %d", ErrMalformedScore, i, envCode)
		}
		amp, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("%w: instrument %d: amplitude %q", ErrMalformedScore, i, fields[2])
		}
		pan, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return fmt.Errorf("%w: instrument %d: pan angle %q", ErrMalformedScore, i, fields[3])
		}
		c.instruments = append(c.instruments, Instrument{
			Wave:      wave,
			Envelope:  env,
			Amplitude: amp,
			PanAngle:  pan,
		})
	}

	c.sums = make([]dsp.Buffer, n)
	c.counts = make([][]int, n)
	for i := range c.sums {
		c.sums[i] = make(dsp.Buffer, c.totalSamples)
		c.counts[i] = make([]int, c.totalSamples)
	}
	return nil
}

func (c *compiler) readNotes() ([]Note, error) {
	c.state = stateReadingNotes
	count, err := c.readCount("note count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: note count %d", ErrMalformedScore, count)
	}
	notes := make([]Note, 0, count)
	for i := 0; i < count; i++ {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: note %d: expected 5 fields, found %d", ErrMalformedScore, i, len(fields))
		}
		instrument, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: note %d: instrument index %q", ErrMalformedScore, i, fields[0])
		}
		number, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: note %d: note number %q", ErrMalformedScore, i, fields[1])
		}
		amp, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: note %d: amplitude %q", ErrMalformedScore, i, fields[2])
		}
		start, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: note %d: start sample %q", ErrMalformedScore, i, fields[3])
		}
		end, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%w: note %d: end sample %q", ErrMalformedScore, i, fields[4])
		}
		notes = append(notes, Note{
			Instrument: instrument,
			Number:     number,
			Amplitude:  amp,
			Start:      start,
			End:        end,
		})
	}
	return notes, nil
}

// render synthesizes every note into its instrument accumulator. Each note
// writes only to its own transient buffer; accumulator writes happen here,
// one note at a time.
func (c *compiler) render(notes []Note) error {
	c.state = stateRendering
	for _, n := range notes {
		if n.Instrument < 0 || n.Instrument >= len(c.instruments) {
			return fmt.Errorf("%w: instrument index %d of %d", dsp.ErrIndexOutOfRange, n.Instrument, len(c.instruments))
		}
		if n.Start < 0 || n.End < n.Start || n.End >= c.totalSamples {
			return fmt.Errorf("%w: note range [%d, %d] in %d samples", dsp.ErrIndexOutOfRange, n.Start, n.End, c.totalSamples)
		}
		inst := c.instruments[n.Instrument]
		buf, err := dsp.Render(inst.Wave, n.End-n.Start+1, dsp.NoteFrequency(n.Number), n.Amplitude)
		if err != nil {
			return err
		}
		if err := dsp.ApplyEnvelope(buf, inst.Envelope); err != nil {
			return err
		}
		sum := c.sums[n.Instrument]
		counts := c.counts[n.Instrument]
		for i, v := range buf {
			sum[n.Start+i] += v
			counts[n.Start+i]++
		}
	}
	return nil
}

// average divides every accumulated sample by its own overlap count.
// Samples no note touched stay silent.
func (c *compiler) average() {
	c.state = stateAveraging
	for i, sum := range c.sums {
		for j, n := range c.counts[i] {
			if n > 0 {
				sum[j] /= float64(n)
			}
		}
	}
}

// mix pans each averaged instrument and accumulates it into the shared
// stereo buffer.
func (c *compiler) mix() (*pcm.Container, error) {
	c.state = stateMixing
	out, err := pcm.New(c.totalSamples, 2)
	if err != nil {
		return nil, err
	}
	for i, inst := range c.instruments {
		leftGain, rightGain := dsp.PanGains(inst.PanAngle)
		// Each channel scales its own copy of the unscaled average;
		// rescaling one buffer in place would corrupt the second channel.
		left := c.sums[i].Clone()
		left.Scale(inst.Amplitude * leftGain)
		right := c.sums[i].Clone()
		right.Scale(inst.Amplitude * rightGain)
		if err := dsp.MixInChannel(out.Data, left, dsp.LeftChannel); err != nil {
			return nil, err
		}
		if err := dsp.MixInChannel(out.Data, right, dsp.RightChannel); err != nil {
			return nil, err
		}
	}
	return out, nil
}
