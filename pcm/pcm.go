// Package pcm reads and writes the canonical 44-byte, 16-bit PCM WAV
// container used for all rendered output.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-synth/dsp"
)

// Container format constants. The sample rate and bit depth are fixed;
// every derived header field (byte rate, block align, chunk sizes) is
// computed from them and the channel count on write, never stored.
const (
	SampleRate    = dsp.SampleRate
	BitsPerSample = 16

	fmtChunkSize = 16
	pcmFormat    = 1
	headerSize   = 44
)

var (
	// ErrCorruptHeader reports a malformed, truncated, or non-PCM WAV
	// header.
	ErrCorruptHeader = errors.New("corrupt wav header")

	// ErrUnsupportedFormat reports a well-formed header outside the 16-bit
	// mono/stereo subset.
	ErrUnsupportedFormat = errors.New("unsupported wav format")
)

// Container is an uncompressed PCM recording at 44100 Hz, 16-bit. Data
// holds one float per sample, interleaved L/R when NumChannels is 2. The
// container exclusively owns its buffer.
type Container struct {
	NumChannels int
	Data        dsp.Buffer
}

// New returns a zero-filled container holding frames samples per channel.
func New(frames, numChannels int) (*Container, error) {
	if frames < 0 {
		return nil, fmt.Errorf("%w: %d frames", dsp.ErrInvalidParameter, frames)
	}
	if numChannels < 1 || numChannels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, numChannels)
	}
	return &Container{
		NumChannels: numChannels,
		Data:        make(dsp.Buffer, frames*numChannels),
	}, nil
}

// Frames returns the number of samples per channel.
func (c *Container) Frames() int {
	if c.NumChannels == 0 {
		return 0
	}
	return len(c.Data) / c.NumChannels
}

// quantize clips v to [-1, 1] and converts it to a signed 16-bit code,
// truncating toward zero. The scale is asymmetric: 32768 below zero and
// 32767 at or above, covering the full int16 range.
func quantize(v float64) int16 {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}

// dequantize mirrors quantize. The asymmetric divisor means a write/read
// round trip is exact within 1/32767 everywhere, with the one caveat at
// the exact clip boundary. This matches the historical codec and must be
// preserved for file compatibility.
func dequantize(code int16) float64 {
	if code < 0 {
		return float64(code) / 32768
	}
	return float64(code) / 32767
}

// Encode writes the container as a WAV stream with the canonical 44-byte
// header followed by the quantized little-endian samples.
func (c *Container) Encode(w io.Writer) error {
	dataBytes := len(c.Data) * 2

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(4+(8+fmtChunkSize)+(8+dataBytes)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(header[22:24], uint16(c.NumChannels))
	binary.LittleEndian.PutUint32(header[24:28], SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], uint32(SampleRate*c.NumChannels*2))
	binary.LittleEndian.PutUint16(header[32:34], uint16(c.NumChannels*2))
	binary.LittleEndian.PutUint16(header[34:36], BitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataBytes))
	if _, err := w.Write(header); err != nil {
		return err
	}

	payload := make([]byte, dataBytes)
	for i, v := range c.Data {
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(quantize(v)))
	}
	_, err := w.Write(payload)
	return err
}

// Decode reads a WAV stream produced by Encode or any canonical PCM
// writer, replacing the container's channel count and data.
func (c *Container) Decode(r io.Reader) error {
	var scratch [4]byte

	readTag := func(want string) error {
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return fmt.Errorf("%w: missing %q tag", ErrCorruptHeader, want)
		}
		if string(scratch[:4]) != want {
			return fmt.Errorf("%w: expected %q, found %q", ErrCorruptHeader, want, string(scratch[:4]))
		}
		return nil
	}
	readU32 := func() (uint32, error) {
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return 0, fmt.Errorf("%w: truncated header", ErrCorruptHeader)
		}
		return binary.LittleEndian.Uint32(scratch[:4]), nil
	}
	readU16 := func() (uint16, error) {
		if _, err := io.ReadFull(r, scratch[:2]); err != nil {
			return 0, fmt.Errorf("%w: truncated header", ErrCorruptHeader)
		}
		return binary.LittleEndian.Uint16(scratch[:2]), nil
	}

	if err := readTag("RIFF"); err != nil {
		return err
	}
	if _, err := readU32(); err != nil { // chunk size, recomputed on write
		return err
	}
	if err := readTag("WAVE"); err != nil {
		return err
	}
	if err := readTag("fmt "); err != nil {
		return err
	}
	if _, err := readU32(); err != nil { // fmt chunk size
		return err
	}
	format, err := readU16()
	if err != nil {
		return err
	}
	if format != pcmFormat {
		return fmt.Errorf("%w: audio format %d, want PCM", ErrCorruptHeader, format)
	}
	channels, err := readU16()
	if err != nil {
		return err
	}
	if _, err := readU32(); err != nil { // sample rate
		return err
	}
	if _, err := readU32(); err != nil { // byte rate
		return err
	}
	if _, err := readU16(); err != nil { // block align
		return err
	}
	bits, err := readU16()
	if err != nil {
		return err
	}
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}
	if bits != BitsPerSample {
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bits)
	}
	if err := readTag("data"); err != nil {
		return err
	}
	dataBytes, err := readU32()
	if err != nil {
		return err
	}

	payload := make([]byte, dataBytes)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("%w: truncated data chunk", ErrCorruptHeader)
	}
	n := int(dataBytes) / 2
	c.NumChannels = int(channels)
	c.Data = make(dsp.Buffer, n)
	for i := 0; i < n; i++ {
		c.Data[i] = dequantize(int16(binary.LittleEndian.Uint16(payload[2*i:])))
	}
	return nil
}

// Save writes the container to a WAV file at path.
func (c *Container) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a WAV file into a new container.
func Load(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c Container
	if err := c.Decode(f); err != nil {
		return nil, err
	}
	return &c, nil
}
