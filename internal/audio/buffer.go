package audio

import (
	"fmt"
	"math"
)

// Format describes a PCM layout.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Validate reports layouts the codecs cannot handle.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive (got %d)", f.SampleRate)
	}
	if f.Channels < 1 || f.Channels > 2 {
		return fmt.Errorf("channels must be 1 or 2 (got %d)", f.Channels)
	}
	switch f.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("bits per sample must be 8, 16, 24, or 32 (got %d)", f.BitsPerSample)
	}
	return nil
}

// SampleBytes returns the width of one sample.
func (f Format) SampleBytes() int {
	return f.BitsPerSample / 8
}

// FrameBytes returns the width of one interleaved frame.
func (f Format) FrameBytes() int {
	return f.SampleBytes() * f.Channels
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d bit", f.SampleRate, f.Channels, f.BitsPerSample)
}

// Differences lists the fields in which f and target disagree.
func (f Format) Differences(target Format) []string {
	var diffs []string
	if f.SampleRate != target.SampleRate {
		diffs = append(diffs, fmt.Sprintf("sample rate %d != %d", f.SampleRate, target.SampleRate))
	}
	if f.Channels != target.Channels {
		diffs = append(diffs, fmt.Sprintf("channels %d != %d", f.Channels, target.Channels))
	}
	if f.BitsPerSample != target.BitsPerSample {
		diffs = append(diffs, fmt.Sprintf("bits %d != %d", f.BitsPerSample, target.BitsPerSample))
	}
	return diffs
}

// Buffer is raw interleaved PCM at Format.
type Buffer struct {
	Format Format
	Data   []byte
}

// Frames returns the number of complete frames in the buffer.
func (b Buffer) Frames() int {
	frame := b.Format.FrameBytes()
	if frame == 0 {
		return 0
	}
	return len(b.Data) / frame
}

// Samples decodes the buffer into floats in [-1, 1). Trailing bytes that do
// not form a full sample are ignored.
func (b Buffer) Samples() []float64 {
	width := b.Format.SampleBytes()
	if width == 0 {
		return nil
	}
	count := len(b.Data) / width
	scale := fullScale(b.Format.BitsPerSample)
	samples := make([]float64, count)
	for i := 0; i < count; i++ {
		samples[i] = float64(decodeSample(b.Data[i*width:], b.Format.BitsPerSample)) / scale
	}
	return samples
}

// FromSamples encodes floats at format, rounding to the nearest step and
// clipping at full scale.
func FromSamples(format Format, samples []float64) Buffer {
	width := format.SampleBytes()
	scale := fullScale(format.BitsPerSample)
	data := make([]byte, len(samples)*width)
	for i, s := range samples {
		v := math.Round(s * scale)
		if v > scale-1 {
			v = scale - 1
		} else if v < -scale {
			v = -scale
		}
		encodeSample(data[i*width:], format.BitsPerSample, int32(v))
	}
	return Buffer{Format: format, Data: data}
}

func fullScale(bits int) float64 {
	return math.Ldexp(1, bits-1)
}

func decodeSample(p []byte, bits int) int32 {
	switch bits {
	case 8:
		return int32(p[0]) - 128
	case 16:
		return int32(int16(uint16(p[0]) | uint16(p[1])<<8))
	case 24:
		v := int32(p[0]) | int32(p[1])<<8 | int32(p[2])<<16
		return v << 8 >> 8
	case 32:
		return int32(uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24)
	default:
		return 0
	}
}

func encodeSample(p []byte, bits int, v int32) {
	switch bits {
	case 8:
		p[0] = byte(v + 128)
	case 16:
		p[0] = byte(v)
		p[1] = byte(v >> 8)
	case 24:
		p[0] = byte(v)
		p[1] = byte(v >> 8)
		p[2] = byte(v >> 16)
	case 32:
		p[0] = byte(v)
		p[1] = byte(v >> 8)
		p[2] = byte(v >> 16)
		p[3] = byte(v >> 24)
	}
}
