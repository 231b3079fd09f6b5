package audio

import (
	"fmt"
)

// Reformat converts b to target. Rate, channel, and depth conversion each run
// only when that field differs, so a buffer already at target is returned
// byte-for-byte.
func Reformat(b Buffer, target Format) (Buffer, error) {
	if err := target.Validate(); err != nil {
		return Buffer{}, err
	}
	if b.Format == target {
		return Buffer{Format: target, Data: append([]byte(nil), b.Data...)}, nil
	}
	if err := b.Format.Validate(); err != nil {
		return Buffer{}, fmt.Errorf("source format: %w", err)
	}

	samples := b.Samples()
	channels := b.Format.Channels
	if channels != target.Channels {
		samples = Remix(samples, channels, target.Channels)
		channels = target.Channels
	}
	if b.Format.SampleRate != target.SampleRate {
		var err error
		samples, err = Resample(samples, channels, b.Format.SampleRate, target.SampleRate)
		if err != nil {
			return Buffer{}, err
		}
	}
	return FromSamples(target, samples), nil
}

// Remix converts interleaved samples between mono and stereo. Stereo to mono
// averages the pair; mono to stereo duplicates.
func Remix(samples []float64, from, to int) []float64 {
	if from == to || from < 1 || to < 1 {
		return samples
	}
	frames := len(samples) / from
	out := make([]float64, frames*to)
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < from; c++ {
			sum += samples[f*from+c]
		}
		mixed := sum / float64(from)
		for c := 0; c < to; c++ {
			if from == 1 {
				out[f*to+c] = samples[f]
			} else {
				out[f*to+c] = mixed
			}
		}
	}
	return out
}
