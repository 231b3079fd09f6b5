package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"assetgen/internal/audio"
)

// Probe represents the parsed output of an ffprobe stream inspection.
type Probe struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a single audio stream.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`
	CodecType        string `json:"codec_type"`
	SampleFmt        string `json:"sample_fmt"`
	SampleRate       string `json:"sample_rate"`
	Channels         int    `json:"channels"`
	BitsPerSample    int    `json:"bits_per_sample"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
}

func parseProbe(output []byte) (Probe, error) {
	var probe Probe
	if err := json.Unmarshal(output, &probe); err != nil {
		return Probe{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return probe, nil
}

// AudioStream returns the first audio stream.
func (p Probe) AudioStream() (Stream, bool) {
	for _, stream := range p.Streams {
		if stream.CodecType == "" || strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// DecodeFormat returns the PCM layout the stream will be decoded to.
func (s Stream) DecodeFormat() (audio.Format, error) {
	rate, err := strconv.Atoi(strings.TrimSpace(s.SampleRate))
	if err != nil || rate <= 0 {
		return audio.Format{}, fmt.Errorf("invalid sample rate %q", s.SampleRate)
	}
	channels := s.Channels
	if channels < 1 {
		return audio.Format{}, fmt.Errorf("invalid channel count %d", s.Channels)
	}
	if channels > 2 {
		channels = 2
	}
	return audio.Format{
		SampleRate:    rate,
		Channels:      channels,
		BitsPerSample: s.decodeBits(),
	}, nil
}

func (s Stream) decodeBits() int {
	format := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s.SampleFmt)), "p")
	switch format {
	case "u8":
		return 8
	case "s16":
		return 16
	case "s32":
		if raw, err := strconv.Atoi(strings.TrimSpace(s.BitsPerRawSample)); err == nil && raw > 0 && raw <= 24 {
			if raw <= 16 {
				return 16
			}
			return 24
		}
		return 32
	case "s64":
		return 32
	default:
		return 16
	}
}

// pcmCodec returns the ffmpeg muxer and codec names for a depth.
func pcmCodec(bits int) (string, string) {
	switch bits {
	case 8:
		return "u8", "pcm_u8"
	case 24:
		return "s24le", "pcm_s24le"
	case 32:
		return "s32le", "pcm_s32le"
	default:
		return "s16le", "pcm_s16le"
	}
}
