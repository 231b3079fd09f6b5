package soundgen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgen/internal/audio"
	"assetgen/internal/manifest"
	"assetgen/internal/services"
)

type fakeDecoder struct {
	buf audio.Buffer
	err error
}

func (d fakeDecoder) Decode(context.Context, string) (audio.Buffer, error) {
	return audio.Buffer{Format: d.buf.Format, Data: append([]byte(nil), d.buf.Data...)}, d.err
}

func tone(format audio.Format, frames int) audio.Buffer {
	samples := make([]float64, frames*format.Channels)
	for i := range samples {
		samples[i] = 0.25 * math.Sin(float64(i)/7)
	}
	return audio.FromSamples(format, samples)
}

var target = audio.Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}

func newJob(t *testing.T, root string) manifest.SoundJob {
	t.Helper()
	source := filepath.Join(root, "assets", "audio", "click.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0o755))
	require.NoError(t, os.WriteFile(source, []byte("RIFF"), 0o644))
	return manifest.SoundJob{
		Source:        source,
		Output:        filepath.Join(root, "main", "assets", "audio", "snd_click.c"),
		Symbol:        "snd_click",
		SampleRate:    target.SampleRate,
		Channels:      target.Channels,
		BitsPerSample: target.BitsPerSample,
		HeadroomDB:    3,
	}
}

var lenPattern = regexp.MustCompile(`const size_t (\w+)_len = (\d+);`)

func TestConvertLenMatchesEmittedBytes(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)
	src := tone(audio.Format{SampleRate: 16000, Channels: 2, BitsPerSample: 16}, 101)
	conv := NewConverter(fakeDecoder{buf: src}, Options{Root: root}, nil)

	artifact, err := conv.Convert(context.Background(), job)
	require.NoError(t, err)

	data, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	text := string(data)

	match := lenPattern.FindStringSubmatch(text)
	require.NotNil(t, match, "missing _len constant:\n%s", text)
	assert.Equal(t, "snd_click", match[1])
	declared, err := strconv.Atoi(match[2])
	require.NoError(t, err)
	assert.Equal(t, strings.Count(text, "0x"), declared)
	assert.Equal(t, 101*2, declared)
	assert.Equal(t, declared, artifact.Bytes)

	assert.True(t, strings.HasPrefix(text, "// Auto-generated from assets/audio/click.wav\n"))
	assert.Contains(t, text, "// Sample rate: 16000 Hz, Channels: 1, Bits: 16\n")
	assert.Contains(t, text, "const uint8_t snd_click[] = {\n")
}

func TestConvertStrictPassthroughKeepsLength(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)
	src := tone(target, 480)
	conv := NewConverter(fakeDecoder{buf: src}, Options{Root: root, Strict: true}, nil)

	artifact, err := conv.Convert(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, len(src.Data), artifact.Bytes)

	data, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), fmt.Sprintf("const size_t snd_click_len = %d;", len(src.Data)))
}

func TestConvertStrictRejectsMismatch(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)
	src := tone(audio.Format{SampleRate: 44100, Channels: 1, BitsPerSample: 16}, 100)
	conv := NewConverter(fakeDecoder{buf: src}, Options{Root: root, Strict: true}, nil)

	_, err := conv.Convert(context.Background(), job)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrFormatMismatch))
	assert.False(t, services.IsBatchFatal(err))
	assert.Contains(t, err.Error(), "sample rate 44100 != 16000")
	_, statErr := os.Stat(job.Output)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestConvertMatchingFormatIsByteIdentical(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)
	src := tone(target, 64)

	_, err := NewConverter(fakeDecoder{buf: src}, Options{Root: root}, nil).Convert(context.Background(), job)
	require.NoError(t, err)
	data, err := os.ReadFile(job.Output)
	require.NoError(t, err)

	assert.Equal(t, Render(job, "assets/audio/click.wav", src), string(data))
}

func TestConvertResampledOutputIsIdempotent(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)
	src := tone(audio.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}, 4410)
	conv := NewConverter(fakeDecoder{buf: src}, Options{Root: root}, nil)

	first, err := conv.Convert(context.Background(), job)
	require.NoError(t, err)
	before, err := os.ReadFile(job.Output)
	require.NoError(t, err)

	second, err := conv.Convert(context.Background(), job)
	require.NoError(t, err)
	after, err := os.ReadFile(job.Output)
	require.NoError(t, err)

	assert.True(t, first.Changed)
	assert.False(t, second.Changed)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, 1600*2, second.Bytes)
	assert.Contains(t, string(after), "const size_t snd_click_len = 3200;")
}

func TestApplyGainPeakNormalizeLeavesHeadroom(t *testing.T) {
	job := newJob(t, t.TempDir())
	job.Normalize = true
	conv := NewConverter(fakeDecoder{}, Options{}, nil)

	out := conv.applyGain(conv.logger, job, tone(target, 1600))
	assert.InDelta(t, -3.0, audio.PeakdBFS(out), 0.01)
}

func TestApplyGainLoudnessTargetWins(t *testing.T) {
	job := newJob(t, t.TempDir())
	job.Normalize = true
	level := -20.0
	job.TargetDBFS = &level
	conv := NewConverter(fakeDecoder{}, Options{}, nil)

	out := conv.applyGain(conv.logger, job, tone(target, 1600))
	assert.InDelta(t, -20.0, audio.RMSdBFS(out), 0.05)
}

func TestConvertMissingSourceIsJobFatal(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)
	job.Source = filepath.Join(root, "missing.wav")

	_, err := NewConverter(fakeDecoder{buf: tone(target, 1)}, Options{Root: root}, nil).Convert(context.Background(), job)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrMissingSource))
	assert.False(t, services.IsBatchFatal(err))
}

func TestConvertDecodeFailureIsExternalToolError(t *testing.T) {
	root := t.TempDir()
	job := newJob(t, root)

	_, err := NewConverter(fakeDecoder{err: errors.New("ffmpeg exit status 1")}, Options{Root: root}, nil).Convert(context.Background(), job)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrExternalTool))
}

func TestRenderEmptyPayload(t *testing.T) {
	job := manifest.SoundJob{Symbol: "snd_empty"}
	text := Render(job, "x.wav", audio.Buffer{Format: target})
	assert.Contains(t, text, "const uint8_t snd_empty[] = {\n};\n")
	assert.Contains(t, text, "const size_t snd_empty_len = 0;\n")
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "assets/audio/a.wav", SourceLabel("/proj", "/proj/assets/audio/a.wav"))
	assert.Equal(t, "/elsewhere/a.wav", SourceLabel("/proj", "/elsewhere/a.wav"))
}
