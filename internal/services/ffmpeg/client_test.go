package ffmpeg

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"assetgen/internal/audio"
)

type stubExecutor struct {
	outputs map[string][]byte
	errs    map[string]error
	calls   [][]string
}

func (s *stubExecutor) Output(_ context.Context, binary string, args []string) ([]byte, error) {
	s.calls = append(s.calls, append([]string{binary}, args...))
	if err := s.errs[binary]; err != nil {
		return nil, err
	}
	return s.outputs[binary], nil
}

const probeJSON = `{"streams":[{"index":0,"codec_name":"pcm_s16le","codec_type":"audio","sample_fmt":"s16","sample_rate":"22050","channels":2,"bits_per_sample":16}]}`

func TestDecodeUsesProbedFormat(t *testing.T) {
	exec := &stubExecutor{outputs: map[string][]byte{
		"ffprobe": []byte(probeJSON),
		"ffmpeg":  {1, 0, 2, 0, 3, 0, 4, 0, 9},
	}}
	client, err := New("ffmpeg", "ffprobe", WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	buf, err := client.Decode(context.Background(), "/tmp/click.wav")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	want := audio.Format{SampleRate: 22050, Channels: 2, BitsPerSample: 16}
	if buf.Format != want {
		t.Fatalf("unexpected format %+v", buf.Format)
	}
	if len(buf.Data) != 8 {
		t.Fatalf("expected partial frame trimmed, got %d bytes", len(buf.Data))
	}
	if len(exec.calls) != 2 {
		t.Fatalf("expected probe and decode calls, got %d", len(exec.calls))
	}
	decode := strings.Join(exec.calls[1], " ")
	if !strings.Contains(decode, "-f s16le -acodec pcm_s16le") || !strings.HasSuffix(decode, " -") {
		t.Fatalf("unexpected decode args: %s", decode)
	}
	if strings.Contains(decode, "-ac") {
		t.Fatalf("stereo source should not be remixed by ffmpeg: %s", decode)
	}
}

func TestDecodePropagatesToolFailure(t *testing.T) {
	exec := &stubExecutor{
		outputs: map[string][]byte{"ffprobe": []byte(probeJSON)},
		errs:    map[string]error{"ffmpeg": errors.New("exit status 1: invalid data")},
	}
	client, err := New("ffmpeg", "ffprobe", WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Decode(context.Background(), "/tmp/broken.mp3"); err == nil || !strings.Contains(err.Error(), "ffmpeg decode") {
		t.Fatalf("expected ffmpeg decode error, got %v", err)
	}
}

func TestDecodeRejectsFilesWithoutAudio(t *testing.T) {
	exec := &stubExecutor{outputs: map[string][]byte{"ffprobe": []byte(`{"streams":[]}`)}}
	client, _ := New("ffmpeg", "ffprobe", WithExecutor(exec))
	if _, err := client.Decode(context.Background(), "/tmp/silent.txt"); err == nil {
		t.Fatal("expected error for file without audio stream")
	}
}

func TestStreamDecodeFormat(t *testing.T) {
	cases := []struct {
		stream Stream
		want   audio.Format
	}{
		{Stream{SampleFmt: "u8", SampleRate: "8000", Channels: 1}, audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 8}},
		{Stream{SampleFmt: "s32", BitsPerRawSample: "24", SampleRate: "48000", Channels: 2}, audio.Format{SampleRate: 48000, Channels: 2, BitsPerSample: 24}},
		{Stream{SampleFmt: "s32p", SampleRate: "44100", Channels: 1}, audio.Format{SampleRate: 44100, Channels: 1, BitsPerSample: 32}},
		{Stream{SampleFmt: "fltp", SampleRate: "44100", Channels: 6}, audio.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}},
	}
	for _, tc := range cases {
		got, err := tc.stream.DecodeFormat()
		if err != nil {
			t.Fatalf("DecodeFormat(%+v) returned error: %v", tc.stream, err)
		}
		if got != tc.want {
			t.Fatalf("DecodeFormat(%+v) = %+v, want %+v", tc.stream, got, tc.want)
		}
	}
	if _, err := (Stream{SampleRate: "n/a", Channels: 1}).DecodeFormat(); err == nil {
		t.Fatal("expected error for invalid sample rate")
	}
}

func TestDecodeArgsDownmixesSurround(t *testing.T) {
	args := decodeArgs("in.flac", audio.Format{SampleRate: 48000, Channels: 2, BitsPerSample: 24}, 6)
	want := []string{"-v", "error", "-nostdin", "-i", "in.flac", "-map", "0:a:0", "-f", "s24le", "-acodec", "pcm_s24le", "-ac", "2", "-"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args %v", args)
	}
}
