package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"assetgen/internal/audio"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffprobe and ffmpeg invocations.
type Client struct {
	ffmpeg  string
	ffprobe string
	exec    Executor
}

// New constructs a decoding client.
func New(ffmpegBinary, ffprobeBinary string, opts ...Option) (*Client, error) {
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	ffprobeBinary = strings.TrimSpace(ffprobeBinary)
	if ffmpegBinary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	if ffprobeBinary == "" {
		return nil, errors.New("ffprobe binary required")
	}
	client := &Client{
		ffmpeg:  ffmpegBinary,
		ffprobe: ffprobeBinary,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Probe inspects the first audio stream of path.
func (c *Client) Probe(ctx context.Context, path string) (Probe, error) {
	args := []string{"-v", "error", "-hide_banner", "-select_streams", "a:0", "-show_streams", "-of", "json", "--", path}
	output, err := c.exec.Output(ctx, c.ffprobe, args)
	if err != nil {
		return Probe{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return parseProbe(output)
}

// Decode returns the first audio stream of path as PCM at its native rate
// and channel count.
func (c *Client) Decode(ctx context.Context, path string) (audio.Buffer, error) {
	probe, err := c.Probe(ctx, path)
	if err != nil {
		return audio.Buffer{}, err
	}
	stream, ok := probe.AudioStream()
	if !ok {
		return audio.Buffer{}, errors.New("no audio stream found")
	}
	format, err := stream.DecodeFormat()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("ffprobe stream: %w", err)
	}

	output, err := c.exec.Output(ctx, c.ffmpeg, decodeArgs(path, format, stream.Channels))
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("ffmpeg decode: %w", err)
	}
	if rem := len(output) % format.FrameBytes(); rem != 0 {
		output = output[:len(output)-rem]
	}
	return audio.Buffer{Format: format, Data: output}, nil
}

func decodeArgs(path string, format audio.Format, sourceChannels int) []string {
	muxer, codec := pcmCodec(format.BitsPerSample)
	args := []string{"-v", "error", "-nostdin", "-i", path, "-map", "0:a:0", "-f", muxer, "-acodec", codec}
	if sourceChannels != format.Channels {
		args = append(args, "-ac", strconv.Itoa(format.Channels))
	}
	return append(args, "-")
}

type commandExecutor struct{}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", err, detail)
	}
	return stdout.Bytes(), nil
}
