// Package ffmpeg decodes audio files to raw PCM through the ffprobe and
// ffmpeg command-line tools.
//
// Key types:
//   - Client: probes the first audio stream and decodes it at its native
//     rate, channel count and integer depth
//   - Probe: the parsed ffprobe stream description
//   - Executor: command execution seam used by tests
//
// Float and 64-bit sources are decoded to 16-bit and 32-bit integers
// respectively. Sources with more than two channels are downmixed to stereo
// by ffmpeg.
package ffmpeg
