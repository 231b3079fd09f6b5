// Package audio holds the in-memory PCM buffer used by the sound pipeline and
// the pure transforms applied to it: loudness matching, peak normalization,
// and rate/channel/depth reformatting.
//
// Buffers are interleaved little-endian. 8-bit samples are unsigned with a
// 128 offset; wider depths are signed two's complement. Every transform
// returns a new Buffer and leaves its input untouched.
package audio
