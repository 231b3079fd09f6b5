// Package soundgen converts audio clips into raw PCM C arrays.
//
// A job is decoded, optionally gain-staged (loudness target or peak
// normalization), brought to the target format, and written with a
// <symbol>_len constant holding the exact payload size. In strict mode a
// decoded format that differs from the target fails the job instead of
// being converted.
package soundgen
