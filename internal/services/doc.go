// Package services defines shared utilities consumed by the asset pipelines
// and their external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp asset kinds, job names, and run identifiers
//     for logging.
//   - Structured error markers plus the Wrap helper that let the driver tell
//     batch-fatal failures (bad manifest, missing tool) from job-fatal ones
//     (missing source, tool exit status).
//
// Subpackages wrap individual external programs (ffmpeg/ffprobe) behind small
// interfaces so the pipelines can be exercised with fakes.
package services
