package soundgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"assetgen/internal/audio"
	"assetgen/internal/carray"
	"assetgen/internal/manifest"
)

// Render emits the C source for a PCM payload. sourceLabel is the path shown
// in the header comment.
func Render(job manifest.SoundJob, sourceLabel string, pcm audio.Buffer) string {
	lines := []string{
		"// Auto-generated from " + sourceLabel,
		fmt.Sprintf("// Sample rate: %d Hz, Channels: %d, Bits: %d", pcm.Format.SampleRate, pcm.Format.Channels, pcm.Format.BitsPerSample),
		"",
		"#include <stddef.h>",
		"#include <stdint.h>",
		"",
		fmt.Sprintf("const uint8_t %s[] = {", job.Symbol),
	}
	if body := carray.Format(pcm.Data, carray.SoundRows()); body != "" {
		lines = append(lines, body)
	}
	lines = append(lines,
		"};",
		"",
		fmt.Sprintf("const size_t %s_len = %d;", job.Symbol, len(pcm.Data)),
		"",
	)
	return strings.Join(lines, "\n")
}

// SourceLabel returns source relative to root with forward slashes, or the
// cleaned absolute path when source lies outside root.
func SourceLabel(root, source string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, source); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(source))
}
