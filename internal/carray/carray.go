// Package carray renders byte sequences as rows of C hex literals for
// embedding in generated source files.
package carray

import (
	"strings"
)

// SoundRowWidth is the number of bytes emitted per line for sound arrays.
const SoundRowWidth = 12

const indent = "    "

const hexDigits = "0123456789abcdef"

// Layout controls how a byte sequence is split into lines.
type Layout struct {
	// Width is the number of bytes per line. Values below 1 put everything on
	// one line.
	Width int
	// Separator goes between values on the same line.
	Separator string
}

// ImageRows returns the layout used for raster data: one image row per line,
// values separated by a bare comma.
func ImageRows(width int) Layout {
	return Layout{Width: width, Separator: ","}
}

// SoundRows returns the layout used for PCM data.
func SoundRows() Layout {
	return Layout{Width: SoundRowWidth, Separator: ", "}
}

// Format renders data as indented lines of zero-padded 0x-prefixed values,
// each line ending with a comma. Lines are joined by newlines with no trailing
// newline. Empty input renders as an empty string.
func Format(data []byte, layout Layout) string {
	if len(data) == 0 {
		return ""
	}
	width := layout.Width
	if width < 1 {
		width = len(data)
	}

	rows := (len(data) + width - 1) / width
	var b strings.Builder
	b.Grow(rows*(len(indent)+2) + len(data)*(4+len(layout.Separator)))

	for start := 0; start < len(data); start += width {
		end := min(start+width, len(data))
		if start > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		for i, value := range data[start:end] {
			if i > 0 {
				b.WriteString(layout.Separator)
			}
			b.WriteString("0x")
			b.WriteByte(hexDigits[value>>4])
			b.WriteByte(hexDigits[value&0x0f])
		}
		b.WriteByte(',')
	}
	return b.String()
}
