package manifest

import (
	"fmt"
	"strings"
)

// Kind tags a manifest and every job in it.
type Kind string

const (
	KindImage Kind = "image"
	KindSound Kind = "sound"
	KindFont  Kind = "font"
)

// AllKinds lists the kinds in the order the driver runs them.
var AllKinds = []Kind{KindImage, KindSound, KindFont}

// ParseKind accepts singular or plural kind names.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "image", "images":
		return KindImage, nil
	case "sound", "sounds":
		return KindSound, nil
	case "font", "fonts":
		return KindFont, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q (want images, sounds, or fonts)", value)
	}
}

// ImageJob converts one SVG into an alpha-only LVGL image descriptor.
type ImageJob struct {
	Source string
	Size   int
	Symbol string
	Output string
	Usage  string
}

// GainMode selects the sound gain stage.
type GainMode string

const (
	GainNone     GainMode = "none"
	GainLoudness GainMode = "loudness"
	GainPeak     GainMode = "peak"
)

// SoundJob converts one audio file into a raw PCM byte array.
type SoundJob struct {
	Source        string
	Output        string
	Symbol        string
	SampleRate    int
	Channels      int
	BitsPerSample int
	Usage         string
	// TargetDBFS is the loudness target; nil disables loudness matching.
	TargetDBFS *float64
	Normalize  bool
	HeadroomDB float64
}

// GainMode reports which gain stage applies. A loudness target wins over
// peak normalization.
func (j SoundJob) GainMode() GainMode {
	switch {
	case j.TargetDBFS != nil:
		return GainLoudness
	case j.Normalize:
		return GainPeak
	default:
		return GainNone
	}
}

// FontJob hands one font to the external glyph converter.
type FontJob struct {
	Source  string
	Size    int
	Name    string
	Output  string
	Symbols string
	Usage   string
}

// Entry is the kind-independent view of a job used for reporting and
// collision checks.
type Entry struct {
	Kind   Kind
	Index  int
	Name   string
	Source string
	Output string
	Usage  string
}

// Label identifies the entry in messages, e.g. "sound #3".
func (e Entry) Label() string {
	return fmt.Sprintf("%s #%d", e.Kind, e.Index+1)
}

// Manifest is the ordered job list of a single kind. Only the slice matching
// Kind is populated.
type Manifest struct {
	Kind   Kind
	Path   string
	Images []ImageJob
	Sounds []SoundJob
	Fonts  []FontJob
}

// Len returns the number of jobs in the manifest.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	switch m.Kind {
	case KindImage:
		return len(m.Images)
	case KindSound:
		return len(m.Sounds)
	case KindFont:
		return len(m.Fonts)
	default:
		return 0
	}
}

// Entries returns the kind-independent view of every job in order.
func (m *Manifest) Entries() []Entry {
	if m == nil {
		return nil
	}
	entries := make([]Entry, 0, m.Len())
	for i, job := range m.Images {
		entries = append(entries, Entry{Kind: KindImage, Index: i, Name: job.Symbol, Source: job.Source, Output: job.Output, Usage: job.Usage})
	}
	for i, job := range m.Sounds {
		entries = append(entries, Entry{Kind: KindSound, Index: i, Name: job.Symbol, Source: job.Source, Output: job.Output, Usage: job.Usage})
	}
	for i, job := range m.Fonts {
		entries = append(entries, Entry{Kind: KindFont, Index: i, Name: job.Name, Source: job.Source, Output: job.Output, Usage: job.Usage})
	}
	return entries
}
