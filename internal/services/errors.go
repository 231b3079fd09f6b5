package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrManifest       = errors.New("manifest error")
	ErrMissingSource  = errors.New("missing source")
	ErrExternalTool   = errors.New("external tool error")
	ErrToolNotFound   = errors.New("tool not found")
	ErrFormatMismatch = errors.New("format mismatch")
	ErrConfiguration  = errors.New("configuration error")
)

// Wrap builds an error message that includes the asset kind and job name while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, kind, job, message string, err error) error {
	detail := buildDetail(kind, job, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsBatchFatal reports whether err must abort the whole batch rather than a
// single job.
func IsBatchFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrManifest), errors.Is(err, ErrToolNotFound), errors.Is(err, ErrConfiguration):
		return true
	default:
		return false
	}
}

// Category returns a short label for the marker carried by err.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrManifest):
		return "manifest"
	case errors.Is(err, ErrMissingSource):
		return "missing_source"
	case errors.Is(err, ErrToolNotFound):
		return "tool_not_found"
	case errors.Is(err, ErrFormatMismatch):
		return "format_mismatch"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "internal"
	}
}

func buildDetail(kind, job, message string) string {
	parts := make([]string, 0, 3)
	if kind = strings.TrimSpace(kind); kind != "" {
		parts = append(parts, kind)
	}
	if job = strings.TrimSpace(job); job != "" {
		parts = append(parts, job)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "asset failure"
	}
	return strings.Join(parts, ": ")
}
