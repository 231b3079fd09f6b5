package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"assetgen/internal/config"
	"assetgen/internal/services"
)

// Format identifies the manifest syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the syntax from the file extension; anything that is not
// .yaml or .yml is TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Defaults supplies the directories and audio parameters applied to entries
// that omit them.
type Defaults struct {
	SourceDir     string
	OutputDir     string
	SampleRate    int
	Channels      int
	BitsPerSample int
	HeadroomDB    float64
}

// DefaultsFromConfig builds the Defaults for kind from the loaded config.
func DefaultsFromConfig(cfg *config.Config, kind Kind) Defaults {
	return Defaults{
		SourceDir:     cfg.SourceDir(string(kind)),
		OutputDir:     cfg.OutputDir(string(kind)),
		SampleRate:    cfg.Sound.SampleRate,
		Channels:      cfg.Sound.Channels,
		BitsPerSample: cfg.Sound.BitsPerSample,
		HeadroomDB:    cfg.Sound.HeadroomDB,
	}
}

// ErrManifestMissing reports that the manifest file does not exist.
var ErrManifestMissing = errors.New("manifest missing")

// Load reads and parses the manifest at path.
func Load(path string, kind Kind, defaults Defaults) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrManifest, string(kind), filepath.Base(path), "manifest missing: "+path, ErrManifestMissing)
		}
		return nil, services.Wrap(services.ErrManifest, string(kind), filepath.Base(path), "read manifest", err)
	}
	m, err := Parse(data, FormatForPath(path), kind, defaults, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse decodes manifest text. name labels errors (usually the file name).
func Parse(data []byte, format Format, kind Kind, defaults Defaults, name string) (*Manifest, error) {
	var doc map[string]any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrManifest, string(kind), name, "parse "+string(format), err)
	}

	rawEntries, err := entryList(doc, kind, name)
	if err != nil {
		return nil, err
	}

	m := &Manifest{Kind: kind}
	for i, raw := range rawEntries {
		e := entry{manifest: name, kind: kind, index: i, values: raw}
		switch kind {
		case KindImage:
			job, err := parseImage(e, defaults)
			if err != nil {
				return nil, err
			}
			m.Images = append(m.Images, job)
		case KindSound:
			job, err := parseSound(e, defaults)
			if err != nil {
				return nil, err
			}
			m.Sounds = append(m.Sounds, job)
		case KindFont:
			job, err := parseFont(e, defaults)
			if err != nil {
				return nil, err
			}
			m.Fonts = append(m.Fonts, job)
		default:
			return nil, services.Wrap(services.ErrManifest, string(kind), name, "unsupported kind", nil)
		}
	}
	return m, nil
}

func entryList(doc map[string]any, kind Kind, name string) ([]map[string]any, error) {
	raw, ok := doc[string(kind)]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, services.Wrap(services.ErrManifest, string(kind), name, fmt.Sprintf("%q must be a list of entries", kind), nil)
	}
	entries := make([]map[string]any, 0, len(list))
	for i, item := range list {
		values, ok := item.(map[string]any)
		if !ok {
			return nil, services.Wrap(services.ErrManifest, string(kind), name, fmt.Sprintf("entry %d must be a table of fields", i+1), nil)
		}
		entries = append(entries, values)
	}
	return entries, nil
}

func parseImage(e entry, d Defaults) (ImageJob, error) {
	source, err := e.str("source", true)
	if err != nil {
		return ImageJob{}, err
	}
	size, err := e.integer("size", true, 0)
	if err != nil {
		return ImageJob{}, err
	}
	if size <= 0 {
		return ImageJob{}, e.fail("size", "must be positive")
	}
	symbol, err := e.str("symbol", false)
	if err != nil {
		return ImageJob{}, err
	}
	if symbol == "" {
		symbol = SymbolFromPath(source)
	} else if !IsIdentifier(symbol) {
		return ImageJob{}, e.fail("symbol", fmt.Sprintf("%q is not a valid C identifier", symbol))
	}
	outfile, err := e.str("outfile", false)
	if err != nil {
		return ImageJob{}, err
	}
	if outfile == "" {
		outfile = symbol + ".c"
	}
	usage, err := e.str("usage", false)
	if err != nil {
		return ImageJob{}, err
	}
	return ImageJob{
		Source: anchor(d.SourceDir, source),
		Size:   size,
		Symbol: symbol,
		Output: anchor(d.OutputDir, outfile),
		Usage:  usage,
	}, nil
}

func parseSound(e entry, d Defaults) (SoundJob, error) {
	source, err := e.str("source", true)
	if err != nil {
		return SoundJob{}, err
	}
	symbol, err := e.str("symbol", false)
	if err != nil {
		return SoundJob{}, err
	}
	if symbol == "" {
		return SoundJob{}, e.fail("symbol", "each sound entry must declare a 'symbol'")
	}
	if !IsIdentifier(symbol) {
		return SoundJob{}, e.fail("symbol", fmt.Sprintf("%q is not a valid C identifier", symbol))
	}
	outfile, err := e.str("outfile", false)
	if err != nil {
		return SoundJob{}, err
	}
	if outfile == "" {
		outfile = symbol + ".c"
	}
	rate, err := e.integer("sample_rate", false, d.SampleRate)
	if err != nil {
		return SoundJob{}, err
	}
	if rate <= 0 {
		return SoundJob{}, e.fail("sample_rate", "must be positive")
	}
	channels, err := e.integer("channels", false, d.Channels)
	if err != nil {
		return SoundJob{}, err
	}
	if channels < 1 || channels > 2 {
		return SoundJob{}, e.fail("channels", "must be 1 or 2")
	}
	bits, err := e.integer("bits_per_sample", false, d.BitsPerSample)
	if err != nil {
		return SoundJob{}, err
	}
	if bits%8 != 0 || bits < 8 || bits > 32 {
		return SoundJob{}, e.fail("bits_per_sample", fmt.Sprintf("must be 8, 16, 24, or 32 (got %d)", bits))
	}
	usage, err := e.str("usage", false)
	if err != nil {
		return SoundJob{}, err
	}
	target, hasTarget, err := e.float("target_dbfs")
	if err != nil {
		return SoundJob{}, err
	}
	if hasTarget && target > 0 {
		return SoundJob{}, e.fail("target_dbfs", "must be <= 0 dBFS")
	}
	normalize, err := e.boolean("normalize")
	if err != nil {
		return SoundJob{}, err
	}
	headroom, hasHeadroom, err := e.float("headroom_db")
	if err != nil {
		return SoundJob{}, err
	}
	if !hasHeadroom {
		headroom = d.HeadroomDB
	}
	if headroom < 0 {
		return SoundJob{}, e.fail("headroom_db", "must be >= 0")
	}

	job := SoundJob{
		Source:        anchor(d.SourceDir, source),
		Output:        anchor(d.OutputDir, outfile),
		Symbol:        symbol,
		SampleRate:    rate,
		Channels:      channels,
		BitsPerSample: bits,
		Usage:         usage,
		Normalize:     normalize,
		HeadroomDB:    headroom,
	}
	if hasTarget {
		job.TargetDBFS = &target
	}
	return job, nil
}

func parseFont(e entry, d Defaults) (FontJob, error) {
	source, err := e.str("source", true)
	if err != nil {
		return FontJob{}, err
	}
	size, err := e.integer("size", true, 0)
	if err != nil {
		return FontJob{}, err
	}
	if size <= 0 {
		return FontJob{}, e.fail("size", "must be positive")
	}
	name, err := e.str("lv_name", true)
	if err != nil {
		return FontJob{}, err
	}
	if !IsIdentifier(name) {
		return FontJob{}, e.fail("lv_name", fmt.Sprintf("%q is not a valid C identifier", name))
	}
	outfile, err := e.str("outfile", true)
	if err != nil {
		return FontJob{}, err
	}
	symbols, err := e.str("symbols", true)
	if err != nil {
		return FontJob{}, err
	}
	usage, err := e.str("usage", false)
	if err != nil {
		return FontJob{}, err
	}
	return FontJob{
		Source:  anchor(d.SourceDir, source),
		Size:    size,
		Name:    name,
		Output:  anchor(d.OutputDir, outfile),
		Symbols: symbols,
		Usage:   usage,
	}, nil
}

func anchor(dir, value string) string {
	if filepath.IsAbs(value) || dir == "" {
		return filepath.Clean(value)
	}
	return filepath.Join(dir, value)
}

type entry struct {
	manifest string
	kind     Kind
	index    int
	values   map[string]any
}

func (e entry) fail(field, message string) error {
	job := fmt.Sprintf("%s entry %d", e.manifest, e.index+1)
	if symbol, ok := e.values["symbol"].(string); ok && strings.TrimSpace(symbol) != "" {
		job += " (" + strings.TrimSpace(symbol) + ")"
	}
	return services.Wrap(services.ErrManifest, string(e.kind), job, fmt.Sprintf("field %q %s", field, message), nil)
}

func (e entry) str(key string, required bool) (string, error) {
	raw, ok := e.values[key]
	if !ok || raw == nil {
		if required {
			return "", e.fail(key, "is required")
		}
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		value := strings.TrimSpace(v)
		if value == "" && required {
			return "", e.fail(key, "must not be empty")
		}
		return value, nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", e.fail(key, fmt.Sprintf("must be a string (got %T)", raw))
	}
}

func (e entry) integer(key string, required bool, fallback int) (int, error) {
	raw, ok := e.values[key]
	if !ok || raw == nil {
		if required {
			return 0, e.fail(key, "is required")
		}
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, e.fail(key, fmt.Sprintf("must be an integer (got %v)", v))
		}
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, e.fail(key, fmt.Sprintf("must be an integer (got %q)", v))
		}
		return parsed, nil
	default:
		return 0, e.fail(key, fmt.Sprintf("must be an integer (got %T)", raw))
	}
}

func (e entry) float(key string) (float64, bool, error) {
	raw, ok := e.values[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, e.fail(key, fmt.Sprintf("must be a number (got %q)", v))
		}
		return parsed, true, nil
	default:
		return 0, false, e.fail(key, fmt.Sprintf("must be a number (got %T)", raw))
	}
}

func (e entry) boolean(key string) (bool, error) {
	raw, ok := e.values[key]
	if !ok || raw == nil {
		return false, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, e.fail(key, fmt.Sprintf("must be a boolean (got %q)", v))
		}
		return parsed, nil
	default:
		return false, e.fail(key, fmt.Sprintf("must be a boolean (got %T)", raw))
	}
}
