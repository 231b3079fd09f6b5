package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ProjectFileName is the configuration file looked up in the working directory.
const ProjectFileName = "assetgen.toml"

// Paths contains the project root plus manifest, source, and output locations
// for each asset kind. Relative values resolve against Root.
type Paths struct {
	Root           string `toml:"root"`
	ImageManifest  string `toml:"image_manifest"`
	ImageSourceDir string `toml:"image_source_dir"`
	ImageOutputDir string `toml:"image_output_dir"`
	SoundManifest  string `toml:"sound_manifest"`
	SoundSourceDir string `toml:"sound_source_dir"`
	SoundOutputDir string `toml:"sound_output_dir"`
	FontManifest   string `toml:"font_manifest"`
	FontSourceDir  string `toml:"font_source_dir"`
	FontOutputDir  string `toml:"font_output_dir"`
	LockFile       string `toml:"lock_file"`
}

// Tools names the external programs assetgen may invoke.
type Tools struct {
	// Rasterizer selects the SVG renderer: builtin (default), resvg, rsvg-convert or auto.
	Rasterizer  string `toml:"rasterizer"`
	Resvg       string `toml:"resvg"`
	RsvgConvert string `toml:"rsvg_convert"`
	FFmpeg      string `toml:"ffmpeg"`
	FFprobe     string `toml:"ffprobe"`
	FontConv    string `toml:"lv_font_conv"`
	Npx         string `toml:"npx"`
}

// Sound contains sound pipeline defaults applied to manifest entries that
// omit the corresponding field.
type Sound struct {
	// Mode is "convert" (resample/remix/requantize as needed) or "strict"
	// (fail jobs whose decoded format differs from the target).
	Mode          string  `toml:"mode"`
	SampleRate    int     `toml:"sample_rate"`
	Channels      int     `toml:"channels"`
	BitsPerSample int     `toml:"bits_per_sample"`
	HeadroomDB    float64 `toml:"headroom_db"`
}

// Manifest contains cross-entry manifest checks.
type Manifest struct {
	// DuplicatePolicy is "warn" or "error" for repeated outputs or symbols.
	DuplicatePolicy string `toml:"duplicate_policy"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File receives a JSON debug log of every run when set.
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for assetgen.
//
// Configuration sections:
//   - Paths: project root and per-kind manifest/source/output locations
//   - Tools: external rasterizer, decoder, and font converter commands
//   - Sound: sound defaults and conversion mode
//   - Manifest: duplicate output/symbol policy
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tools    Tools    `toml:"tools"`
	Sound    Sound    `toml:"sound"`
	Manifest Manifest `toml:"manifest"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/assetgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and resolved against the project root. When no root is
// configured, the directory holding the config file is used, or the working
// directory when no file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if strings.TrimSpace(cfg.Paths.Root) == "" {
		if exists {
			cfg.Paths.Root = filepath.Dir(resolvedPath)
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, "", false, fmt.Errorf("resolve working directory: %w", err)
			}
			cfg.Paths.Root = cwd
		}
	} else if exists && !filepath.IsAbs(cfg.Paths.Root) && !strings.HasPrefix(cfg.Paths.Root, "~") {
		cfg.Paths.Root = filepath.Join(filepath.Dir(resolvedPath), cfg.Paths.Root)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(ProjectFileName)
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// ManifestPath returns the manifest file configured for kind ("image",
// "sound" or "font").
func (c *Config) ManifestPath(kind string) string {
	switch kind {
	case "image":
		return c.Paths.ImageManifest
	case "sound":
		return c.Paths.SoundManifest
	case "font":
		return c.Paths.FontManifest
	default:
		return ""
	}
}

// SourceDir returns the directory manifest sources of kind resolve against.
func (c *Config) SourceDir(kind string) string {
	switch kind {
	case "image":
		return c.Paths.ImageSourceDir
	case "sound":
		return c.Paths.SoundSourceDir
	case "font":
		return c.Paths.FontSourceDir
	default:
		return ""
	}
}

// OutputDir returns the directory generated artifacts of kind are written to.
func (c *Config) OutputDir(kind string) string {
	switch kind {
	case "image":
		return c.Paths.ImageOutputDir
	case "sound":
		return c.Paths.SoundOutputDir
	case "font":
		return c.Paths.FontOutputDir
	default:
		return ""
	}
}

// StrictSound reports whether the sound pipeline runs in strict-match mode.
func (c *Config) StrictSound() bool {
	return c.Sound.Mode == SoundModeStrict
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// resolveUnder expands pathValue and anchors relative values at root.
func resolveUnder(root, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") || filepath.IsAbs(pathValue) {
		return expandPath(pathValue)
	}
	return expandPath(filepath.Join(root, pathValue))
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
