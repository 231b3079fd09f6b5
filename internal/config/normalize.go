package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeSound()
	c.normalizeManifest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Root, err = expandPath(strings.TrimSpace(c.Paths.Root)); err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	root := c.Paths.Root

	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.image_manifest", &c.Paths.ImageManifest, defaultImageManifest},
		{"paths.image_source_dir", &c.Paths.ImageSourceDir, defaultImageSourceDir},
		{"paths.image_output_dir", &c.Paths.ImageOutputDir, defaultImageOutputDir},
		{"paths.sound_manifest", &c.Paths.SoundManifest, defaultSoundManifest},
		{"paths.sound_source_dir", &c.Paths.SoundSourceDir, defaultSoundSourceDir},
		{"paths.sound_output_dir", &c.Paths.SoundOutputDir, defaultSoundOutputDir},
		{"paths.font_manifest", &c.Paths.FontManifest, defaultFontManifest},
		{"paths.font_source_dir", &c.Paths.FontSourceDir, defaultFontSourceDir},
		{"paths.font_output_dir", &c.Paths.FontOutputDir, defaultFontOutputDir},
		{"paths.lock_file", &c.Paths.LockFile, defaultLockFile},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		if *field.value, err = resolveUnder(root, *field.value); err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		if c.Logging.File, err = resolveUnder(root, file); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Rasterizer = strings.ToLower(strings.TrimSpace(c.Tools.Rasterizer))
	if c.Tools.Rasterizer == "" {
		c.Tools.Rasterizer = RasterizerBuiltin
	}
	commands := []struct {
		value    *string
		fallback string
	}{
		{&c.Tools.Resvg, defaultResvg},
		{&c.Tools.RsvgConvert, defaultRsvgConvert},
		{&c.Tools.FFmpeg, defaultFFmpeg},
		{&c.Tools.FFprobe, defaultFFprobe},
		{&c.Tools.FontConv, defaultFontConv},
		{&c.Tools.Npx, defaultNpx},
	}
	for _, cmd := range commands {
		*cmd.value = strings.TrimSpace(*cmd.value)
		if *cmd.value == "" {
			*cmd.value = cmd.fallback
		}
	}
}

func (c *Config) normalizeSound() {
	c.Sound.Mode = strings.ToLower(strings.TrimSpace(c.Sound.Mode))
	if c.Sound.Mode == "" {
		c.Sound.Mode = SoundModeConvert
	}
	if c.Sound.SampleRate == 0 {
		c.Sound.SampleRate = defaultSampleRate
	}
	if c.Sound.Channels == 0 {
		c.Sound.Channels = defaultChannels
	}
	if c.Sound.BitsPerSample == 0 {
		c.Sound.BitsPerSample = defaultBitsPerSample
	}
}

func (c *Config) normalizeManifest() {
	c.Manifest.DuplicatePolicy = strings.ToLower(strings.TrimSpace(c.Manifest.DuplicatePolicy))
	if c.Manifest.DuplicatePolicy == "" {
		c.Manifest.DuplicatePolicy = DuplicatePolicyWarn
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
