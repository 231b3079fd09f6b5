package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateSound(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.Root == "" {
		return errors.New("paths.root must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	switch c.Tools.Rasterizer {
	case RasterizerAuto, RasterizerResvg, RasterizerRsvgConvert, RasterizerBuiltin:
		return nil
	default:
		return fmt.Errorf("tools.rasterizer must be one of auto, resvg, rsvg-convert, builtin (got %q)", c.Tools.Rasterizer)
	}
}

func (c *Config) validateSound() error {
	switch c.Sound.Mode {
	case SoundModeConvert, SoundModeStrict:
	default:
		return fmt.Errorf("sound.mode must be %q or %q (got %q)", SoundModeConvert, SoundModeStrict, c.Sound.Mode)
	}
	if c.Sound.SampleRate <= 0 {
		return errors.New("sound.sample_rate must be positive")
	}
	if c.Sound.Channels < 1 || c.Sound.Channels > 2 {
		return errors.New("sound.channels must be 1 or 2")
	}
	switch c.Sound.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("sound.bits_per_sample must be 8, 16, 24, or 32 (got %d)", c.Sound.BitsPerSample)
	}
	if c.Sound.HeadroomDB < 0 {
		return errors.New("sound.headroom_db must be >= 0")
	}
	return nil
}

func (c *Config) validateManifest() error {
	switch c.Manifest.DuplicatePolicy {
	case DuplicatePolicyWarn, DuplicatePolicyError:
		return nil
	default:
		return fmt.Errorf("manifest.duplicate_policy must be %q or %q (got %q)", DuplicatePolicyWarn, DuplicatePolicyError, c.Manifest.DuplicatePolicy)
	}
}
