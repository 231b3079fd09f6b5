package config

const (
	// SoundModeConvert resamples, remixes, and requantizes as needed.
	SoundModeConvert = "convert"
	// SoundModeStrict fails sound jobs whose decoded format differs from the target.
	SoundModeStrict = "strict"

	// RasterizerAuto tries resvg, then rsvg-convert, then the builtin renderer.
	// Output then depends on which tools the host has installed.
	RasterizerAuto        = "auto"
	RasterizerResvg       = "resvg"
	RasterizerRsvgConvert = "rsvg-convert"
	RasterizerBuiltin     = "builtin"

	DuplicatePolicyWarn  = "warn"
	DuplicatePolicyError = "error"
)

const (
	defaultImageManifest  = "assets/images/imagegen.toml"
	defaultImageSourceDir = "assets/images"
	defaultImageOutputDir = "main/assets/images"
	defaultSoundManifest  = "assets/audio/soundgen.toml"
	defaultSoundSourceDir = "assets/audio"
	defaultSoundOutputDir = "main/assets/audio"
	defaultFontManifest   = "assets/fonts/fontgen.toml"
	defaultFontSourceDir  = "assets/fonts"
	defaultFontOutputDir  = "main/assets/fonts"
	defaultLockFile       = ".assetgen.lock"

	defaultResvg       = "resvg"
	defaultRsvgConvert = "rsvg-convert"
	defaultFFmpeg      = "ffmpeg"
	defaultFFprobe     = "ffprobe"
	defaultFontConv    = "lv_font_conv"
	defaultNpx         = "npx"

	defaultSampleRate    = 16000
	defaultChannels      = 1
	defaultBitsPerSample = 16
	defaultHeadroomDB    = 3.0

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults. Paths are
// relative until Load resolves them against the project root.
func Default() Config {
	return Config{
		Paths: Paths{
			ImageManifest:  defaultImageManifest,
			ImageSourceDir: defaultImageSourceDir,
			ImageOutputDir: defaultImageOutputDir,
			SoundManifest:  defaultSoundManifest,
			SoundSourceDir: defaultSoundSourceDir,
			SoundOutputDir: defaultSoundOutputDir,
			FontManifest:   defaultFontManifest,
			FontSourceDir:  defaultFontSourceDir,
			FontOutputDir:  defaultFontOutputDir,
			LockFile:       defaultLockFile,
		},
		Tools: Tools{
			Rasterizer:  RasterizerBuiltin,
			Resvg:       defaultResvg,
			RsvgConvert: defaultRsvgConvert,
			FFmpeg:      defaultFFmpeg,
			FFprobe:     defaultFFprobe,
			FontConv:    defaultFontConv,
			Npx:         defaultNpx,
		},
		Sound: Sound{
			Mode:          SoundModeConvert,
			SampleRate:    defaultSampleRate,
			Channels:      defaultChannels,
			BitsPerSample: defaultBitsPerSample,
			HeadroomDB:    defaultHeadroomDB,
		},
		Manifest: Manifest{
			DuplicatePolicy: DuplicatePolicyWarn,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
