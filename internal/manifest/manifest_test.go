package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"assetgen/internal/services"
)

func testDefaults() Defaults {
	return Defaults{
		SourceDir:     "/src",
		OutputDir:     "/out",
		SampleRate:    16000,
		Channels:      1,
		BitsPerSample: 16,
		HeadroomDB:    3.0,
	}
}

func TestParseImageDerivesSymbolAndOutput(t *testing.T) {
	data := []byte(`
[[image]]
source = "icons/wifi-strong.svg"
size = 24
usage = "status bar"

[[image]]
source = "battery.svg"
size = 32
symbol = "img_battery"
outfile = "custom/battery.c"
`)
	m, err := Parse(data, FormatTOML, KindImage, testDefaults(), "imagegen.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 image jobs, got %d", m.Len())
	}
	first := m.Images[0]
	if first.Symbol != "wifi_strong" {
		t.Fatalf("expected derived symbol wifi_strong, got %q", first.Symbol)
	}
	if first.Output != filepath.Join("/out", "wifi_strong.c") {
		t.Fatalf("unexpected output %q", first.Output)
	}
	if first.Source != filepath.Join("/src", "icons", "wifi-strong.svg") {
		t.Fatalf("unexpected source %q", first.Source)
	}
	if first.Size != 24 || first.Usage != "status bar" {
		t.Fatalf("unexpected job %+v", first)
	}
	second := m.Images[1]
	if second.Symbol != "img_battery" || second.Output != filepath.Join("/out", "custom", "battery.c") {
		t.Fatalf("unexpected job %+v", second)
	}
}

func TestParseImageRequiresSize(t *testing.T) {
	data := []byte("[[image]]\nsource = \"a.svg\"\n")
	_, err := Parse(data, FormatTOML, KindImage, testDefaults(), "imagegen.toml")
	if err == nil {
		t.Fatal("expected error for missing size")
	}
	if !errors.Is(err, services.ErrManifest) {
		t.Fatalf("expected manifest error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"size"`) || !strings.Contains(err.Error(), "entry 1") {
		t.Fatalf("error should name entry and field: %v", err)
	}
}

func TestParseImageRejectsNonPositiveSize(t *testing.T) {
	data := []byte("[[image]]\nsource = \"a.svg\"\nsize = 0\n")
	if _, err := Parse(data, FormatTOML, KindImage, testDefaults(), "imagegen.toml"); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestParseSoundAppliesDefaults(t *testing.T) {
	data := []byte(`
[[sound]]
source = "click.wav"
symbol = "snd_click"
`)
	m, err := Parse(data, FormatTOML, KindSound, testDefaults(), "soundgen.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	job := m.Sounds[0]
	if job.SampleRate != 16000 || job.Channels != 1 || job.BitsPerSample != 16 {
		t.Fatalf("defaults not applied: %+v", job)
	}
	if job.HeadroomDB != 3.0 {
		t.Fatalf("expected default headroom 3.0, got %v", job.HeadroomDB)
	}
	if job.Output != filepath.Join("/out", "snd_click.c") {
		t.Fatalf("unexpected output %q", job.Output)
	}
	if job.GainMode() != GainNone {
		t.Fatalf("expected no gain stage, got %s", job.GainMode())
	}
}

func TestParseSoundMissingSymbolFailsWholeManifest(t *testing.T) {
	data := []byte(`
[[sound]]
source = "ok.wav"
symbol = "snd_ok"

[[sound]]
source = "broken.wav"
`)
	m, err := Parse(data, FormatTOML, KindSound, testDefaults(), "soundgen.toml")
	if err == nil {
		t.Fatal("expected error for missing symbol")
	}
	if m != nil {
		t.Fatal("expected no manifest on failure")
	}
	if !services.IsBatchFatal(err) {
		t.Fatalf("missing symbol should be batch fatal: %v", err)
	}
	if !strings.Contains(err.Error(), "entry 2") || !strings.Contains(err.Error(), `"symbol"`) {
		t.Fatalf("error should name entry 2 and symbol: %v", err)
	}
}

func TestParseSoundRejectsInvalidBitDepth(t *testing.T) {
	data := []byte("[[sound]]\nsource = \"a.wav\"\nsymbol = \"a\"\nbits_per_sample = 12\n")
	_, err := Parse(data, FormatTOML, KindSound, testDefaults(), "soundgen.toml")
	if err == nil || !strings.Contains(err.Error(), "bits_per_sample") {
		t.Fatalf("expected bits_per_sample error, got %v", err)
	}
}

func TestParseSoundLoudnessTargetWins(t *testing.T) {
	data := []byte(`
[[sound]]
source = "a.wav"
symbol = "a"
target_dbfs = -14.0
normalize = true
headroom_db = 5
`)
	m, err := Parse(data, FormatTOML, KindSound, testDefaults(), "soundgen.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	job := m.Sounds[0]
	if job.GainMode() != GainLoudness {
		t.Fatalf("expected loudness gain mode, got %s", job.GainMode())
	}
	if job.TargetDBFS == nil || *job.TargetDBFS != -14.0 {
		t.Fatalf("unexpected target %v", job.TargetDBFS)
	}
	if job.HeadroomDB != 5 {
		t.Fatalf("expected headroom 5, got %v", job.HeadroomDB)
	}
}

func TestParseFontRequiresAllFields(t *testing.T) {
	data := []byte(`
[[font]]
source = "Inter.ttf"
size = 16
lv_name = "font_inter_16"
outfile = "font_inter_16.c"
`)
	_, err := Parse(data, FormatTOML, KindFont, testDefaults(), "fontgen.toml")
	if err == nil || !strings.Contains(err.Error(), `"symbols"`) {
		t.Fatalf("expected symbols error, got %v", err)
	}
}

func TestYAMLAndTOMLParseIdentically(t *testing.T) {
	tomlData := []byte(`
[[sound]]
source = "beep.mp3"
symbol = "snd_beep"
sample_rate = 22050
channels = 2
bits_per_sample = 8
normalize = true
usage = "alerts"
`)
	yamlData := []byte(`
sound:
  - source: beep.mp3
    symbol: snd_beep
    sample_rate: 22050
    channels: 2
    bits_per_sample: 8
    normalize: true
    usage: alerts
`)
	fromTOML, err := Parse(tomlData, FormatTOML, KindSound, testDefaults(), "soundgen.toml")
	if err != nil {
		t.Fatalf("toml parse: %v", err)
	}
	fromYAML, err := Parse(yamlData, FormatYAML, KindSound, testDefaults(), "soundgen.yaml")
	if err != nil {
		t.Fatalf("yaml parse: %v", err)
	}
	if !reflect.DeepEqual(fromTOML.Sounds, fromYAML.Sounds) {
		t.Fatalf("jobs differ:\ntoml=%+v\nyaml=%+v", fromTOML.Sounds, fromYAML.Sounds)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "imagegen.toml"), KindImage, testDefaults())
	if !errors.Is(err, ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}
	if !errors.Is(err, services.ErrManifest) {
		t.Fatalf("expected manifest marker, got %v", err)
	}
}

func TestLoadDetectsYAMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imagegen.yml")
	if err := os.WriteFile(path, []byte("image:\n  - source: a.svg\n    size: 16\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	m, err := Load(path, KindImage, testDefaults())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Path != path || m.Len() != 1 || m.Images[0].Size != 16 {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestEmptyManifestHasNoJobs(t *testing.T) {
	m, err := Parse([]byte(""), FormatTOML, KindFont, testDefaults(), "fontgen.toml")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no jobs, got %d", m.Len())
	}
}

func TestSymbolFromPath(t *testing.T) {
	cases := map[string]string{
		"icons/arrow-left.svg": "arrow_left",
		"3d-view.svg":          "_3d_view",
		"café menu.svg":        "cafe_menu",
		"plain.svg":            "plain",
	}
	for input, want := range cases {
		if got := SymbolFromPath(input); got != want {
			t.Fatalf("SymbolFromPath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{"images": KindImage, "Sound": KindSound, "fonts": KindFont} {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseKind("video"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestFindCollisions(t *testing.T) {
	images := &Manifest{Kind: KindImage, Images: []ImageJob{
		{Source: "/src/a.svg", Symbol: "icon", Output: "/out/icon.c"},
		{Source: "/src/b.svg", Symbol: "icon_b", Output: "/out/icon.c"},
	}}
	sounds := &Manifest{Kind: KindSound, Sounds: []SoundJob{
		{Source: "/src/a.wav", Symbol: "icon", Output: "/out/snd.c"},
	}}
	collisions := FindCollisions(images, sounds)
	if len(collisions) != 2 {
		t.Fatalf("expected 2 collisions, got %d: %v", len(collisions), collisions)
	}
	if collisions[0].Field != "output" || collisions[0].Value != "/out/icon.c" {
		t.Fatalf("unexpected first collision %+v", collisions[0])
	}
	if collisions[1].Field != "symbol" || collisions[1].Value != "icon" {
		t.Fatalf("unexpected second collision %+v", collisions[1])
	}
	if !strings.Contains(collisions[1].String(), "image #1") || !strings.Contains(collisions[1].String(), "sound #1") {
		t.Fatalf("collision message should name entries: %s", collisions[1])
	}
}
