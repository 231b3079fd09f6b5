package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"assetgen/internal/config"
	"assetgen/internal/logging"
	"assetgen/internal/services"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Debug("debug message")
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without source")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no source information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with source")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected source location in debug-level logger output, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersSubjectAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithKind(context.Background(), "sound")
	ctx = services.WithJob(ctx, "boot_chime")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "soundgen"))
	logger.Info("converted", logging.Int("bytes", 3200), logging.String("usage", "startup sound"))

	line := buf.String()
	for _, fragment := range []string{"INFO soundgen: [sound/boot_chime] converted", "bytes=3200", `usage="startup sound"`} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "run-1")
	logging.WithContext(ctx, logger).Warn("collision", logging.String("symbol", "icon"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload["level"] != "warn" || payload["msg"] != "collision" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload[logging.FieldRunID] != "run-1" {
		t.Fatalf("expected run id in payload: %#v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key: %#v", payload)
	}
}

func TestJSONLoggerKeepsAssetSourceApartFromCaller(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("sound converted",
		logging.String("source", "assets/audio/click.wav"),
		logging.Duration("elapsed", 1500*time.Microsecond),
	)

	line := buf.String()
	if n := strings.Count(line, `"source":`); n != 1 {
		t.Fatalf("expected one source key, got %d in %q", n, line)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, line)
	}
	if payload["source"] != "assets/audio/click.wav" {
		t.Fatalf("expected asset source, got %#v", payload["source"])
	}
	caller, _ := payload[logging.FieldCaller].(string)
	if !strings.HasPrefix(caller, "logger_test.go:") {
		t.Fatalf("expected caller location, got %#v", payload[logging.FieldCaller])
	}
	if payload["elapsed_ms"] != 1.5 {
		t.Fatalf("expected elapsed_ms 1.5, got %#v", payload["elapsed_ms"])
	}
	if _, ok := payload["elapsed"]; ok {
		t.Fatalf("raw duration should be replaced: %#v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("expected nop logger to be disabled")
	}
}

func TestFileReceivesDebugRecords(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "build.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Writer: &console, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("rasterized", logging.String("symbol", "wifi_on"))
	logger.Warn("collision", logging.String("symbol", "wifi_on"))

	if strings.Contains(console.String(), "rasterized") {
		t.Fatalf("console should honour warn level, got %q", console.String())
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 json lines, got %d: %q", len(lines), content)
	}
	if !strings.Contains(lines[0], `"msg":"rasterized"`) {
		t.Fatalf("expected debug record in file, got %q", lines[0])
	}
}
