package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"assetgen/internal/config"
	"assetgen/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable too when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if write {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckOutputDirectory passes when path is a writable directory or can be
// created beneath its nearest existing ancestor.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path, true)
	}
	ancestor := filepath.Dir(path)
	for {
		if info, err := os.Stat(ancestor); err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, ancestor)}
			}
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckFile verifies that a regular file exists and is readable.
func CheckFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: unreadable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckSystemDeps evaluates the external tools for the given config. Both
// the doctor command and tests use this to avoid duplicating the list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	rasterOptional := cfg.Tools.Rasterizer != config.RasterizerResvg
	rsvgOptional := cfg.Tools.Rasterizer != config.RasterizerRsvgConvert
	requirements := []deps.Requirement{
		{
			Name:        "resvg",
			Command:     cfg.Tools.Resvg,
			Description: "SVG rasterizer (preferred)",
			Optional:    rasterOptional,
		},
		{
			Name:        "rsvg-convert",
			Command:     cfg.Tools.RsvgConvert,
			Description: "SVG rasterizer (fallback)",
			Optional:    rsvgOptional,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for sound decoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Required for sound inspection",
		},
		{
			Name:        "lv_font_conv",
			Command:     cfg.Tools.FontConv,
			Description: "Font converter",
			Optional:    true,
		},
		{
			Name:        "npx",
			Command:     cfg.Tools.Npx,
			Description: "Runs lv_font_conv when it is not installed",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

// CheckFontConverter reports how font jobs would be executed.
func CheckFontConverter(cfg *config.Config) Result {
	const name = "Font converter"
	inv, err := deps.ResolveFontConverter(cfg.Tools.FontConv, cfg.Tools.Npx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: inv.String()}
}
