package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"assetgen/internal/config"
	"assetgen/internal/preflight"
	"assetgen/internal/raster"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check manifests, directories, and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			fmt.Fprintf(out, "Root: %s\n\n", cfg.Paths.Root)
			return runDoctor(out, cfg, isTerminal(out))
		},
	}
}

func runDoctor(out io.Writer, cfg *config.Config, tty bool) error {
	failures := 0

	checks := preflight.RunAll(cfg)
	checks = append(checks, preflight.CheckFontConverter(cfg))
	rows := make([][]string, 0, len(checks))
	for _, check := range checks {
		rows = append(rows, []string{check.Name, passFail(check.Passed), check.Detail})
	}
	fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil, !tty))

	statuses := preflight.CheckSystemDeps(cfg)
	rows = rows[:0]
	for _, status := range statuses {
		state := "ok"
		if !status.Available {
			state = "missing"
			if status.Optional {
				state = "missing (optional)"
			} else {
				failures++
			}
		}
		detail := status.Description
		if status.Detail != "" {
			detail = status.Detail
		}
		rows = append(rows, []string{status.Name, status.Command, state, detail})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status", "Detail"}, rows, nil, !tty))

	if r, err := raster.Select(cfg.Tools); err != nil {
		failures++
		fmt.Fprintf(out, "\nRasterizer: unavailable (%v)\n", err)
	} else {
		fmt.Fprintf(out, "\nRasterizer: %s\n", r.Name())
	}

	// Manifests and sources are optional until a kind is requested; only
	// unwritable output directories count.
	for _, check := range checks {
		if !check.Passed && !advisoryCheck(check) {
			failures++
		}
	}

	if failures > 0 {
		return errors.New("doctor found problems")
	}
	fmt.Fprintln(out, "All checks passed")
	return nil
}

func advisoryCheck(r preflight.Result) bool {
	return !strings.HasSuffix(r.Name, " output")
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
