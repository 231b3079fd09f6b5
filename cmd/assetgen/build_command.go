package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"assetgen/internal/manifest"
	"assetgen/internal/pipeline"
	"assetgen/internal/services"
)

type buildOptions struct {
	strict bool
	dryRun bool
	json   bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [images|sounds|fonts]...",
		Short: "Generate C sources for the requested asset kinds (all when omitted)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := make([]manifest.Kind, 0, len(args))
			for _, arg := range args {
				kind, err := manifest.ParseKind(arg)
				if err != nil {
					return err
				}
				kinds = append(kinds, kind)
			}
			return runBuild(cmd, ctx, kinds, opts)
		},
	}
	addBuildFlags(cmd, &opts)
	return cmd
}

// newKindShortcutCommands returns "images", "sounds" and "fonts", each an
// alias for build restricted to one kind.
func newKindShortcutCommands(ctx *commandContext) []*cobra.Command {
	shortcuts := []struct {
		use  string
		kind manifest.Kind
	}{
		{"images", manifest.KindImage},
		{"sounds", manifest.KindSound},
		{"fonts", manifest.KindFont},
	}
	commands := make([]*cobra.Command, 0, len(shortcuts))
	for _, sc := range shortcuts {
		var opts buildOptions
		kind := sc.kind
		cmd := &cobra.Command{
			Use:   sc.use,
			Short: fmt.Sprintf("Generate %s assets only", kind),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runBuild(cmd, ctx, []manifest.Kind{kind}, opts)
			},
		}
		addBuildFlags(cmd, &opts)
		commands = append(commands, cmd)
	}
	return commands
}

func addBuildFlags(cmd *cobra.Command, opts *buildOptions) {
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail sound jobs whose decoded format differs from the target instead of converting")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse manifests and resolve tools without converting anything")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Emit results as JSON")
}

func runBuild(cmd *cobra.Command, ctx *commandContext, kinds []manifest.Kind, opts buildOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	driver, err := pipeline.New(cfg, logger, pipeline.WithStrict(opts.strict))
	if err != nil {
		return err
	}
	plan, err := driver.Plan(kinds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		if opts.json {
			return writeJSON(cmd, planJSON(plan, cfg.Paths.Root))
		}
		printPlan(out, plan, cfg.Paths.Root, isTerminal(out))
		return nil
	}

	summary, err := driver.Run(cmd.Context(), plan)
	if err != nil {
		return err
	}
	if opts.json {
		if err := writeJSON(cmd, summaryJSON(summary, cfg.Paths.Root)); err != nil {
			return err
		}
		return summary.Err()
	}
	printSummary(out, summary, cfg.Paths.Root, isTerminal(out))
	return summary.Err()
}

func printPlan(out io.Writer, plan *pipeline.Plan, root string, tty bool) {
	if len(plan.Jobs) == 0 {
		fmt.Fprintln(out, "No jobs found")
		return
	}
	rows := make([][]string, 0, len(plan.Jobs))
	for _, job := range plan.Jobs {
		rows = append(rows, []string{
			string(job.Kind),
			fmt.Sprintf("%d", job.Index+1),
			job.Name,
			relativeTo(root, job.Source),
			relativeTo(root, job.Output),
		})
	}
	headers := []string{"Kind", "#", "Symbol", "Source", "Output"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, !tty))
	for _, kind := range manifest.AllKinds {
		if tool, ok := plan.Tools[kind]; ok && tool != "" {
			fmt.Fprintf(out, "%s tool: %s\n", kind, tool)
		}
	}
}

func printSummary(out io.Writer, summary *pipeline.Summary, root string, tty bool) {
	if len(summary.Results) == 0 {
		fmt.Fprintln(out, "No jobs found")
		return
	}
	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		rows = append(rows, []string{
			string(res.Kind),
			res.Name,
			relativeTo(root, res.Output),
			formatBytes(res),
			resultStatus(res),
			formatDuration(res.Duration),
		})
	}
	headers := []string{"Kind", "Symbol", "Output", "Bytes", "Status", "Time"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, !tty))

	if failed := summary.Failed(); failed > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Failures:")
		for _, res := range summary.Results {
			if res.OK() {
				continue
			}
			fmt.Fprintf(out, "  %s (%s): %v\n", res.Label, services.Category(res.Err), res.Err)
		}
	}
	fmt.Fprintf(out, "\n%d succeeded, %d failed in %s\n", summary.Succeeded(), summary.Failed(), formatDuration(summary.Duration))
}

func resultStatus(res pipeline.JobResult) string {
	switch {
	case !res.OK():
		return "failed"
	case res.Changed:
		return "written"
	default:
		return "unchanged"
	}
}

func formatBytes(res pipeline.JobResult) string {
	if !res.OK() || res.Bytes == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", res.Bytes)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	return d.Round(time.Millisecond).String()
}

func relativeTo(root, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "-"
	}
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
