package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"assetgen/internal/pipeline"
	"assetgen/internal/services"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type jobJSON struct {
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	Symbol string `json:"symbol"`
	Source string `json:"source"`
	Output string `json:"output"`
}

type planOutput struct {
	Jobs       []jobJSON         `json:"jobs"`
	Collisions []string          `json:"collisions,omitempty"`
	Tools      map[string]string `json:"tools,omitempty"`
}

func planJSON(plan *pipeline.Plan, root string) planOutput {
	out := planOutput{Jobs: make([]jobJSON, 0, len(plan.Jobs))}
	for _, job := range plan.Jobs {
		out.Jobs = append(out.Jobs, jobJSON{
			Kind:   string(job.Kind),
			Index:  job.Index + 1,
			Symbol: job.Name,
			Source: relativeTo(root, job.Source),
			Output: relativeTo(root, job.Output),
		})
	}
	for _, c := range plan.Collisions {
		out.Collisions = append(out.Collisions, c.String())
	}
	if len(plan.Tools) > 0 {
		out.Tools = make(map[string]string, len(plan.Tools))
		for kind, tool := range plan.Tools {
			out.Tools[string(kind)] = tool
		}
	}
	return out
}

type resultJSON struct {
	Kind       string `json:"kind"`
	Symbol     string `json:"symbol"`
	Output     string `json:"output"`
	Bytes      int    `json:"bytes"`
	Changed    bool   `json:"changed"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Category   string `json:"category,omitempty"`
}

type summaryOutput struct {
	RunID     string       `json:"run_id"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []resultJSON `json:"results"`
}

func summaryJSON(summary *pipeline.Summary, root string) summaryOutput {
	out := summaryOutput{
		RunID:     summary.RunID,
		Succeeded: summary.Succeeded(),
		Failed:    summary.Failed(),
		Results:   make([]resultJSON, 0, len(summary.Results)),
	}
	for _, res := range summary.Results {
		entry := resultJSON{
			Kind:       string(res.Kind),
			Symbol:     res.Name,
			Output:     relativeTo(root, res.Output),
			Bytes:      res.Bytes,
			Changed:    res.Changed,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
			entry.Category = services.Category(res.Err)
		}
		out.Results = append(out.Results, entry)
	}
	return out
}
