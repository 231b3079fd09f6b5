package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"assetgen/internal/services"
)

// Requirement defines an external dependency assetgen relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Candidate is one way of running a tool: a command plus fixed leading
// arguments.
type Candidate struct {
	Command string
	Args    []string
}

func (c Candidate) String() string {
	return strings.TrimSpace(strings.Join(append([]string{c.Command}, c.Args...), " "))
}

// Invocation is a resolved tool: the absolute command path and the leading
// arguments every call must carry.
type Invocation struct {
	Name    string
	Command string
	Args    []string
}

// With returns the full argument list for one call.
func (i Invocation) With(args ...string) []string {
	out := make([]string, 0, len(i.Args)+len(args))
	out = append(out, i.Args...)
	return append(out, args...)
}

func (i Invocation) String() string {
	return Candidate{Command: i.Command, Args: i.Args}.String()
}

// Resolve returns the first candidate whose command is found on PATH. When
// none is available the error carries services.ErrToolNotFound.
func Resolve(name string, candidates ...Candidate) (Invocation, error) {
	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		cmd := strings.TrimSpace(candidate.Command)
		if cmd == "" {
			continue
		}
		tried = append(tried, candidate.String())
		path, err := exec.LookPath(cmd)
		if err != nil {
			continue
		}
		return Invocation{
			Name:    name,
			Command: path,
			Args:    append([]string(nil), candidate.Args...),
		}, nil
	}
	message := "no command configured"
	if len(tried) > 0 {
		message = "tried " + strings.Join(tried, ", ")
	}
	return Invocation{}, services.Wrap(services.ErrToolNotFound, "", name, message, nil)
}

// ResolveBinary resolves a single configured command.
func ResolveBinary(name, command string) (Invocation, error) {
	return Resolve(name, Candidate{Command: command})
}

// ResolveFontConverter prefers a directly installed lv_font_conv and falls
// back to running it through npx.
func ResolveFontConverter(fontConv, npx string) (Invocation, error) {
	return Resolve("lv_font_conv",
		Candidate{Command: fontConv},
		Candidate{Command: npx, Args: []string{"--yes", "lv_font_conv"}},
	)
}
