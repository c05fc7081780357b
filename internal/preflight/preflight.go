package preflight

import (
	"errors"
	"fmt"
	"strings"

	"medialift/internal/config"
	"medialift/internal/deps"
	"medialift/internal/faults"
	"medialift/internal/watermark"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Target is the set of paths a run will use.
type Target struct {
	Inputs    []string
	OutputDir string
	Watermark string
}

// RunAll executes every check for cfg and target: required tools, input
// readability, output writability, state directory access and the watermark.
func RunAll(cfg *config.Config, target Target) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, st := range deps.CheckBinaries(deps.Requirements(cfg)) {
		if st.Optional {
			continue
		}
		results = append(results, toolResult(st))
	}
	for _, input := range target.Inputs {
		results = append(results, CheckReadableDirectory("Input "+input, input))
	}
	results = append(results, CheckWritableTarget("Output directory", target.OutputDir))
	results = append(results, CheckWritableTarget("State directory", cfg.Paths.StateDir))
	if strings.TrimSpace(target.Watermark) != "" {
		results = append(results, CheckWatermark(target.Watermark))
	}
	return results
}

// Failed folds failing results into one error, or returns nil. Missing tools
// are tool invocation errors; everything else is a configuration error.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Passed {
			continue
		}
		marker := faults.ErrConfiguration
		if strings.HasPrefix(r.Detail, "binary ") || r.Detail == "command not configured" {
			marker = faults.ErrToolInvocation
		}
		errs = append(errs, faults.Wrap(marker, "preflight", r.Name, r.Detail, nil))
	}
	return errors.Join(errs...)
}

// CheckWatermark verifies the overlay image decodes.
func CheckWatermark(path string) Result {
	const name = "Watermark"
	info, err := watermark.Validate(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s %dx%d)", path, info.Format, info.Width, info.Height)}
}

func toolResult(st deps.Status) Result {
	if !st.Available {
		return Result{Name: st.Name, Detail: st.Detail}
	}
	return Result{Name: st.Name, Passed: true, Detail: st.Path}
}
