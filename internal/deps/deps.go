package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"medialift/internal/config"
	"medialift/internal/faults"
)

// Requirement defines an external binary medialift invokes.
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
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries a run needs for cfg. The prober that is not
// selected is reported as optional.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Transcodes video, audio and images",
		},
		{
			Name:        "MediaInfo",
			Command:     cfg.Tools.MediaInfo,
			Description: "Reads bit rate, dimensions and duration",
			Optional:    cfg.Tools.Prober != config.ProberMediaInfo,
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Alternate media inspection backend",
			Optional:    cfg.Tools.Prober != config.ProberFFprobe,
		},
	}
	return reqs
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
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns an ErrToolInvocation naming every required binary
// that is unavailable, or nil.
func MissingRequired(statuses []Status) error {
	var missing []string
	for _, st := range statuses {
		if !st.Available && !st.Optional {
			missing = append(missing, fmt.Sprintf("%s (%s)", st.Name, st.Detail))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return faults.Wrap(faults.ErrToolInvocation, "deps", "check", "missing "+strings.Join(missing, ", "), nil)
}
