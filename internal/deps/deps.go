package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency crosstalk relies on.
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

// Requirements returns the external binaries the pipeline executes.
func Requirements() []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Required for audio conversion",
		},
		{
			Name:        "FFprobe",
			Command:     "ffprobe",
			Description: "Required for media inspection",
		},
		{
			Name:        "uvx",
			Command:     "uvx",
			Description: "Required to run the Whisper and pyannote engines",
		},
	}
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
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		} else {
			status.Command = resolved
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
