package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary photosort relies on.
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

// Requirements lists the binaries the given metadata backend needs.
// The pure-Go goexif backend needs none.
func Requirements(backend, exiftoolPath string) []Requirement {
	if strings.TrimSpace(backend) != "exiftool" {
		return nil
	}
	cmd := strings.TrimSpace(exiftoolPath)
	if cmd == "" {
		cmd = "exiftool"
	}
	return []Requirement{{
		Name:        "ExifTool",
		Command:     cmd,
		Description: "Required by the exiftool metadata backend",
	}}
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
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
