// Package workdir maps project names to working directories.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver maps a project name to its working directory under a base
// directory. The base directory is resolved once at startup and injected —
// never read from the environment per call.
type Resolver struct {
	// BaseDir is the directory that holds all project checkouts.
	BaseDir string
	// Confirm is called before creating a missing project directory.
	// A nil Confirm declines creation. The prompt text is passed through.
	Confirm func(prompt string) bool
}

// Resolve returns the working directory for a project, creating it when it
// is missing and the user confirms. A declined creation is an error and no
// directory is created.
func (r *Resolver) Resolve(project string) (string, error) {
	if project == "" {
		return "", fmt.Errorf("project name is empty")
	}
	dir := filepath.Join(r.BaseDir, project)

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("%s exists but is not a directory", dir)
		}
		return dir, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}

	if r.Confirm == nil || !r.Confirm(fmt.Sprintf("directory %s does not exist, create it?", dir)) {
		return "", fmt.Errorf("directory %s does not exist", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultBaseDir returns the default projects directory, resolved once at
// startup: $AGENTMUX_PROJECTS if set, otherwise ~/projects.
func DefaultBaseDir() string {
	if v := os.Getenv("AGENTMUX_PROJECTS"); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "projects")
	}
	return "."
}
