// Package git shells out to git for the repository metadata embedded in the
// generated document: commit hash, remote URL, and repository name.
package git

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Operations defines the interface for git lookups.
// This allows mocking git commands in tests.
type Operations interface {
	// GetCommitHash returns the full HEAD commit hash.
	// Returns "unknown" if the directory is not a repository.
	GetCommitHash(repoPath string) string

	// GetRemoteURL returns the git remote URL.
	// Tries 'origin' first, then falls back to first available remote.
	// Returns empty string if no remote configured.
	GetRemoteURL(repoPath string) string

	// GetRepoName returns the repository name derived from the remote URL,
	// falling back to the directory base name.
	GetRepoName(repoPath string) string
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) GetCommitHash(repoPath string) string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil || len(strings.TrimSpace(string(output))) == 0 {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

func (g *gitOps) GetRemoteURL(repoPath string) string {
	// Try 'origin' first
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err == nil && len(strings.TrimSpace(string(output))) > 0 {
		return strings.TrimSpace(string(output))
	}

	// Fallback: first remote
	cmd = exec.Command("git", "remote")
	cmd.Dir = repoPath
	output, err = cmd.Output()
	if err != nil {
		return ""
	}

	remotes := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(remotes) > 0 && remotes[0] != "" {
		cmd = exec.Command("git", "remote", "get-url", remotes[0])
		cmd.Dir = repoPath
		output, _ = cmd.Output()
		return strings.TrimSpace(string(output))
	}

	return ""
}

func (g *gitOps) GetRepoName(repoPath string) string {
	if remote := g.GetRemoteURL(repoPath); remote != "" {
		name := strings.TrimSuffix(filepath.Base(remote), ".git")
		if name != "" && name != "." && name != string(filepath.Separator) {
			return name
		}
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return filepath.Base(repoPath)
	}
	return filepath.Base(abs)
}
