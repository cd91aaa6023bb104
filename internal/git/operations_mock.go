package git

import "fmt"

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	CommitHash string
	RemoteURL  string
	RepoName   string
}

// NewMockGitOps creates a mock with sensible defaults.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		CommitHash: "abc1234567890",
		RemoteURL:  "https://github.com/user/repo.git",
		RepoName:   "repo",
	}
}

func (m *MockGitOps) GetCommitHash(repoPath string) string {
	return m.CommitHash
}

func (m *MockGitOps) GetRemoteURL(repoPath string) string {
	return m.RemoteURL
}

func (m *MockGitOps) GetRepoName(repoPath string) string {
	return m.RepoName
}

// String returns a human-readable representation of the mock state.
func (m *MockGitOps) String() string {
	return fmt.Sprintf("MockGitOps{commit=%s, remote=%s, name=%s}",
		m.CommitHash, m.RemoteURL, m.RepoName)
}
