// Package swagger assembles per-endpoint OpenAPI fragments into one
// 3.0-shaped document: route normalization, merge, and a small set of
// targeted post-merge repairs.
package swagger

import "time"

// Operation is one OpenAPI operation object. Content is produced by the
// document-generation collaborator and treated as opaque JSON.
type Operation map[string]any

// PathItem maps lower-cased HTTP methods to operations.
type PathItem map[string]Operation

// Fragment is the collaborator's output for exactly one path.
type Fragment struct {
	Paths map[string]PathItem `json:"paths"`
}

// Info is the document metadata block.
type Info struct {
	Title           string `json:"title"`
	Version         string `json:"version"`
	Description     string `json:"description"`
	GeneratedAt     string `json:"generated_at"`
	CommitReference string `json:"commit_reference"`
	GithubRepoURL   string `json:"github_repo_url"`
}

// Server is one server entry.
type Server struct {
	URL string `json:"url"`
}

// Document is the accumulated OpenAPI document.
type Document struct {
	OpenAPI string              `json:"openapi"`
	Info    Info                `json:"info"`
	Servers []Server            `json:"servers"`
	Paths   map[string]PathItem `json:"paths"`
}

// NewDocument builds the document skeleton with generation metadata.
func NewDocument(title, host, commitReference, repoURL string) *Document {
	return &Document{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:           title,
			Version:         "1.0.0",
			Description:     "Generated API documentation.",
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			CommitReference: commitReference,
			GithubRepoURL:   repoURL,
		},
		Servers: []Server{{URL: host}},
		Paths:   map[string]PathItem{},
	}
}
