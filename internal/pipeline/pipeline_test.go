package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qodex-ai/apimesh/internal/config"
	"github.com/qodex-ai/apimesh/internal/generator"
	"github.com/qodex-ai/apimesh/internal/git"
	"github.com/qodex-ai/apimesh/internal/inventory"
	"github.com/qodex-ai/apimesh/internal/swagger"
)

// Test Plan:
// - collectSourceFiles keeps supported extensions, skips ignore dirs and
//   glob-ignored paths, and never descends into the metadata cache dir
// - Run documents a detected endpoint end to end: normalized route in the
//   document, handler lines and dependency context in the generator request
// - Run skips files under node_modules
// - Run removes the metadata directory when it finishes
// - detectEndpoints drops records with undeterminable routes

// stubGenerator records requests and answers with a minimal fragment.
type stubGenerator struct {
	mu       sync.Mutex
	requests []generator.Request
}

func (s *stubGenerator) GenerateOperation(ctx context.Context, req generator.Request) (*swagger.Fragment, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return &swagger.Fragment{
		Paths: map[string]swagger.PathItem{
			req.Route: {
				strings.ToLower(req.Method): swagger.Operation{"summary": "stub " + req.Method + " " + req.Route},
			},
		},
	}, nil
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const routerSource = `const express = require('express');
const db = require('./db');
const app = express();

app.get('/widgets/:id', (req, res) => {
  const widget = loadWidget(req.params.id);
  res.json(widget);
});

function loadWidget(id) {
  return db.find(id);
}
`

const dbSource = `const db = {
  find(id) { return { id }; }
};
module.exports = db;
`

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Workers.Max = 2
	return cfg
}

func TestRun_DocumentsDetectedEndpoint(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "router.js", routerSource)
	writeFile(t, root, "db.js", dbSource)
	// Dependency trees are never scanned.
	writeFile(t, root, "node_modules/express/index.js", "app.get('/ignored', (req, res) => {});\n")

	stub := &stubGenerator{}
	gitOps := git.NewMockGitOps()
	gitOps.RepoName = "widget-service"
	gitOps.CommitHash = "deadbeef"

	p := New(testConfig(), stub, gitOps, nil)
	doc, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "3.0.0", doc.OpenAPI)
	assert.Equal(t, "widget-service", doc.Info.Title)
	assert.Equal(t, "deadbeef", doc.Info.CommitReference)

	require.Len(t, doc.Paths, 1)
	item, ok := doc.Paths["/widgets/{id}"]
	require.True(t, ok, "expected normalized route, got %v", doc.Paths)
	assert.Contains(t, item, "get")

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/widgets/{id}", req.Route)

	handler := strings.Join(req.HandlerLines, "\n")
	assert.Contains(t, handler, "app.get('/widgets/:id'")

	var blocks []string
	for _, block := range req.ContextBlocks {
		blocks = append(blocks, strings.Join(block, "\n"))
	}
	joined := strings.Join(blocks, "\n---\n")
	assert.Contains(t, joined, "function loadWidget(id)")
	assert.Contains(t, joined, "find(id) { return { id }; }")
}

func TestRun_RemovesMetadataDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "router.js", routerSource)
	writeFile(t, root, "db.js", dbSource)

	p := New(testConfig(), &stubGenerator{}, git.NewMockGitOps(), nil)
	_, err := p.Run(context.Background(), root)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(root, inventory.MetadataDirName))
	assert.True(t, os.IsNotExist(statErr), "metadata directory should be removed after the run")
}

func TestRun_EmptyTreeProducesSkeleton(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	gitOps := git.NewMockGitOps()
	gitOps.RepoName = "empty-repo"

	p := New(testConfig(), &stubGenerator{}, gitOps, nil)
	doc, err := p.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, "empty-repo", doc.Info.Title)
	assert.Empty(t, doc.Paths)
}

func TestCollectSourceFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "export {};\n")
	writeFile(t, root, "src/app.test.js", "test();\n")
	writeFile(t, root, "src/readme.md", "# nope\n")
	writeFile(t, root, "node_modules/pkg/index.js", "x();\n")
	writeFile(t, root, inventory.MetadataDirName+"/stale.js", "x();\n")

	scan := config.Default().Scan
	scan.Ignore = []string{"**.test.js"}

	files, err := collectSourceFiles(root, scan)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "src", "app.ts"), files[0])
}

func TestDetectEndpoints_DropsUndeterminableRoutes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "dynamic.js", "const app = express();\napp.get(`/v/${version}/items`, handler);\napp.get('/items', handler);\n")

	jobs := detectEndpoints([]string{filepath.Join(root, "dynamic.js")})

	require.Len(t, jobs, 1)
	assert.Equal(t, "/items", jobs[0].Route)
}
