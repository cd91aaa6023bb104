package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qodex-ai/apimesh/internal/endpoints"
)

// Test Plan:
// - root command registers the generate, endpoints and version subcommands
// - endpoints command prints detected records as JSON
// - generate command fails fast without an API key

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["generate"])
	assert.True(t, names["endpoints"])
	assert.True(t, names["version"])
}

func TestEndpointsCommand_PrintsRecords(t *testing.T) {
	dir := t.TempDir()
	source := "const app = express();\napp.get('/widgets/:id', (req, res) => {\n  res.json({});\n});\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte(source), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"endpoints", "--dir", dir})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	var records []endpoints.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "GET", records[0].Method)
	assert.Equal(t, "/widgets/{id}", records[0].Route)
}

func TestGenerateCommand_RequiresAPIKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GEMINI_API_KEY", "")

	rootCmd.SetArgs([]string{"generate", "--dir", dir})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
