package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrigin_RelativeSibling(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	helper := filepath.Join(dir, "helpers.ts")
	require.NoError(t, os.WriteFile(helper, []byte("export const x = 1;\n"), 0o644))

	expected, err := filepath.Abs(helper)
	require.NoError(t, err)
	assert.Equal(t, expected, ResolveOrigin("./helpers", dir))
}

func TestResolveOrigin_ExtensionPriority(t *testing.T) {
	t.Parallel()

	// .ts wins over .js when both exist.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.js"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.ts"), []byte(""), 0o644))

	origin := ResolveOrigin("./util", dir)
	assert.Equal(t, ".ts", filepath.Ext(origin))
}

func TestResolveOrigin_IndexFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	index := filepath.Join(dir, "lib", "index.js")
	require.NoError(t, os.WriteFile(index, []byte(""), 0o644))

	expected, err := filepath.Abs(index)
	require.NoError(t, err)
	assert.Equal(t, expected, ResolveOrigin("./lib", dir))
}

func TestResolveOrigin_RelativeMiss(t *testing.T) {
	t.Parallel()

	// A missed relative specifier is "not found", never the external sentinel.
	assert.Equal(t, "", ResolveOrigin("./missing", t.TempDir()))
}

func TestResolveOrigin_External(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExternalModule, ResolveOrigin("lodash", t.TempDir()))
	assert.Equal(t, ExternalModule, ResolveOrigin("fs", t.TempDir()))
}

func TestResolveOrigin_NodeModules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pkg := filepath.Join(dir, "node_modules", "lodash")
	require.NoError(t, os.MkdirAll(pkg, 0o755))

	expected, err := filepath.Abs(pkg)
	require.NoError(t, err)
	assert.Equal(t, expected, ResolveOrigin("lodash", dir))
}

func TestOriginOnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	assert.True(t, OriginOnDisk(file))
	assert.False(t, OriginOnDisk(""))
	assert.False(t, OriginOnDisk(ExternalModule))
	assert.False(t, OriginOnDisk(filepath.Join(dir, "gone.js")))
}
