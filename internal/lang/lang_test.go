package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Dialect
	}{
		{"server.js", JavaScript},
		{"lib/helpers.cjs", JavaScript},
		{"lib/helpers.mjs", JavaScript},
		{"src/app.ts", TypeScript},
		{"src/app.cts", TypeScript},
		{"src/app.mts", TypeScript},
		{"src/view.tsx", TSX},
		// Selection is case-insensitive.
		{"src/APP.TS", TypeScript},
		{"src/View.TSX", TSX},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Select(tt.path), "path %s", tt.path)
	}
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSupported("a/b/c.ts"))
	assert.True(t, IsSupported("a/b/c.MJS"))
	assert.False(t, IsSupported("a/b/c.py"))
	assert.False(t, IsSupported("a/b/noext"))
}

func TestTyped(t *testing.T) {
	t.Parallel()

	assert.False(t, JavaScript.Typed())
	assert.True(t, TypeScript.Typed())
	assert.True(t, TSX.Typed())
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	// Each dialect must yield a usable grammar.
	for _, d := range []Dialect{JavaScript, TypeScript, TSX} {
		require.NotNil(t, d.Language(), "dialect %s", d)
	}
}
