package inventory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the extractor:
// - Extract functions, variables, calls and imports from a JavaScript file
// - Resolve require/import origins against the base directory
// - Record usage lines for imported bindings, excluding the import line
// - Verify every span satisfies end >= start >= 1
// - Extract TypeScript classes (typed grammar names them differently)
// - Survive a typed file with a malformed annotation (permissive fallback)
// - Produce byte-identical inventories on repeated runs

const routerSource = `const db = require('./db');
import helper from './helper';

function loadWidget(id) {
  return db.find(id);
}

function validate(x) {
  return helper(x);
}

router.get('/widgets/:id', (req, res) => {
  validate(req.params.id);
  res.json(loadWidget(req.params.id));
});
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixtureTree(t *testing.T) (dir, routerPath string) {
	t.Helper()
	dir = t.TempDir()
	routerPath = writeFixture(t, dir, "router.js", routerSource)
	writeFixture(t, dir, "db.js", "const db = { find(id) { return id; } };\nmodule.exports = db;\n")
	writeFixture(t, dir, "helper.ts", "export default function helper(x: string): string {\n  return x;\n}\n")
	return dir, routerPath
}

func findSymbol(symbols []Symbol, name string) *Symbol {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
	}
	return nil
}

func findImport(imports []Import, name string) *Import {
	for i := range imports {
		if imports[i].ImportedName == name {
			return &imports[i]
		}
	}
	return nil
}

func TestExtract_JavaScript(t *testing.T) {
	t.Parallel()

	dir, routerPath := fixtureTree(t)
	inv, err := Extract(routerPath, dir)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, routerPath, inv.FilePath)

	loadWidget := findSymbol(inv.Functions, "loadWidget")
	require.NotNil(t, loadWidget, "loadWidget not extracted")
	assert.Equal(t, 4, loadWidget.StartLine)
	assert.Equal(t, 6, loadWidget.EndLine)

	validate := findSymbol(inv.Functions, "validate")
	require.NotNil(t, validate)
	assert.Equal(t, 8, validate.StartLine)
	assert.Equal(t, 10, validate.EndLine)

	dbVar := findSymbol(inv.Variables, "db")
	require.NotNil(t, dbVar, "require assignment should still be a variable")
	assert.Equal(t, 1, dbVar.StartLine)

	// Call sites: bare calls and method calls, discriminated by kind.
	var names = map[string]string{}
	for _, call := range inv.FunctionCalls {
		names[call.Name] = call.Type
	}
	assert.Equal(t, KindFunctionCall, names["validate"])
	assert.Equal(t, KindFunctionCall, names["loadWidget"])
	assert.Equal(t, KindFunctionCall, names["require"])
	assert.Equal(t, KindMethodCall, names["get"])
	assert.Equal(t, KindMethodCall, names["find"])
	assert.Equal(t, KindMethodCall, names["json"])
}

func TestExtract_Imports(t *testing.T) {
	t.Parallel()

	dir, routerPath := fixtureTree(t)
	inv, err := Extract(routerPath, dir)
	require.NoError(t, err)

	dbImport := findImport(inv.Imports, "db")
	require.NotNil(t, dbImport)
	assert.Equal(t, "./db", dbImport.FromModule)
	assert.True(t, dbImport.PathExists)
	expected, _ := filepath.Abs(filepath.Join(dir, "db.js"))
	assert.Equal(t, expected, dbImport.Origin)
	assert.Equal(t, []int{5}, dbImport.UsageLines)

	helperImport := findImport(inv.Imports, "helper")
	require.NotNil(t, helperImport)
	assert.Equal(t, "./helper", helperImport.FromModule)
	assert.True(t, helperImport.PathExists)
	assert.Equal(t, []int{9}, helperImport.UsageLines)
}

func TestExtract_SpanInvariant(t *testing.T) {
	t.Parallel()

	dir, routerPath := fixtureTree(t)
	inv, err := Extract(routerPath, dir)
	require.NoError(t, err)

	check := func(start, end int, what string) {
		assert.GreaterOrEqual(t, start, 1, what)
		assert.GreaterOrEqual(t, end, start, what)
	}
	for _, s := range inv.Classes {
		check(s.StartLine, s.EndLine, "class "+s.Name)
	}
	for _, s := range inv.Functions {
		check(s.StartLine, s.EndLine, "function "+s.Name)
	}
	for _, s := range inv.Variables {
		check(s.StartLine, s.EndLine, "variable "+s.Name)
	}
	for _, c := range inv.FunctionCalls {
		check(c.StartLine, c.EndLine, "call "+c.Name)
	}
}

func TestExtract_TypeScriptClass(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFixture(t, dir, "service.ts", `export class UserService {
  find(id: string): string {
    return id;
  }
}

class Repo {}
`)
	inv, err := Extract(path, dir)
	require.NoError(t, err)

	require.NotNil(t, findSymbol(inv.Classes, "UserService"))
	require.NotNil(t, findSymbol(inv.Classes, "Repo"))
}

func TestExtract_TypedFallbackSalvagesFunctions(t *testing.T) {
	t.Parallel()

	// A deliberately malformed annotation must not make extraction fail;
	// function names are still reported.
	dir := t.TempDir()
	path := writeFixture(t, dir, "broken.ts", `function greet(name: string): string {
  return 'hi ' + name;
}

function broken(x: ???) {
  return x;
}
`)
	inv, err := Extract(path, dir)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.NotNil(t, findSymbol(inv.Functions, "greet"))
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	dir, routerPath := fixtureTree(t)

	first, err := Extract(routerPath, dir)
	require.NoError(t, err)
	second, err := Extract(routerPath, dir)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Extract(filepath.Join(t.TempDir(), "nope.js"), "")
	require.Error(t, err)
}
