package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/qodex-ai/apimesh/internal/lang"
)

// ParseError is returned when no grammar could produce a structural tree for
// a file. Typed-dialect files are retried with the permissive plain grammar
// first, so this surfaces only when every applicable grammar failed.
type ParseError struct {
	Path    string
	Dialect lang.Dialect
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Path, e.Dialect, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// importedNameSentinel marks imports that bind no single identifier
// (namespace-style and side-effect imports).
const importedNameSentinel = "require"

// structuralQuery returns the capture query for a dialect. The typed grammar
// names classes with type_identifier nodes, the plain grammar with
// identifier nodes; everything else is shared.
func structuralQuery(d lang.Dialect) string {
	classNameKind := "identifier"
	if d.Typed() {
		classNameKind = "type_identifier"
	}
	return fmt.Sprintf(`
(class_declaration
  name: (%s) @class-name) @class

(function_declaration
  name: (identifier) @func-name) @function

(variable_declarator
  name: (identifier) @var-name) @variable

(call_expression
  function: (identifier) @called-func) @func-call

(call_expression
  function: (member_expression
    property: (property_identifier) @method-name)) @method-call

(import_statement
  (import_clause (identifier) @imported-symbol)?
  source: (string) @import-source) @import

(variable_declarator
  name: (identifier) @require-name
  value: (call_expression
    function: (identifier) @require-func
    arguments: (arguments (string) @require-source))) @require
`, classNameKind)
}

// Extract parses one file and builds its inventory. Import specifiers are
// resolved against baseDirectory (the scanned root); when baseDirectory is
// empty the file's own directory is used.
//
// If the structural query fails for a typed dialect the extraction is
// retried once with the plain grammar: the strict grammars reject syntax the
// permissive one accepts, and partial metadata beats none. For plain-script
// files a failure propagates as *ParseError.
func Extract(filePath, baseDirectory string) (*FileInventory, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	if baseDirectory == "" {
		baseDirectory = filepath.Dir(filePath)
	}

	dialect := lang.Select(filePath)
	inv, err := extractWith(filePath, source, baseDirectory, dialect)
	if err != nil && dialect.Typed() {
		return extractWith(filePath, source, baseDirectory, lang.JavaScript)
	}
	return inv, err
}

func extractWith(filePath string, source []byte, baseDirectory string, dialect lang.Dialect) (*FileInventory, error) {
	language := dialect.Language()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: filePath, Dialect: dialect, Err: fmt.Errorf("parser produced no tree")}
	}
	defer tree.Close()

	query, qerr := sitter.NewQuery(language, structuralQuery(dialect))
	if qerr != nil {
		return nil, &ParseError{Path: filePath, Dialect: dialect, Err: qerr}
	}
	defer query.Close()

	inv := &FileInventory{
		FilePath:      filePath,
		Classes:       []Symbol{},
		Functions:     []Symbol{},
		Variables:     []Symbol{},
		FunctionCalls: []Call{},
		Imports:       []Import{},
	}

	captureNames := query.CaptureNames()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, tree.RootNode(), source)

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		captured := make(map[string]sitter.Node, 4)
		for _, c := range match.Captures {
			captured[captureNames[c.Index]] = c.Node
		}

		switch {
		case hasCapture(captured, "class"):
			inv.Classes = append(inv.Classes, symbolFromCaptures(captured, "class", "class-name", source, KindClass))
		case hasCapture(captured, "function"):
			inv.Functions = append(inv.Functions, symbolFromCaptures(captured, "function", "func-name", source, KindFunction))
		case hasCapture(captured, "require"):
			// The declarator itself is also matched by the variable
			// pattern, so only the import is recorded here.
			if imp, ok := requireImport(captured, source); ok {
				inv.Imports = append(inv.Imports, imp)
			}
		case hasCapture(captured, "variable"):
			inv.Variables = append(inv.Variables, symbolFromCaptures(captured, "variable", "var-name", source, KindVariable))
		case hasCapture(captured, "func-call"):
			inv.FunctionCalls = append(inv.FunctionCalls, callFromCaptures(captured, "func-call", "called-func", source, KindFunctionCall))
		case hasCapture(captured, "method-call"):
			inv.FunctionCalls = append(inv.FunctionCalls, callFromCaptures(captured, "method-call", "method-name", source, KindMethodCall))
		case hasCapture(captured, "import"):
			inv.Imports = append(inv.Imports, moduleImport(captured, source))
		}
	}

	for i := range inv.Imports {
		origin := ResolveOrigin(inv.Imports[i].FromModule, baseDirectory)
		inv.Imports[i].Origin = origin
		inv.Imports[i].PathExists = OriginOnDisk(origin)
	}

	recordImportUsages(inv, tree.RootNode(), language, source)

	return inv, nil
}

func hasCapture(captured map[string]sitter.Node, name string) bool {
	_, ok := captured[name]
	return ok
}

func symbolFromCaptures(captured map[string]sitter.Node, spanCapture, nameCapture string, source []byte, kind string) Symbol {
	span := captured[spanCapture]
	name := captured[nameCapture]
	return Symbol{
		Type:      kind,
		Name:      nodeText(&name, source),
		StartLine: int(span.StartPosition().Row) + 1,
		EndLine:   int(span.EndPosition().Row) + 1,
	}
}

func callFromCaptures(captured map[string]sitter.Node, spanCapture, nameCapture string, source []byte, kind string) Call {
	span := captured[spanCapture]
	name := captured[nameCapture]
	return Call{
		Type:      kind,
		Name:      nodeText(&name, source),
		StartLine: int(span.StartPosition().Row) + 1,
		EndLine:   int(span.EndPosition().Row) + 1,
	}
}

// moduleImport builds an Import from an ES-module import statement. Imports
// without a default binding record the sentinel name.
func moduleImport(captured map[string]sitter.Node, source []byte) Import {
	sourceNode := captured["import-source"]
	importedName := importedNameSentinel
	if nameNode, ok := captured["imported-symbol"]; ok {
		importedName = nodeText(&nameNode, source)
	}
	return Import{
		Type:         "import",
		ImportedName: importedName,
		FromModule:   unquote(nodeText(&sourceNode, source)),
		Line:         int(sourceNode.StartPosition().Row) + 1,
		UsageLines:   []int{},
	}
}

// requireImport builds an Import from `const x = require("mod")`. Calls to
// functions other than require are not imports.
func requireImport(captured map[string]sitter.Node, source []byte) (Import, bool) {
	funcNode := captured["require-func"]
	if nodeText(&funcNode, source) != "require" {
		return Import{}, false
	}
	nameNode := captured["require-name"]
	sourceNode := captured["require-source"]
	return Import{
		Type:         "import",
		ImportedName: nodeText(&nameNode, source),
		FromModule:   unquote(nodeText(&sourceNode, source)),
		Line:         int(sourceNode.StartPosition().Row) + 1,
		UsageLines:   []int{},
	}, true
}

// recordImportUsages scans every identifier occurrence in the file and
// records, per import, the lines where its bound name reappears. The
// import's own declaration line is excluded.
func recordImportUsages(inv *FileInventory, root *sitter.Node, language *sitter.Language, source []byte) {
	if len(inv.Imports) == 0 {
		return
	}

	importedNames := make(map[string]bool, len(inv.Imports))
	for _, imp := range inv.Imports {
		if imp.ImportedName != "" && imp.ImportedName != importedNameSentinel {
			importedNames[imp.ImportedName] = true
		}
	}
	if len(importedNames) == 0 {
		return
	}

	query, qerr := sitter.NewQuery(language, "(identifier) @ident")
	if qerr != nil {
		return
	}
	defer query.Close()

	usageLines := make(map[string]map[int]bool)
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, root, source)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, c := range match.Captures {
			node := c.Node
			name := nodeText(&node, source)
			if !importedNames[name] {
				continue
			}
			if usageLines[name] == nil {
				usageLines[name] = make(map[int]bool)
			}
			usageLines[name][int(node.StartPosition().Row)+1] = true
		}
	}

	for i := range inv.Imports {
		imp := &inv.Imports[i]
		lines := usageLines[imp.ImportedName]
		if lines == nil {
			continue
		}
		for line := range lines {
			if line != imp.Line {
				imp.UsageLines = append(imp.UsageLines, line)
			}
		}
		sort.Ints(imp.UsageLines)
	}
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// unquote strips one layer of matching string delimiters.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
