// Package slicer assembles the minimal source context for one endpoint: the
// handler body, the in-file functions it calls, and the cross-file imported
// symbols it references.
package slicer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/qodex-ai/apimesh/internal/endpoints"
	"github.com/qodex-ai/apimesh/internal/inventory"
)

// httpVerbNames are never user functions; declarations with these names are
// excluded from dependency matching.
var httpVerbNames = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true, "patch": true,
}

// responderPattern finds a catch-all route-handling registration like
// app.use('/:name', ...). Its block carries response-shaping logic that
// individual handlers rely on implicitly.
var responderPattern = regexp.MustCompile(`\.use\s*\(\s*['"]/:`)

// Dependency is an in-file function the handler calls, with the call site
// and the chosen definition span.
type Dependency struct {
	Name              string
	FilePath          string
	CallStartLine     int
	CallEndLine       int
	FunctionStartLine int
	FunctionEndLine   int
}

// ContextBundle is the assembled source context for one endpoint. Blocks are
// literal source lines; the bundle may legitimately contain nothing beyond
// the handler's own body.
type ContextBundle struct {
	Handler       []string
	ContextBlocks [][]string
}

// Slice builds the context bundle for an endpoint from the read-only
// inventory snapshot. Missing inventories, unreadable origins and unlocated
// definitions are skipped, never fatal; only an unreadable owning file is an
// error.
func Slice(record endpoints.Record, snapshot *inventory.Snapshot) (*ContextBundle, error) {
	lines, err := readLines(record.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read endpoint source %s: %w", record.FilePath, err)
	}

	bundle := &ContextBundle{
		Handler: extractLines(lines, record.StartLine, record.EndLine),
	}

	inv, ok := snapshot.Get(record.FilePath)
	if ok {
		dependencies := inFileDependencies(inv, record)
		imports := relevantImports(inv, record, dependencies)

		for _, dep := range dependencies {
			depLines, err := readLines(dep.FilePath)
			if err != nil {
				continue
			}
			if block := extractLines(depLines, dep.FunctionStartLine, dep.FunctionEndLine); len(block) > 0 {
				bundle.ContextBlocks = append(bundle.ContextBlocks, block)
			}
		}

		for _, imp := range imports {
			if block := importedSymbolBlock(imp, snapshot); len(block) > 0 {
				bundle.ContextBlocks = append(bundle.ContextBlocks, block)
			}
		}
	}

	if block := responderBlock(lines); len(block) > 0 {
		bundle.ContextBlocks = append(bundle.ContextBlocks, block)
	}

	return bundle, nil
}

// inFileDependencies finds bare calls within the endpoint's span whose name
// matches a function declared in the same file, and locates each call's
// definition. Member calls are deliberately excluded: dependency lookup
// matches bare function names only.
func inFileDependencies(inv *inventory.FileInventory, record endpoints.Record) []Dependency {
	declared := make(map[string][]inventory.Symbol)
	for _, fn := range inv.Functions {
		if httpVerbNames[strings.ToLower(fn.Name)] {
			continue
		}
		declared[fn.Name] = append(declared[fn.Name], fn)
	}

	var dependencies []Dependency
	for _, call := range inv.FunctionCalls {
		if call.Type != inventory.KindFunctionCall {
			continue
		}
		candidates := declared[call.Name]
		if len(candidates) == 0 {
			continue
		}
		if call.StartLine < record.StartLine || call.EndLine > record.EndLine {
			continue
		}

		definition := chooseDefinition(candidates, call.StartLine)
		dep := Dependency{
			Name:          call.Name,
			FilePath:      record.FilePath,
			CallStartLine: call.StartLine,
			CallEndLine:   call.EndLine,
		}
		if definition != nil {
			dep.FunctionStartLine = definition.StartLine
			dep.FunctionEndLine = definition.EndLine
		} else {
			// Degenerate self-reference: no definition found anywhere.
			dep.FunctionStartLine = call.StartLine
			dep.FunctionEndLine = call.EndLine
		}
		dependencies = append(dependencies, dep)
	}
	return dependencies
}

// chooseDefinition disambiguates same-named declarations. Policy: prefer a
// declaration whose span contains the call line; otherwise the declaration
// with the largest start line not exceeding the call line (nearest
// preceding); otherwise the first declared. This tie-break is deliberate —
// a containing span is the enclosing scope, and a preceding declaration
// shadows later ones at the call site.
func chooseDefinition(candidates []inventory.Symbol, callLine int) *inventory.Symbol {
	sorted := make([]inventory.Symbol, len(candidates))
	copy(sorted, candidates)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].StartLine > sorted[j].StartLine; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	var chosen *inventory.Symbol
	for i := range sorted {
		candidate := &sorted[i]
		if candidate.StartLine <= callLine && callLine <= candidate.EndLine {
			return candidate
		}
		if candidate.StartLine <= callLine {
			chosen = candidate
		}
	}
	if chosen == nil && len(sorted) > 0 {
		chosen = &sorted[0]
	}
	return chosen
}

// relevantImports selects imports whose resolved origin exists on disk and
// whose usage lines fall inside the endpoint's range or inside an in-file
// dependency found in step 1 — either its call span or the definition block
// that will be bundled alongside the handler.
func relevantImports(inv *inventory.FileInventory, record endpoints.Record, dependencies []Dependency) []inventory.Import {
	var relevant []inventory.Import
	seen := make(map[int]bool)
	for i, imp := range inv.Imports {
		if !imp.PathExists {
			continue
		}
		for _, line := range imp.UsageLines {
			if seen[i] {
				break
			}
			if record.StartLine <= line && line <= record.EndLine {
				seen[i] = true
				relevant = append(relevant, imp)
				break
			}
			for _, dep := range dependencies {
				inCallSpan := dep.CallStartLine <= line && line <= dep.CallEndLine
				inDefinition := dep.FunctionStartLine <= line && line <= dep.FunctionEndLine
				if inCallSpan || inDefinition {
					seen[i] = true
					relevant = append(relevant, imp)
					break
				}
			}
		}
	}
	return relevant
}

// importedSymbolBlock extracts the declaration of an imported binding from
// its origin file, searching the origin's inventory classes first, then
// functions, then variables. Returns nil when the origin was never cached or
// no declaration matches.
func importedSymbolBlock(imp inventory.Import, snapshot *inventory.Snapshot) []string {
	originInv, ok := snapshot.Get(imp.Origin)
	if !ok {
		return nil
	}

	symbol := findDeclaration(originInv, imp.ImportedName)
	if symbol == nil {
		return nil
	}

	originLines, err := readLines(imp.Origin)
	if err != nil {
		return nil
	}
	return extractLines(originLines, symbol.StartLine, symbol.EndLine)
}

// findDeclaration searches classes, then functions, then variables.
func findDeclaration(inv *inventory.FileInventory, name string) *inventory.Symbol {
	for _, group := range [][]inventory.Symbol{inv.Classes, inv.Functions, inv.Variables} {
		for i := range group {
			if group[i].Name == name {
				return &group[i]
			}
		}
	}
	return nil
}

// responderBlock returns the brace-delimited block of a catch-all
// registration, when the file has one.
func responderBlock(lines []string) []string {
	for i, line := range lines {
		if responderPattern.MatchString(line) {
			return braceBlock(lines, i)
		}
	}
	return nil
}

// braceBlock collects lines from startIdx until the brace depth opened
// within the block returns to zero.
func braceBlock(lines []string, startIdx int) []string {
	var collected []string
	depth := 0
	started := false
	for _, line := range lines[startIdx:] {
		collected = append(collected, line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if strings.Contains(line, "{") {
			started = true
		}
		if started && depth <= 0 {
			break
		}
	}
	return collected
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

// extractLines returns lines from startLine to endLine, 1-based inclusive,
// clamped to the file.
func extractLines(lines []string, startLine, endLine int) []string {
	if startLine < 1 || endLine < 1 || startLine > len(lines) {
		return nil
	}
	end := endLine
	if end > len(lines) {
		end = len(lines)
	}
	return lines[startLine-1 : end]
}
