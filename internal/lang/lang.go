// Package lang maps source file paths to the concrete tree-sitter grammar
// used to parse them.
package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Dialect identifies a concrete grammar variant.
type Dialect string

const (
	// JavaScript is the permissive plain-script grammar. It is the default
	// for any supported extension not claimed by a typed dialect.
	JavaScript Dialect = "javascript"
	// TypeScript is the typed-script grammar.
	TypeScript Dialect = "typescript"
	// TSX is the typed-script grammar with inline markup. It takes priority
	// over TypeScript when both could match.
	TSX Dialect = "tsx"
)

// SupportedExtensions is the full set of file extensions the pipeline scans.
var SupportedExtensions = []string{".js", ".cjs", ".mjs", ".ts", ".tsx", ".cts", ".mts"}

var (
	typescriptExtensions = map[string]bool{".ts": true, ".cts": true, ".mts": true}
	tsxExtensions        = map[string]bool{".tsx": true}
	supportedExtensions  = map[string]bool{}
)

func init() {
	for _, ext := range SupportedExtensions {
		supportedExtensions[ext] = true
	}
}

// IsSupported reports whether the file's extension belongs to the scanned set.
func IsSupported(filePath string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filePath))]
}

// Select returns the dialect for a file path. Selection is purely by
// extension, case-insensitive, and always succeeds for supported extensions.
func Select(filePath string) Dialect {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch {
	case tsxExtensions[ext]:
		return TSX
	case typescriptExtensions[ext]:
		return TypeScript
	default:
		return JavaScript
	}
}

// Typed reports whether the dialect uses a strict typed grammar. Typed
// dialects fall back to the plain grammar when the strict one rejects a file.
func (d Dialect) Typed() bool {
	return d == TypeScript || d == TSX
}

// Language returns the tree-sitter language for the dialect.
func (d Dialect) Language() *sitter.Language {
	switch d {
	case TSX:
		return sitter.NewLanguage(typescript.LanguageTSX())
	case TypeScript:
		return sitter.NewLanguage(typescript.LanguageTypescript())
	default:
		return sitter.NewLanguage(javascript.Language())
	}
}
