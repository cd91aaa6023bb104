package inventory

import (
	"os"
	"path/filepath"
	"strings"
)

// ExternalModule is the origin recorded for specifiers that are neither
// relative nor present under node_modules: runtime builtins and packages
// installed outside the scanned tree.
const ExternalModule = "<node_builtin_or_external>"

// relativeSearchSuffixes is probed in order against a relative specifier:
// direct source extensions first, then index files inside a directory of
// that name. The order mirrors Node's resolution preference for TypeScript
// projects.
var relativeSearchSuffixes = []string{
	".ts", ".tsx", ".cts", ".mts",
	".js", ".mjs", ".cjs",
	".d.ts",
	"/index.ts", "/index.tsx", "/index.cts", "/index.mts",
	"/index.js", "/index.mjs", "/index.cjs",
}

// ResolveOrigin computes where an import specifier points, the way the Node
// runtime would, without reading any file contents.
//
// Relative specifiers are joined to baseDirectory and probed with each
// suffix; the first existing path wins. A relative specifier with no match
// resolves to "" (not found), which is distinct from ExternalModule. Bare
// specifiers resolve to a node_modules directory beneath baseDirectory when
// one exists, otherwise to ExternalModule. Never fails.
func ResolveOrigin(specifier, baseDirectory string) string {
	if strings.HasPrefix(specifier, ".") {
		joined := filepath.Join(baseDirectory, specifier)
		for _, suffix := range relativeSearchSuffixes {
			candidate := joined + suffix
			if _, err := os.Stat(candidate); err == nil {
				if abs, err := filepath.Abs(candidate); err == nil {
					return abs
				}
				return candidate
			}
		}
		return ""
	}

	nodeModulePath := filepath.Join(baseDirectory, "node_modules", specifier)
	if _, err := os.Stat(nodeModulePath); err == nil {
		if abs, err := filepath.Abs(nodeModulePath); err == nil {
			return abs
		}
		return nodeModulePath
	}

	return ExternalModule
}

// OriginOnDisk reports whether a resolved origin is a real file or directory,
// as opposed to the external sentinel or a resolution miss.
func OriginOnDisk(origin string) bool {
	if origin == "" || origin == ExternalModule {
		return false
	}
	_, err := os.Stat(origin)
	return err == nil
}
