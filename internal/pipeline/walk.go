package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/qodex-ai/apimesh/internal/config"
	"github.com/qodex-ai/apimesh/internal/inventory"
	"github.com/qodex-ai/apimesh/internal/lang"
)

// collectSourceFiles walks rootDir and returns the absolute paths of every
// JavaScript/TypeScript file that survives the ignore rules. Directory names
// in scan.IgnoreDirs are skipped wherever they appear; scan.Ignore patterns
// match against the root-relative slash path. The transient metadata
// directory is always skipped so a run never scans its own cache.
func collectSourceFiles(rootDir string, scan config.ScanConfig) ([]string, error) {
	ignorePatterns := make([]glob.Glob, 0, len(scan.Ignore))
	for _, pattern := range scan.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		ignorePatterns = append(ignorePatterns, g)
	}

	skipDirs := make(map[string]bool, len(scan.IgnoreDirs)+1)
	for _, name := range scan.IgnoreDirs {
		skipDirs[name] = true
	}
	skipDirs[inventory.MetadataDirName] = true

	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootDir && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !lang.IsSupported(path) {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, g := range ignorePatterns {
			if g.Match(rel) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", rootDir, err)
	}
	return files, nil
}
