package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// unexported variables.
var errNoGoFiles = errors.New("no parseable .go files")

// PackageDST loads a package by import path and returns its DST files and
// FileSet. Parsing is syntactic only; no type checking is performed.
//
//nolint:cyclop // Path resolution and parsing require multiple steps
func PackageDST(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := resolvePackageDir(importPath)
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: no .go files in %s", errNoGoFiles, dir)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		dstFile, parseErr := dec.ParseFile(goFile, nil, 0)
		if parseErr != nil {
			// Skip files with parse errors.
			continue
		}

		files = append(files, dstFile)
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: failed to parse any .go files in %s", errNoGoFiles, dir)
	}

	return files, fset, nil
}

// resolvePackageDir maps an import path onto a directory. A local
// subdirectory with the same name shadows any matching module or stdlib
// package.
func resolvePackageDir(importPath string) (string, error) {
	if importPath == "." {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}

		return dir, nil
	}

	if local, isLocal := localPackageDir(importPath); isLocal {
		return local, nil
	}

	srcDir, _ := os.Getwd()

	pkg, err := build.Import(importPath, srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}

func localPackageDir(importPath string) (string, bool) {
	if strings.Contains(importPath, "/") {
		return "", false
	}

	srcDir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	localDir := filepath.Join(srcDir, importPath)

	info, err := os.Stat(localDir)
	if err != nil || !info.IsDir() {
		return "", false
	}

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") {
			return localDir, true
		}
	}

	return "", false
}
