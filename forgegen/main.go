// mockforge/forgegen is a tool to synthesize configurable mocks from member
// specs. To use it, install it with `go install github.com/mockforge/mockforge/forgegen@latest`
// and run `forgegen <spec.yaml>` to generate from a YAML member spec, or add a
// `//go:generate forgegen <interface>` comment to generate from a Go interface
// declaration. By default the mock struct is named <Interface>Mock; add a
// `--name <mockname>` flag to override. Generated files land in the working
// directory unless `--out <dir>` says otherwise.
package main

import (
	"fmt"
	"go/token"
	"os"

	"github.com/dave/dst"

	"github.com/mockforge/mockforge/forgegen/run"
	load "github.com/mockforge/mockforge/forgegen/run/2_load"
)

// main is the entry point of the forgegen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using the os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements PackageLoader using direct DST parsing.
type realPackageLoader struct{}

// Load loads a package by import path and returns its DST files and FileSet.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	files, fset, err := load.PackageDST(importPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, fset, nil
}
