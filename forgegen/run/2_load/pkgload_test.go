//nolint:paralleltest // Tests use t.Chdir which is incompatible with t.Parallel
package load_test

import (
	"os"
	"path/filepath"
	"testing"

	load "github.com/mockforge/mockforge/forgegen/run/2_load"
)

func writePackage(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}

	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
		if err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestPackageDST_CurrentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writePackage(t, tmpDir, map[string]string{
		"store.go": "package store\n\ntype Store interface{ Ping() }\n",
	})

	t.Chdir(tmpDir)

	files, fset, err := load.PackageDST(".")
	if err != nil {
		t.Fatalf("PackageDST(\".\") failed: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}

	if fset == nil {
		t.Error("expected a FileSet")
	}
}

func TestPackageDST_LocalSubdirectoryShadowsImportPath(t *testing.T) {
	tmpDir := t.TempDir()
	writePackage(t, filepath.Join(tmpDir, "store"), map[string]string{
		"store.go": "package store\n\ntype Store interface{ Ping() }\n",
	})

	t.Chdir(tmpDir)

	files, _, err := load.PackageDST("store")
	if err != nil {
		t.Fatalf("PackageDST(\"store\") failed: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}

func TestPackageDST_ExcludesTestFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writePackage(t, tmpDir, map[string]string{
		"store.go":      "package store\n\nfunc Ping() {}\n",
		"store_test.go": "package store\n\nimport \"testing\"\n\nfunc TestPing(t *testing.T) {}\n",
	})

	t.Chdir(tmpDir)

	files, _, err := load.PackageDST(".")
	if err != nil {
		t.Fatalf("PackageDST failed: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("expected test files to be excluded, got %d files", len(files))
	}
}

func TestPackageDST_SkipsUnparseableFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writePackage(t, tmpDir, map[string]string{
		"good.go": "package store\n\nfunc Ping() {}\n",
		"bad.go":  "package store\n\nfunc {broken\n",
	})

	t.Chdir(tmpDir)

	files, _, err := load.PackageDST(".")
	if err != nil {
		t.Fatalf("PackageDST failed: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("expected only the parseable file, got %d", len(files))
	}
}

func TestPackageDST_NoGoFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writePackage(t, tmpDir, map[string]string{
		"readme.txt": "nothing to parse",
	})

	t.Chdir(tmpDir)

	_, _, err := load.PackageDST(".")
	if err == nil {
		t.Error("PackageDST should fail on a directory with no .go files")
	}
}

func TestPackageDST_NonexistentPackage(t *testing.T) {
	t.Parallel()

	_, _, err := load.PackageDST("nonexistent/package/xyz123")
	if err == nil {
		t.Error("PackageDST for non-existent package should return error")
	}
}
