// Package output writes synthesized mock files to disk.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/toejough/go-reorder"

	generate "github.com/mockforge/mockforge/forgegen/run/5_generate"
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// WriteGeneratedCode writes every synthesized file under outDir, in the
// deterministic order the synthesizer produced them. When the caller is
// generating from inside a test file the primary file gains a _test suffix
// so the mock stays out of the production build.
func WriteGeneratedCode(
	result generate.Output, outDir string, getEnv func(string) string, fileWriter Writer, out io.Writer,
) error {
	const generatedFilePermissions = 0o600

	goFile := getEnv("GOFILE")
	inTestFile := strings.HasSuffix(goFile, "_test.go")

	for _, file := range result.Files {
		name := file.Name
		if inTestFile && !strings.HasSuffix(name, "_test.go") {
			name = strings.TrimSuffix(name, ".go") + "_test.go"
		}

		if outDir != "" {
			name = filepath.Join(outDir, name)
		}

		// Reorder declarations according to project conventions.
		reordered, err := reorder.Source(file.Content)
		if err != nil {
			// If reordering fails, log but continue with original code.
			_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", name, err)

			reordered = file.Content
		}

		err = fileWriter.WriteFile(name, []byte(reordered), generatedFilePermissions)
		if err != nil {
			return fmt.Errorf("error writing %s: %w", name, err)
		}

		_, _ = fmt.Fprintf(out, "%s written successfully.\n", name)
	}

	return nil
}
