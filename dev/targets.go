//go:build targ

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/file"
	"github.com/toejough/targ/sh"
)

// Build builds the local forgegen binary.
func Build() error {
	fmt.Println("Building forgegen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/forgegen", "./forgegen")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,          // clean up the module dependencies
		FixImports,    // fix imports to remove unused ones
		Modernize,     // no use doing anything else to old code patterns
		CheckCoverage, // does our code work?
		CheckNils,     // is it nil free?
		ReorderDecls,  // linter will yell about declaration order if not correct
		Lint,
	)
}

// CheckCoverage checks that function coverage meets the minimum threshold.
func CheckCoverage() error {
	fmt.Println("Checking coverage...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	out, err := output("go", "tool", "cover", "-func=coverage.out")
	if err != nil {
		return err
	}

	lines := strings.Split(out, "\n")
	linesAndCoverage := []lineAndCoverage{}

	for _, line := range lines {
		percentString := regexp.MustCompile(`\d+\.\d`).FindString(line)

		percent, err := strconv.ParseFloat(percentString, 64)
		if err != nil {
			return err
		}

		if strings.Contains(line, "main.go") {
			continue
		}

		if strings.Contains(line, "generated_") {
			continue
		}

		if strings.Contains(line, "total:") {
			continue
		}

		linesAndCoverage = append(linesAndCoverage, lineAndCoverage{line, percent})
	}

	slices.SortStableFunc(linesAndCoverage, func(a, b lineAndCoverage) int {
		if a.coverage < b.coverage {
			return -1
		}

		if a.coverage > b.coverage {
			return 1
		}

		return 0
	})
	lc := linesAndCoverage[0]

	sortedLines := make([]string, len(linesAndCoverage))
	for i := range linesAndCoverage {
		sortedLines[i] = linesAndCoverage[i].line
	}

	fmt.Println(strings.Join(sortedLines, "\n"))

	coverage := 80.0
	if lc.coverage < coverage {
		return fmt.Errorf("function coverage was less than the limit of %.1f:\n  %s", coverage, lc.line)
	}

	return nil
}

// CheckForFail runs all checks on the code for determining whether any fail.
func CheckForFail() error {
	fmt.Println("Checking...")

	// Checks from fastest to slowest
	return targ.Deps(
		ReorderDeclsCheck,
		LintForFail,
		Deadcode,
		TestForFail,
		CheckNilsForFail,
		CheckCoverage,
	)
}

// CheckNils checks for nils and fixes what it can.
func CheckNils() error {
	fmt.Println("Running check for nils...")
	return sh.Run("nilaway", "-fix", "./...")
}

// CheckNilsForFail checks for nils, just for failure.
func CheckNilsForFail() error {
	fmt.Println("Running check for nils...")
	return sh.Run("nilaway", "./...")
}

// Clean cleans up the dev env.
func Clean() {
	fmt.Println("Cleaning...")
	os.Remove("coverage.out")
}

// Deadcode checks that there's no dead code in codebase.
func Deadcode() error {
	fmt.Println("Checking for dead code...")

	out, err := output("deadcode", "-test", "./...")
	if err != nil {
		return err
	}

	lines := []string{}

	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) > 0 {
		fmt.Println(strings.Join(lines, "\n"))

		return errors.New("found dead code")
	}

	return nil
}

// FixImports fixes all imports in the codebase.
func FixImports() error {
	fmt.Println("Fixing imports...")
	return sh.Run("goimports", "-w", ".")
}

// Generate runs go generate on all packages using the locally-built forgegen binary.
func Generate() error {
	fmt.Println("Generating...")

	if err := targ.Deps(Build); err != nil {
		return err
	}

	// Get current PATH and prepend our bin directory
	currentPath := os.Getenv("PATH")

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	newPath := binDir + string(filepath.ListSeparator) + currentPath

	// Run go generate with modified PATH
	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+newPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run")
}

// LintForFail lints the codebase purely to find out whether anything fails.
func LintForFail() error {
	fmt.Println("Linting to check for overall pass/fail...")

	return sh.Run(
		"golangci-lint", "run",
		"--fix=false",
		"--max-issues-per-linter=1",
		"--max-same-issues=1",
		"--allow-parallel-runners",
	)
}

// Modernize updates the codebase to use modern Go patterns.
func Modernize() error {
	fmt.Println("Modernizing codebase...")

	return sh.Run("go", "run", "golang.org/x/tools/go/analysis/passes/modernize/cmd/modernize@latest",
		"-fix", "./...")
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=6000s",
		"-tags=mutation",
		"-ooze.v",
		"./...",
		"-run=TestMutation",
	)
}

// ReorderDecls reorders declarations in Go files per conventions.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	files, err := globs(".", []string{".go"})
	if err != nil {
		return fmt.Errorf("failed to find Go files: %w", err)
	}

	reorderedCount := 0

	for _, path := range files {
		skip, err := skipReorder(path)
		if err != nil {
			return err
		}

		if skip {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", path, err)

			continue
		}

		if string(content) != reordered {
			err = os.WriteFile(path, []byte(reordered), 0o600)
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("  Reordered: %s\n", path)
			reorderedCount++
		}
	}

	fmt.Printf("Reordered %d file(s).\n", reorderedCount)

	return nil
}

// ReorderDeclsCheck checks which files need reordering without modifying them.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	files, err := globs(".", []string{".go"})
	if err != nil {
		return fmt.Errorf("failed to find Go files: %w", err)
	}

	outOfOrderFiles := 0
	filesProcessed := 0

	for _, path := range files {
		skip, err := skipReorder(path)
		if err != nil {
			return err
		}

		if skip {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", path, err)

			continue
		}

		filesProcessed++

		if string(content) != reordered {
			outOfOrderFiles++

			diff := textdiff.Unified(path+" (current)", path+" (reordered)", string(content), reordered)
			if diff != "" {
				fmt.Printf("\n%s\n", diff)
			}
		}
	}

	if outOfOrderFiles > 0 {
		fmt.Printf("\n%d file(s) need reordering (out of %d processed). Run 'targ reorder-decls' to fix.\n", outOfOrderFiles, filesProcessed)

		return fmt.Errorf("%d file(s) need reordering", outOfOrderFiles)
	}

	fmt.Printf("All files are correctly ordered (%d files processed).\n", filesProcessed)

	return nil
}

// Test runs the unit tests.
func Test() error {
	fmt.Println("Running unit tests...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	// Use -count=1 to disable caching so coverage is regenerated
	err := sh.Run(
		"go",
		"test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./forgegen/...",
		"-cover",
		"./...",
	)
	if err != nil {
		return err
	}

	// Strip main.go coverage lines from coverage.out
	data, err := os.ReadFile("coverage.out")
	if err != nil {
		return fmt.Errorf("failed to read coverage.out: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	var filtered []string

	for _, line := range lines {
		if !strings.Contains(line, "/main.go:") {
			filtered = append(filtered, line)
		}
	}

	err = os.WriteFile("coverage.out", []byte(strings.Join(filtered, "\n")), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write coverage.out: %w", err)
	}

	return nil
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=10s",
		"./...",
		"-failfast",
	)
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// Watch re-runs Check whenever files change.
func Watch(ctx context.Context) error {
	fmt.Println("Watching...")

	return file.Watch(ctx, []string{"**/*.go", "**/*.yaml"}, file.WatchOptions{}, func(changes file.ChangeSet) error {
		if !hasRelevantChanges(changes) {
			return nil
		}

		fmt.Println("Change detected...")

		targ.ResetDeps() // Clear execution cache so targets run again

		err := Check()
		if err != nil {
			fmt.Println("continuing to watch after check failure (see errors above)")
		} else {
			fmt.Println("continuing to watch after all checks passed!")
		}

		return nil // Don't stop watching on error
	})
}

type lineAndCoverage struct {
	line     string
	coverage float64
}

// Helper Functions

func globs(dir string, ext []string) ([]string, error) {
	files := []string{}

	err := filepath.Walk(dir, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("unable to find all glob matches: %w", err)
		}

		for _, each := range ext {
			if filepath.Ext(path) == each {
				files = append(files, path)

				return nil
			}
		}

		return nil
	})

	return files, err
}

// hasRelevantChanges returns true if the changeset contains files we care about.
// Filters out generated files and build artifacts that Check() itself creates.
func hasRelevantChanges(changes file.ChangeSet) bool {
	allFiles := append(append(changes.Added, changes.Removed...), changes.Modified...)

	for _, f := range allFiles {
		if strings.Contains(f, "generated_") {
			continue
		}

		if strings.HasSuffix(f, "coverage.out") {
			continue
		}

		return true
	}

	return false
}

func isGeneratedFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 200)

	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(buf[:n])

	return strings.Contains(content, "Code generated") || strings.Contains(content, "DO NOT EDIT"), nil
}

func output(command string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := exec.Command(command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}

// skipReorder reports whether a file is outside reordering scope: generated
// files, vendored code, and hidden directories.
func skipReorder(path string) (bool, error) {
	if strings.Contains(path, "generated_") {
		return true, nil
	}

	if strings.HasPrefix(path, "vendor/") {
		return true, nil
	}

	if strings.Contains(path, "/.") {
		return true, nil
	}

	isGenerated, err := isGeneratedFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to check if %s is generated: %w", path, err)
	}

	return isGenerated, nil
}
