// Package run implements the main logic for the forgegen tool in a testable way.
package run

import (
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
	load "github.com/mockforge/mockforge/forgegen/run/2_load"
	generate "github.com/mockforge/mockforge/forgegen/run/5_generate"
	output "github.com/mockforge/mockforge/forgegen/run/6_output"
)

// Interfaces - Public

// FileSystem interface for mocking.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader defines an interface for loading Go packages.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
}

// Structs - Private

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Spec        string `arg:"positional,required" help:"YAML spec file or interface name (e.g. store.yaml or pkg.MyInterface)"`
	Name        string `arg:"--name"              help:"base name for the generated mock type (defaults to the interface name)"`
	Out         string `arg:"--out"               help:"directory to write generated files into (defaults to the working directory)"`
	Package     string `arg:"--package"           help:"package name for generated files (defaults to $GOPACKAGE, then mocks)"`
	LegacyLocks bool   `arg:"--legacy-locks"      help:"emit only the channel-based lock, without build tags"`
}

// Functions - Public

// Run executes the forgegen tool logic. It takes command-line arguments, an
// environment variable getter, a FileSystem interface for file operations,
// a PackageLoader for package operations, and a progress writer. On success
// it writes one or more generated mock source files.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	spec, err := loadSpec(parsed.Spec, fileSys, pkgLoader)
	if err != nil {
		return err
	}

	if parsed.Name != "" {
		spec.InterfaceName = parsed.Name
	}

	result, err := generate.Mock(spec, generate.Options{
		PackageName:      packageName(parsed, getEnv),
		ForceLegacyLocks: parsed.LegacyLocks,
	})
	if err != nil {
		return err
	}

	return output.WriteGeneratedCode(result, parsed.Out, getEnv, fileSys, out)
}

// Functions - Private

// loadSpec dispatches to the frontend matching the spec argument: a path to
// a YAML file, or a possibly package-qualified Go interface name.
func loadSpec(specArg string, fileSys FileSystem, pkgLoader PackageLoader) (model.MockSpec, error) {
	if strings.HasSuffix(specArg, ".yaml") || strings.HasSuffix(specArg, ".yml") {
		data, err := fileSys.ReadFile(specArg)
		if err != nil {
			return model.MockSpec{}, fmt.Errorf("failed to read spec file %s: %w", specArg, err)
		}

		return load.FromYAML(data)
	}

	importPath, localName := splitInterfaceName(specArg)

	files, _, err := pkgLoader.Load(importPath)
	if err != nil {
		return model.MockSpec{}, err
	}

	return load.FromGoInterface(files, localName)
}

// splitInterfaceName separates a qualified interface name into its package
// import path and local name. An unqualified name loads from the current
// directory.
func splitInterfaceName(qualified string) (string, string) {
	idx := strings.LastIndex(qualified, ".")
	if idx < 0 {
		return ".", qualified
	}

	return qualified[:idx], qualified[idx+1:]
}

func packageName(parsed cliArgs, getEnv func(string) string) string {
	if parsed.Package != "" {
		return parsed.Package
	}

	if env := getEnv("GOPACKAGE"); env != "" {
		return env
	}

	return "mocks"
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}
