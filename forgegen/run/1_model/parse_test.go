package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// TestParseType_RoundTrips proves well-formed type text parses and renders
// back to its normalized spelling.
func TestParseType_RoundTrips(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		want string
	}{
		{src: "int", want: "int"},
		{src: "  []string ", want: "[]string"},
		{src: "User?", want: "User?"},
		{src: "Data!", want: "Data!"},
		{src: "pkg.Event", want: "pkg.Event"},
		{src: "map[string]int?", want: "map[string]int?"},
		{src: "Box[T]", want: "Box[T]"},
		{src: "Result[T, error]", want: "Result[T, error]"},
		{src: "func(int,string)bool", want: "func(int, string) bool"},
		{src: "func()", want: "func()"},
		{src: "@escaping func(Event)", want: "@escaping func(Event)"},
		{src: "[]map[string][]User", want: "[]map[string][]User"},
		{src: "(int)?", want: "int?"},
		{src: "User??", want: "User??"},
		{src: "[]User?", want: "[]User?"},
	}

	for _, testCase := range cases {
		t.Run(testCase.src, func(t *testing.T) {
			t.Parallel()

			parsed, err := model.ParseType(testCase.src)
			require.NoError(t, err)
			require.Equal(t, testCase.want, model.TypeString(parsed))
		})
	}
}

// TestParseType_Errors proves malformed type text is rejected.
func TestParseType_Errors(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"   ",
		"?",
		"[]",
		"map[int",
		"map[int]",
		"Box[]",
		"func",
		"func(int",
		"int string",
		"@escaping int",
		"@ func()",
		"pkg.",
		"(int",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			_, err := model.ParseType(src)
			require.Error(t, err)
		})
	}
}

// TestParseType_PrintParseStable_Property proves TypeString output always
// re-parses to the same normalized spelling.
func TestParseType_PrintParseStable_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		expr := drawTypeExpr(rt, 3)
		rendered := model.TypeString(expr)

		reparsed, err := model.ParseType(rendered)
		if err != nil {
			rt.Fatalf("ParseType(%q) failed: %v", rendered, err)
		}

		if again := model.TypeString(reparsed); again != rendered {
			rt.Fatalf("print/parse not stable: %q -> %q", rendered, again)
		}
	})
}

// TestMustParseType_PanicsOnBadInput proves the panicking wrapper rejects
// what ParseType rejects.
func TestMustParseType_PanicsOnBadInput(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParseType should panic on malformed input")
		}
	}()

	model.MustParseType("map[")
}

func drawIdent(rt *rapid.T, label string) string {
	name := rapid.StringMatching(`[A-Za-z_][A-Za-z0-9_]{0,8}`).Draw(rt, label)
	// "func" and "map" are grammar keywords, not usable names.
	if name == "func" || name == "map" {
		name += "T"
	}

	return name
}

//nolint:cyclop // One branch per type expression variant
func drawTypeExpr(rt *rapid.T, depth int) model.TypeExpr {
	if depth == 0 {
		return model.Named{Name: drawIdent(rt, "leaf")}
	}

	switch rapid.IntRange(0, 6).Draw(rt, "variant") {
	case 0:
		return model.Named{Name: drawIdent(rt, "name")}
	case 1:
		count := rapid.IntRange(1, 2).Draw(rt, "argCount")

		args := make([]model.TypeExpr, count)
		for i := range args {
			args[i] = drawTypeExpr(rt, depth-1)
		}

		return model.Named{Name: drawIdent(rt, "generic"), Args: args}
	case 2:
		return model.Slice{Elem: drawTypeExpr(rt, depth-1)}
	case 3:
		return model.Map{Key: drawTypeExpr(rt, depth-1), Value: drawTypeExpr(rt, depth-1)}
	case 4:
		fn := model.Func{}

		paramCount := rapid.IntRange(0, 2).Draw(rt, "paramCount")
		for range paramCount {
			fn.Params = append(fn.Params, drawTypeExpr(rt, depth-1))
		}

		if rapid.Bool().Draw(rt, "hasResult") {
			fn.Result = drawTypeExpr(rt, depth-1)
		}

		if rapid.Bool().Draw(rt, "annotated") {
			fn.Annotations = []string{drawIdent(rt, "annotation")}
		}

		return fn
	case 5:
		return model.Optional{Elem: drawTypeExpr(rt, depth-1)}
	default:
		return model.Unwrapped{Elem: drawTypeExpr(rt, depth-1)}
	}
}
