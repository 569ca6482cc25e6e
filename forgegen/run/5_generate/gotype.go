package generate

import (
	"strings"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// goType renders a type expression as Go source. Optional and
// implicitly-unwrapped layers become pointers, the universal erased type
// becomes "any", and bare names with a placeholder alias render as the
// alias. Capture annotations have no Go spelling and are dropped; the eraser
// strips them from storage positions anyway.
func goType(t model.TypeExpr, aliases map[string]string) string {
	switch typed := t.(type) {
	case model.Named:
		name := typed.Name
		if alias, ok := aliases[name]; ok && len(typed.Args) == 0 {
			name = alias
		}

		if len(typed.Args) == 0 {
			return name
		}

		args := make([]string, len(typed.Args))
		for i, arg := range typed.Args {
			args[i] = goType(arg, aliases)
		}

		return name + "[" + strings.Join(args, ", ") + "]"
	case model.Slice:
		return "[]" + goType(typed.Elem, aliases)
	case model.Map:
		return "map[" + goType(typed.Key, aliases) + "]" + goType(typed.Value, aliases)
	case model.Func:
		return goFuncType(typed, aliases)
	case model.Optional:
		return "*" + goType(typed.Elem, aliases)
	case model.Unwrapped:
		return "*" + goType(typed.Elem, aliases)
	default:
		panic("unhandled type expression variant")
	}
}

func goFuncType(f model.Func, aliases map[string]string) string {
	var buf strings.Builder

	buf.WriteString("func(")

	for i, param := range f.Params {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString(goType(param, aliases))
	}

	buf.WriteString(")")

	if f.Result != nil {
		buf.WriteString(" ")
		buf.WriteString(goType(f.Result, aliases))
	}

	return buf.String()
}
