package model

import "strings"

// TypeExpr is one node in the abstract type language used by mock specs.
// The concrete variants are Named, Slice, Map, Func, Optional, and Unwrapped.
// Code that consumes a TypeExpr must type-switch over all of them; a missed
// variant is a programming error.
type TypeExpr interface {
	typeExpr()
}

// Named is an identifier type, optionally qualified ("pkg.T") and optionally
// instantiated with generic arguments ("Box[T]").
type Named struct {
	Name string
	Args []TypeExpr
}

// Slice is an ordered collection of Elem.
type Slice struct {
	Elem TypeExpr
}

// Map is a keyed collection.
type Map struct {
	Key   TypeExpr
	Value TypeExpr
}

// Func is a function-shaped type. Annotations records parameter-position-only
// capture annotations ("escaping" etc.) that must be stripped before the type
// moves into storage or handler position.
type Func struct {
	Params      []TypeExpr
	Result      TypeExpr // nil for void
	Annotations []string
}

// Optional wraps a type that may be unset ("T?").
type Optional struct {
	Elem TypeExpr
}

// Unwrapped wraps an implicitly-unwrapped optional ("T!").
type Unwrapped struct {
	Elem TypeExpr
}

func (Named) typeExpr()     {}
func (Slice) typeExpr()     {}
func (Map) typeExpr()       {}
func (Func) typeExpr()      {}
func (Optional) typeExpr()  {}
func (Unwrapped) typeExpr() {}

// ErasedTypeName is the universal type every generic-parameter reference is
// erased to.
const ErasedTypeName = "any"

// Erased returns the universal erased type.
func Erased() TypeExpr {
	return Named{Name: ErasedTypeName}
}

// IsErased reports whether t is the universal erased type.
func IsErased(t TypeExpr) bool {
	named, ok := t.(Named)

	return ok && named.Name == ErasedTypeName && len(named.Args) == 0
}

// TypeString renders t back into the spec text syntax. It is the inverse of
// ParseType for every well-formed expression.
func TypeString(t TypeExpr) string {
	switch typed := t.(type) {
	case Named:
		if len(typed.Args) == 0 {
			return typed.Name
		}

		args := make([]string, len(typed.Args))
		for i, arg := range typed.Args {
			args[i] = TypeString(arg)
		}

		return typed.Name + "[" + strings.Join(args, ", ") + "]"
	case Slice:
		return "[]" + TypeString(typed.Elem)
	case Map:
		return "map[" + TypeString(typed.Key) + "]" + TypeString(typed.Value)
	case Func:
		return funcString(typed)
	case Optional:
		return TypeString(typed.Elem) + "?"
	case Unwrapped:
		return TypeString(typed.Elem) + "!"
	default:
		panic("unhandled type expression variant")
	}
}

// EqualTypes reports structural equality of two type expressions.
func EqualTypes(a, b TypeExpr) bool {
	return TypeString(a) == TypeString(b)
}

// IsOptional reports whether t's outermost layer is Optional or Unwrapped.
func IsOptional(t TypeExpr) bool {
	switch t.(type) {
	case Optional, Unwrapped:
		return true
	default:
		return false
	}
}

func funcString(f Func) string {
	var buf strings.Builder

	for _, ann := range f.Annotations {
		buf.WriteString("@")
		buf.WriteString(ann)
		buf.WriteString(" ")
	}

	buf.WriteString("func(")

	for i, param := range f.Params {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString(TypeString(param))
	}

	buf.WriteString(")")

	if f.Result != nil {
		buf.WriteString(" ")
		buf.WriteString(TypeString(f.Result))
	}

	return buf.String()
}
