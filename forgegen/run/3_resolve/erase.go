package resolve

import (
	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// Erase rewrites t for storage and handler position: any type that
// references a member of generics collapses, whole, to the universal erased
// type, and capture annotations are stripped. The second result reports
// whether anything changed; untouched expressions are returned as-is so an
// empty or unused generics set rewrites nothing.
//
// The erasure is deliberately non-parametric: a generic instantiation whose
// argument list references a generic parameter anywhere is erased entirely,
// not argument-by-argument. Wrapper shapes (optional, slice, function) erase
// component-wise instead.
func Erase(t model.TypeExpr, generics map[string]bool) (model.TypeExpr, bool) {
	if t == nil {
		return nil, false
	}

	switch typed := t.(type) {
	case model.Named:
		if generics[typed.Name] || referencesAny(typed.Args, generics) {
			return model.Erased(), true
		}

		return t, false
	case model.Slice:
		elem, changed := Erase(typed.Elem, generics)
		if !changed {
			return t, false
		}

		return model.Slice{Elem: elem}, true
	case model.Map:
		// Maps are generic instantiations in the source model: a generic
		// reference in either component erases the whole map.
		if References(typed.Key, generics) || References(typed.Value, generics) {
			return model.Erased(), true
		}

		return t, false
	case model.Func:
		return eraseFunc(typed, generics)
	case model.Optional:
		elem, changed := Erase(typed.Elem, generics)
		if !changed {
			return t, false
		}

		return model.Optional{Elem: elem}, true
	case model.Unwrapped:
		elem, changed := Erase(typed.Elem, generics)
		if !changed {
			return t, false
		}

		return model.Unwrapped{Elem: elem}, true
	default:
		panic("unhandled type expression variant")
	}
}

// References reports whether t mentions any member of generics anywhere in
// its structure. This is the predicate that decides whether a call site
// needs a downcast from the erased type; it is kept separate from Erase so
// the two concerns cannot drift.
func References(t model.TypeExpr, generics map[string]bool) bool {
	if t == nil || len(generics) == 0 {
		return false
	}

	switch typed := t.(type) {
	case model.Named:
		return generics[typed.Name] || referencesAny(typed.Args, generics)
	case model.Slice:
		return References(typed.Elem, generics)
	case model.Map:
		return References(typed.Key, generics) || References(typed.Value, generics)
	case model.Func:
		if References(typed.Result, generics) {
			return true
		}

		return referencesAny(typed.Params, generics)
	case model.Optional:
		return References(typed.Elem, generics)
	case model.Unwrapped:
		return References(typed.Elem, generics)
	default:
		panic("unhandled type expression variant")
	}
}

// GenericSet builds the lookup set for an operation's generic parameter
// names.
func GenericSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	return set
}

func referencesAny(types []model.TypeExpr, generics map[string]bool) bool {
	for _, t := range types {
		if References(t, generics) {
			return true
		}
	}

	return false
}

// eraseFunc erases a function shape component-wise and strips capture
// annotations, which are illegal once the type moves into storage position.
// Annotation stripping happens even when generics is empty.
func eraseFunc(f model.Func, generics map[string]bool) (model.TypeExpr, bool) {
	changed := len(f.Annotations) > 0

	params := f.Params
	copied := false

	for i, param := range f.Params {
		erased, paramChanged := Erase(param, generics)
		if !paramChanged {
			continue
		}

		if !copied {
			params = append([]model.TypeExpr(nil), f.Params...)
			copied = true
		}

		params[i] = erased
		changed = true
	}

	result, resultChanged := Erase(f.Result, generics)
	changed = changed || resultChanged

	if !changed {
		return f, false
	}

	return model.Func{Params: params, Result: result}, true
}
