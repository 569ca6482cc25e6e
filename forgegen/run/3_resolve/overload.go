// Package resolve disambiguates overloaded members and erases generic
// parameter references out of member types.
package resolve

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// SubscriptName is the synthesized identifier every indexed accessor is keyed
// by, in place of a declared name.
const SubscriptName = "Subscript"

// unexported variables.
var (
	errSuffixCollision = errors.New("overload suffix collision")
	errNameCollision   = errors.New("synthesized name collision")
)

// OverloadSuffixes computes the per-member disambiguation suffix for every
// member of spec, aligned by index with spec.Members. Members that are not
// overloaded (or are not operations/subscripts) get the empty suffix.
//
// Two overloads whose sanitized suffixes coincide are rejected here rather
// than silently tie-broken: a declaration-order tie-break would make the
// generated identifiers depend on member ordering.
func OverloadSuffixes(spec model.MockSpec) ([]string, error) {
	suffixes := make([]string, len(spec.Members))
	groups := map[string][]int{}

	for i, member := range spec.Members {
		switch member.Kind {
		case model.KindOperation:
			groups[member.Op.Name] = append(groups[member.Op.Name], i)
		case model.KindSubscript:
			groups[SubscriptName] = append(groups[SubscriptName], i)
		case model.KindProperty, model.KindPlaceholder:
			// Never overloaded.
		default:
			panic(fmt.Sprintf("unhandled member kind %v", member.Kind))
		}
	}

	for name, indexes := range groups {
		if len(indexes) < 2 {
			continue
		}

		seen := map[string]int{}

		for _, idx := range indexes {
			suffix := memberSuffix(spec.Members[idx])

			if prev, dup := seen[suffix]; dup {
				return nil, fmt.Errorf(
					"%w: members %d and %d of group %q both sanitize to %q",
					errSuffixCollision, prev, idx, name, suffix,
				)
			}

			seen[suffix] = idx
			suffixes[idx] = suffix
		}
	}

	if err := checkFinalNames(spec, suffixes); err != nil {
		return nil, err
	}

	return suffixes, nil
}

// checkFinalNames rejects specs where two distinct members synthesize the
// same method name after suffixing, such as an operation "saveUser" next to
// a "save(User)" overload. Scope casing only changes the first rune, so the
// exported form of the name+suffix base is the collision key.
func checkFinalNames(spec model.MockSpec, suffixes []string) error {
	finals := map[string]int{}

	for i, member := range spec.Members {
		var base string

		switch member.Kind {
		case model.KindOperation:
			base = member.Op.Name + suffixes[i]
		case model.KindSubscript:
			base = SubscriptName + suffixes[i]
		case model.KindProperty:
			base = member.Prop.Name
		case model.KindPlaceholder:
			continue
		default:
			panic(fmt.Sprintf("unhandled member kind %v", member.Kind))
		}

		key := exportedForm(base)

		if key == "Reset" {
			return fmt.Errorf(
				"%w: member %d %q collides with the synthesized reset operation",
				errNameCollision, i, key,
			)
		}

		if prev, dup := finals[key]; dup {
			return fmt.Errorf(
				"%w: members %d and %d both synthesize %q",
				errNameCollision, prev, i, key,
			)
		}

		finals[key] = i
	}

	return nil
}

// exportedForm upper-cases the first rune, matching the widest casing the
// access scope can apply to a generated identifier.
func exportedForm(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}

// memberSuffix concatenates the sanitized parameter types of an overloaded
// member, in declaration order. Zero parameters yield the empty suffix.
func memberSuffix(member model.Member) string {
	var params []model.Param

	switch member.Kind {
	case model.KindOperation:
		params = member.Op.Params
	case model.KindSubscript:
		params = member.Sub.Params
	case model.KindProperty, model.KindPlaceholder:
		return ""
	default:
		panic(fmt.Sprintf("unhandled member kind %v", member.Kind))
	}

	var buf strings.Builder
	for _, param := range params {
		buf.WriteString(SanitizeType(param.Type))
	}

	return buf.String()
}

// SanitizeType flattens a type expression into an identifier fragment:
// optionality markers become trailing "Optional"/"ImplicitlyUnwrapped"
// words, slices become a trailing "Array", maps and functions flatten their
// components, generic instantiations concatenate their sanitized arguments,
// and every run of non-alphanumeric characters becomes a title-case
// boundary.
func SanitizeType(t model.TypeExpr) string {
	switch typed := t.(type) {
	case model.Named:
		fragment := titleCase(typed.Name)
		for _, arg := range typed.Args {
			fragment += SanitizeType(arg)
		}

		return fragment
	case model.Slice:
		return SanitizeType(typed.Elem) + "Array"
	case model.Map:
		return SanitizeType(typed.Key) + SanitizeType(typed.Value) + "Map"
	case model.Func:
		fragment := "Func"
		for _, param := range typed.Params {
			fragment += SanitizeType(param)
		}

		if typed.Result != nil {
			fragment += SanitizeType(typed.Result)
		}

		return fragment
	case model.Optional:
		return SanitizeType(typed.Elem) + "Optional"
	case model.Unwrapped:
		return SanitizeType(typed.Elem) + "ImplicitlyUnwrapped"
	default:
		panic("unhandled type expression variant")
	}
}

// titleCase strips non-alphanumeric characters and upper-cases the first
// letter of each resulting segment ("pkg.Type" -> "PkgType").
func titleCase(name string) string {
	var buf strings.Builder

	boundary := true

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			boundary = true

			continue
		}

		if boundary {
			buf.WriteRune(unicode.ToUpper(r))

			boundary = false

			continue
		}

		buf.WriteRune(r)
	}

	return buf.String()
}
