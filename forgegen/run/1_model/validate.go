package model

import (
	"errors"
	"fmt"
	"unicode"
)

// unexported variables.
var (
	errNoInterfaceName   = errors.New("mock spec has no interface name")
	errBadIdentifier     = errors.New("not a valid identifier")
	errMalformedMember   = errors.New("malformed member")
	errMissingType       = errors.New("member has no type")
	errDuplicateName     = errors.New("duplicate member name")
	errSubscriptNoParams = errors.New("subscript has no parameters")
	errSubscriptNoResult = errors.New("subscript has no result type")
	errDuplicateHolder   = errors.New("placeholder redeclared")
)

// Validate checks a MockSpec for structural well-formedness: identifier
// validity, the one-variant-per-member invariant, name uniqueness across
// properties/operations/placeholders, and subscript arity. Overload-suffix
// collisions are the resolver's concern (see 3_resolve).
func Validate(spec MockSpec) error {
	if spec.InterfaceName == "" {
		return errNoInterfaceName
	}

	if !isIdentifier(spec.InterfaceName) {
		return fmt.Errorf("interface name %q: %w", spec.InterfaceName, errBadIdentifier)
	}

	if err := validatePlaceholders(spec); err != nil {
		return err
	}

	return validateMembers(spec)
}

func validateMembers(spec MockSpec) error {
	seenProps := map[string]bool{}
	opNames := map[string]bool{}

	for i, member := range spec.Members {
		if err := checkVariant(member); err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}

		switch member.Kind {
		case KindOperation:
			if err := validateOperation(member.Op); err != nil {
				return err
			}

			opNames[member.Op.Name] = true
		case KindProperty:
			if err := validateProperty(member.Prop, seenProps); err != nil {
				return err
			}
		case KindSubscript:
			if len(member.Sub.Params) == 0 {
				return errSubscriptNoParams
			}

			if member.Sub.Result == nil {
				return errSubscriptNoResult
			}

			if err := validateParams("subscript", member.Sub.Params); err != nil {
				return err
			}
		case KindPlaceholder:
			if !isIdentifier(member.Alias.Name) {
				return fmt.Errorf("placeholder %q: %w", member.Alias.Name, errBadIdentifier)
			}
		default:
			panic(fmt.Sprintf("unhandled member kind %v", member.Kind))
		}
	}

	// A property accessor and an operation with the same name would collide
	// in the generated type regardless of overload suffixes.
	for name := range seenProps {
		if opNames[name] {
			return fmt.Errorf("%w: %q is both a property and an operation", errDuplicateName, name)
		}
	}

	return nil
}

// checkVariant enforces the exactly-one-variant invariant of the Member
// tagged union.
func checkVariant(member Member) error {
	variants := 0
	for _, set := range []bool{member.Op != nil, member.Prop != nil, member.Sub != nil, member.Alias != nil} {
		if set {
			variants++
		}
	}

	if variants != 1 {
		return fmt.Errorf("%w: %d variants set", errMalformedMember, variants)
	}

	matched := false

	switch member.Kind {
	case KindOperation:
		matched = member.Op != nil
	case KindProperty:
		matched = member.Prop != nil
	case KindSubscript:
		matched = member.Sub != nil
	case KindPlaceholder:
		matched = member.Alias != nil
	default:
		return fmt.Errorf("%w: unknown kind %d", errMalformedMember, member.Kind)
	}

	if !matched {
		return fmt.Errorf("%w: kind %v does not match set variant", errMalformedMember, member.Kind)
	}

	return nil
}

func validateOperation(op *Operation) error {
	if !isIdentifier(op.Name) {
		return fmt.Errorf("operation %q: %w", op.Name, errBadIdentifier)
	}

	for _, generic := range op.Generics {
		if !isIdentifier(generic) {
			return fmt.Errorf("operation %q generic %q: %w", op.Name, generic, errBadIdentifier)
		}
	}

	return validateParams(op.Name, op.Params)
}

func validateProperty(prop *Property, seen map[string]bool) error {
	if !isIdentifier(prop.Name) {
		return fmt.Errorf("property %q: %w", prop.Name, errBadIdentifier)
	}

	if prop.Type == nil {
		return fmt.Errorf("property %q: %w", prop.Name, errMissingType)
	}

	if seen[prop.Name] {
		return fmt.Errorf("%w: property %q", errDuplicateName, prop.Name)
	}

	seen[prop.Name] = true

	return nil
}

func validateParams(owner string, params []Param) error {
	for i, param := range params {
		if param.Name != "" && !isIdentifier(param.Name) {
			return fmt.Errorf("%s parameter %d name %q: %w", owner, i, param.Name, errBadIdentifier)
		}

		if param.Type == nil {
			return fmt.Errorf("%s parameter %d: %w", owner, i, errMissingType)
		}
	}

	return nil
}

func validatePlaceholders(spec MockSpec) error {
	seen := map[string]bool{}

	for _, placeholder := range spec.AllPlaceholders() {
		if !isIdentifier(placeholder.Name) {
			return fmt.Errorf("placeholder %q: %w", placeholder.Name, errBadIdentifier)
		}

		if seen[placeholder.Name] {
			return fmt.Errorf("%w: %q", errDuplicateHolder, placeholder.Name)
		}

		seen[placeholder.Name] = true
	}

	return nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}
