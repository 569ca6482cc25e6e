// Package model defines the normalized, immutable member model a mock is
// synthesized from. A MockSpec is built once by a frontend (see 2_load) and
// every synthesis call is a pure function of it.
package model

import "strings"

// ConcurrencyRequirement describes the concurrency contract the generated
// mock must preserve.
type ConcurrencyRequirement int

// Concurrency requirements, from weakest to strongest.
const (
	// ConcurrencyNone assumes single-threaded or externally-synchronized use.
	ConcurrencyNone ConcurrencyRequirement = iota
	// ConcurrencyThreadSafe guards all generated state with one lock.
	ConcurrencyThreadSafe
	// ConcurrencyIsolationDomain guards state with the same lock and marks
	// every accessor as callable from outside the isolation domain.
	ConcurrencyIsolationDomain
)

// String returns the spec-file spelling of the requirement.
func (c ConcurrencyRequirement) String() string {
	switch c {
	case ConcurrencyNone:
		return "none"
	case ConcurrencyThreadSafe:
		return "threadsafe"
	case ConcurrencyIsolationDomain:
		return "isolated"
	default:
		return "unknown"
	}
}

// AccessScope is the visibility propagated to every generated declaration.
type AccessScope int

// Access scopes.
const (
	ScopeExported AccessScope = iota
	ScopeUnexported
)

// BuildCondition is an opaque boolean build expression. It is never
// evaluated; it is compared by normalized text and used only for grouping
// and output ordering.
type BuildCondition string

// IsZero reports whether the member is unconditioned.
func (c BuildCondition) IsZero() bool {
	return strings.TrimSpace(string(c)) == ""
}

// Normalized returns the condition text with runs of whitespace collapsed to
// single spaces. Two conditions are the same group iff their normalized text
// is equal.
func (c BuildCondition) Normalized() string {
	return strings.Join(strings.Fields(string(c)), " ")
}

// MemberKind discriminates the Member sum type.
type MemberKind int

// Member kinds.
const (
	KindOperation MemberKind = iota
	KindProperty
	KindSubscript
	KindPlaceholder
)

// String names the kind for diagnostics.
func (k MemberKind) String() string {
	switch k {
	case KindOperation:
		return "operation"
	case KindProperty:
		return "property"
	case KindSubscript:
		return "subscript"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Member is one declaration of the mocked interface: a tagged union with
// exactly one of Op, Prop, Sub, or Alias set, discriminated by Kind.
// Every member optionally carries a build condition.
type Member struct {
	Kind      MemberKind
	Condition BuildCondition

	Op    *Operation
	Prop  *Property
	Sub   *Subscript
	Alias *TypePlaceholder
}

// Param is one ordered operation parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// Operation is a callable interface member.
type Operation struct {
	Name     string
	Params   []Param
	Result   TypeExpr // nil for void
	Suspends bool     // copied onto the synthesized signature as a context parameter
	MayFail  bool     // copied onto the synthesized signature as a trailing error
	Generics []string // operation-level generic parameter names
}

// Property is a stored-value interface member. Mutable properties expose a
// public setter; optionality folds into Type.
type Property struct {
	Name    string
	Type    TypeExpr
	Mutable bool
}

// Subscript is an indexed accessor. It is identified structurally, not by
// name; the synthesizer keys it by the synthesized "Subscript" identifier
// plus the overload suffix.
type Subscript struct {
	Params   []Param
	Result   TypeExpr
	Mutable  bool
	Generics []string
}

// TypePlaceholder binds an associated-type name to a default concrete type,
// falling back to the universal erased type when Default is nil.
type TypePlaceholder struct {
	Name    string
	Default TypeExpr
}

// Import names a package the member types refer to. Populated by the Go
// interface frontend so generated files can carry the source imports; unused
// imports are pruned during formatting.
type Import struct {
	Alias string
	Path  string
}

// MockSpec is the aggregate root: everything the synthesizer needs to know
// about one interface. Built once by a frontend, then treated as immutable.
type MockSpec struct {
	InterfaceName string
	Concurrency   ConcurrencyRequirement
	Scope         AccessScope
	Members       []Member
	Placeholders  []TypePlaceholder
	Imports       []Import
}

// Operations returns the operation members in declaration order.
func (s MockSpec) Operations() []*Operation {
	var ops []*Operation

	for _, member := range s.Members {
		if member.Kind == KindOperation {
			ops = append(ops, member.Op)
		}
	}

	return ops
}

// AllPlaceholders returns the spec-level placeholder list followed by any
// placeholder members, in declaration order.
func (s MockSpec) AllPlaceholders() []TypePlaceholder {
	placeholders := append([]TypePlaceholder(nil), s.Placeholders...)

	for _, member := range s.Members {
		if member.Kind == KindPlaceholder {
			placeholders = append(placeholders, *member.Alias)
		}
	}

	return placeholders
}
