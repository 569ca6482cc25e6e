package generate

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// reservedParamNames are identifiers the synthesized bodies use themselves;
// a declared parameter with one of these names is renamed with an "Arg"
// suffix to keep the body compilable.
var reservedParamNames = map[string]bool{
	"m":       true,
	"handler": true,
	"value":   true,
	"ctx":     true,
}

func upperFirst(name string) string {
	if name == "" {
		return name
	}

	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToUpper(r)) + name[size:]
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}

	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToLower(r)) + name[size:]
}

// scopeIdent applies the spec's access scope to a generated identifier.
func scopeIdent(scope model.AccessScope, name string) string {
	if scope == model.ScopeUnexported {
		return lowerFirst(name)
	}

	return upperFirst(name)
}

// paramName returns the usable Go name for the i-th parameter, inventing
// one when the spec leaves it blank and renaming reserved identifiers.
func paramName(declared string, index int) string {
	if declared == "" {
		return "arg" + strconv.Itoa(index+1)
	}

	name := lowerFirst(declared)
	if reservedParamNames[name] {
		return name + "Arg"
	}

	return name
}

// names bundles every derived identifier for one spec.
type names struct {
	MockType    string // UserStoreMock / userStoreMock
	Constructor string // NewUserStoreMock / newUserStoreMock
	StateType   string // userStoreMockState
	LockType    string // userStoreMockLock
	FileBase    string // generated_UserStoreMock
}

func specNames(spec model.MockSpec) names {
	mockType := scopeIdent(spec.Scope, spec.InterfaceName+"Mock")

	constructor := "New" + upperFirst(spec.InterfaceName) + "Mock"
	if spec.Scope == model.ScopeUnexported {
		constructor = "new" + upperFirst(spec.InterfaceName) + "Mock"
	}

	lower := lowerFirst(spec.InterfaceName) + "Mock"

	return names{
		MockType:    mockType,
		Constructor: constructor,
		StateType:   lower + "State",
		LockType:    lower + "Lock",
		FileBase:    "generated_" + mockType,
	}
}

// condTypeName is the embedded group struct for the n-th condition group
// (1-based, in normalized-condition order).
func (n names) condTypeName(group int) string {
	return lowerFirst(n.MockType) + "Cond" + strconv.Itoa(group)
}

// condResetName is the per-group reset hook, unique per group so promotion
// through the embedded group structs never collides.
func (n names) condResetName(group int) string {
	return "resetCond" + strconv.Itoa(group)
}

// aliasName is the package-level alias for a type placeholder.
func (n names) aliasName(placeholder string) string {
	return n.MockType + upperFirst(placeholder)
}

// argsTypeName is the per-member call-argument record type.
func (n names) argsTypeName(methodBase string) string {
	return n.MockType + upperFirst(methodBase) + "Args"
}

// sanitizeFileName keeps generated file names within the portable character
// set.
func sanitizeFileName(name string) string {
	var buf strings.Builder

	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			buf.WriteRune(r)
		case r == '_' || r == '.' || r == '-':
			buf.WriteRune(r)
		default:
			buf.WriteRune('_')
		}
	}

	return buf.String()
}
