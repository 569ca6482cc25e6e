package generate

import (
	"strings"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
	resolve "github.com/mockforge/mockforge/forgegen/run/3_resolve"
	strategy "github.com/mockforge/mockforge/forgegen/run/4_strategy"
)

// synthContext carries everything member synthesis needs, resolved once per
// spec: the storage strategy, the overload suffixes, and the placeholder
// alias table.
type synthContext struct {
	spec     model.MockSpec
	names    names
	suffixes []string
	strat    strategy.Kind
	crossIso bool
	aliases  map[string]string
	pkgName  string
}

func newSynthContext(spec model.MockSpec, suffixes []string, strat strategy.Kind, pkgName string) *synthContext {
	ctx := &synthContext{
		spec:     spec,
		names:    specNames(spec),
		suffixes: suffixes,
		strat:    strat,
		crossIso: strategy.CrossIsolation(spec.Concurrency),
		aliases:  map[string]string{},
		pkgName:  pkgName,
	}

	for _, placeholder := range spec.AllPlaceholders() {
		ctx.aliases[placeholder.Name] = ctx.names.aliasName(placeholder.Name)
	}

	return ctx
}

func (ctx *synthContext) locked() bool {
	return ctx.strat.Locked()
}

// stateRef is the selector prefix member bodies use to reach generated
// fields: through the state aggregate under a lock strategy, directly on the
// mock otherwise.
func (ctx *synthContext) stateRef() string {
	if ctx.locked() {
		return "m.state."
	}

	return "m."
}

// fieldBase is the storage-field stem for a member. Locked strategies hide
// fields behind accessors, so the stem is always unexported there; the
// direct strategy exposes fields, so the stem follows the access scope.
func (ctx *synthContext) fieldBase(name string) string {
	if ctx.locked() {
		return lowerFirst(name)
	}

	return scopeIdent(ctx.spec.Scope, name)
}

// fieldData is one generated struct field.
type fieldData struct {
	Name string
	Type string
}

// argsField is one field of a call-argument record.
type argsField struct {
	Name  string // struct field name, cased by scope
	Param string // parameter identifier in the synthesized body
	Type  string // erased Go type
}

// callableData is the template data for a call-tracked member: an operation
// or an indexed accessor.
type callableData struct {
	MockType      string
	MethodName    string
	QualifiedName string
	Doc           string
	ErasedNote    string
	ConcurrentNote bool

	Params     string // full parameter list, including any context parameter
	Results    string // "", " T", " error", or " (T, error)"
	HasResults bool
	CallArgs   string // arguments forwarded to the handler

	RequiresHandler bool

	Locked   bool
	StateRef string

	CountField   string
	CallsField   string
	HandlerField string
	HandlerType  string

	ArgsType    string
	ArgsFields  []argsField
	ArgsLiteral string

	// Locked-strategy accessors.
	CountAccessor string
	CallsAccessor string
	HandlerSetter string

	// Mutable subscripts only.
	HasSetter       bool
	SetterName      string
	SetterParams    string
	SetterCallArgs  string
	SetHandlerField string
	SetHandlerType  string
	SetHandlerSetter string
}

// buildOperation assembles template data for an operation member.
func (ctx *synthContext) buildOperation(op *model.Operation, suffix string) callableData {
	generics := resolve.GenericSet(op.Generics)
	methodName := scopeIdent(ctx.spec.Scope, op.Name) + suffix

	data := callableData{
		MockType:       ctx.names.MockType,
		MethodName:     methodName,
		QualifiedName:  ctx.names.MockType + "." + methodName,
		Doc:            methodName + " records the call, then runs the configured handler.",
		ConcurrentNote: ctx.crossIso,
		Locked:         ctx.locked(),
		StateRef:       ctx.stateRef(),
	}

	base := ctx.fieldBase(op.Name + suffix)
	data.CountField = base + "CallCount"
	data.CallsField = base + "Calls"
	data.HandlerField = base + "Handler"

	data.ArgsType = ctx.names.argsTypeName(op.Name + suffix)
	data.ArgsFields = ctx.buildArgsFields(op.Params, generics)
	data.ArgsLiteral = argsLiteral(data.ArgsFields)

	params, callArgs := ctx.buildParams(op.Params, generics, op.Suspends)
	data.Params = params
	data.CallArgs = callArgs

	data.Results = ctx.buildResults(op.Result, op.MayFail, generics)
	data.HasResults = data.Results != ""
	data.RequiresHandler = op.Result != nil || op.MayFail
	data.HandlerType = "func(" + params + ")" + data.Results

	if resolve.References(op.Result, generics) {
		data.ErasedNote = "The declared result type " + model.TypeString(op.Result) +
			" is erased to any; assert the concrete result type at the call site."
	}

	if ctx.locked() {
		data.CountAccessor = scopeIdent(ctx.spec.Scope, op.Name+suffix+"CallCount")
		data.CallsAccessor = scopeIdent(ctx.spec.Scope, op.Name+suffix+"Calls")
		data.HandlerSetter = scopeIdent(ctx.spec.Scope, "Set"+upperFirst(op.Name+suffix)+"Handler")
	}

	return data
}

// buildSubscript assembles template data for an indexed accessor. It shares
// the operation structure, keyed by the synthesized "Subscript" identifier
// plus the overload suffix; mutable accessors add the set-handler split.
func (ctx *synthContext) buildSubscript(sub *model.Subscript, suffix string) callableData {
	generics := resolve.GenericSet(sub.Generics)

	op := model.Operation{
		Name:     resolve.SubscriptName,
		Params:   sub.Params,
		Result:   sub.Result,
		Generics: sub.Generics,
	}

	data := ctx.buildOperation(&op, suffix)
	data.Doc = data.MethodName + " reads through the configured subscript handler after recording the call."

	if !sub.Mutable {
		return data
	}

	data.HasSetter = true
	data.SetterName = scopeIdent(ctx.spec.Scope, "Set"+resolve.SubscriptName) + suffix

	data.SetHandlerField = ctx.fieldBase(resolve.SubscriptName + suffix + "SetHandler")

	valueType, _ := resolve.Erase(sub.Result, generics)

	params, callArgs := ctx.buildParams(sub.Params, generics, false)
	data.SetterParams = params + ", value " + goType(valueType, ctx.aliases)
	data.SetterCallArgs = callArgs + ", value"
	data.SetHandlerType = "func(" + data.SetterParams + ")"

	if ctx.locked() {
		data.SetHandlerSetter = scopeIdent(ctx.spec.Scope, "Set"+resolve.SubscriptName+suffix+"SetHandler")
	}

	return data
}

// buildParams renders the synthesized parameter list and the matching
// handler-call argument list. Suspending members get a leading context
// parameter, copied through to the handler but never recorded in the call
// log.
func (ctx *synthContext) buildParams(
	params []model.Param, generics map[string]bool, suspends bool,
) (paramsStr, callArgs string) {
	var decls, args []string

	if suspends {
		decls = append(decls, "ctx context.Context")
		args = append(args, "ctx")
	}

	for i, param := range params {
		name := paramName(param.Name, i)
		erased, _ := resolve.Erase(param.Type, generics)

		decls = append(decls, name+" "+goType(erased, ctx.aliases))
		args = append(args, name)
	}

	return strings.Join(decls, ", "), strings.Join(args, ", ")
}

func (ctx *synthContext) buildArgsFields(params []model.Param, generics map[string]bool) []argsField {
	fields := make([]argsField, 0, len(params))

	for i, param := range params {
		name := paramName(param.Name, i)
		erased, _ := resolve.Erase(param.Type, generics)

		fields = append(fields, argsField{
			Name:  scopeIdent(ctx.spec.Scope, name),
			Param: name,
			Type:  goType(erased, ctx.aliases),
		})
	}

	return fields
}

func (ctx *synthContext) buildResults(result model.TypeExpr, mayFail bool, generics map[string]bool) string {
	var parts []string

	if result != nil {
		erased, _ := resolve.Erase(result, generics)
		parts = append(parts, goType(erased, ctx.aliases))
	}

	if mayFail {
		parts = append(parts, "error")
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return " " + parts[0]
	default:
		return " (" + strings.Join(parts, ", ") + ")"
	}
}

func argsLiteral(fields []argsField) string {
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field.Name + ": " + field.Param
	}

	return strings.Join(parts, ", ")
}

// propertyData is the template data for a property member.
type propertyData struct {
	MockType       string
	Doc            string
	ConcurrentNote bool

	Getter       string
	Setter       string // mutable only
	ConfigSetter string // locked get-only configuration entry point

	BackingField string
	BackingType  string
	DeclaredType string

	// OptionalDeclared means the declared type is already optional: the
	// backing field holds it directly and the getter does not unwrap.
	OptionalDeclared bool
	Mutable          bool

	Locked   bool
	StateRef string
}

// buildProperty assembles template data for a property member per the
// optionality split: get-only properties store an optional backing and
// unwrap on read; mutable properties with an already-optional type store the
// value plainly; mutable non-optional properties store an optional backing
// so the public type stays non-optional while allowing an unset state.
func (ctx *synthContext) buildProperty(prop *model.Property) propertyData {
	stripped, _ := resolve.Erase(prop.Type, nil)
	declared := goType(stripped, ctx.aliases)

	data := propertyData{
		MockType:         ctx.names.MockType,
		ConcurrentNote:   ctx.crossIso,
		Getter:           scopeIdent(ctx.spec.Scope, prop.Name),
		BackingField:     ctx.fieldBase(prop.Name + "Value"),
		DeclaredType:     declared,
		OptionalDeclared: model.IsOptional(prop.Type),
		Mutable:          prop.Mutable,
		Locked:           ctx.locked(),
		StateRef:         ctx.stateRef(),
	}

	data.Doc = data.Getter + " returns the configured backing value."

	if data.OptionalDeclared {
		data.BackingType = declared
	} else {
		data.BackingType = "*" + declared
	}

	if prop.Mutable {
		data.Setter = scopeIdent(ctx.spec.Scope, "Set"+upperFirst(prop.Name))
	} else if ctx.locked() {
		data.ConfigSetter = scopeIdent(ctx.spec.Scope, "Set"+upperFirst(prop.Name)+"Value")
	}

	return data
}

// aliasData is the template data for a type placeholder member.
type aliasData struct {
	AliasName string
	Target    string
	Doc       string
}

func (ctx *synthContext) buildAlias(placeholder model.TypePlaceholder) aliasData {
	target := model.ErasedTypeName
	if placeholder.Default != nil {
		target = goType(placeholder.Default, nil)
	}

	return aliasData{
		AliasName: ctx.names.aliasName(placeholder.Name),
		Target:    target,
		Doc: ctx.names.aliasName(placeholder.Name) + " binds the " + placeholder.Name +
			" placeholder of " + ctx.spec.InterfaceName + ".",
	}
}

// memberFields returns the storage fields one member contributes to its
// struct (the mock struct, the state aggregate, or a condition group).
func (ctx *synthContext) memberFields(member indexedMember) []fieldData {
	switch member.Member.Kind {
	case model.KindOperation:
		data := ctx.buildOperation(member.Member.Op, ctx.suffixes[member.Index])

		return []fieldData{
			{Name: data.CountField, Type: "int"},
			{Name: data.CallsField, Type: "[]" + data.ArgsType},
			{Name: data.HandlerField, Type: data.HandlerType},
		}
	case model.KindSubscript:
		data := ctx.buildSubscript(member.Member.Sub, ctx.suffixes[member.Index])

		fields := []fieldData{
			{Name: data.CountField, Type: "int"},
			{Name: data.CallsField, Type: "[]" + data.ArgsType},
			{Name: data.HandlerField, Type: data.HandlerType},
		}

		if data.HasSetter {
			fields = append(fields, fieldData{Name: data.SetHandlerField, Type: data.SetHandlerType})
		}

		return fields
	case model.KindProperty:
		data := ctx.buildProperty(member.Member.Prop)

		return []fieldData{{Name: data.BackingField, Type: data.BackingType}}
	case model.KindPlaceholder:
		return nil
	default:
		panic("unhandled member kind")
	}
}

// resetField is one zeroing statement of the reset operation.
type resetField struct {
	Name string
	Zero string
}

// memberResetFields returns the reset assignments for one member: counts to
// zero, logs and handlers and backings to unset.
func (ctx *synthContext) memberResetFields(member indexedMember) []resetField {
	fields := ctx.memberFields(member)
	resets := make([]resetField, 0, len(fields))

	for _, field := range fields {
		zero := "nil"
		if field.Type == "int" {
			zero = "0"
		}

		resets = append(resets, resetField{Name: field.Name, Zero: zero})
	}

	return resets
}

// needsContext reports whether any member in the bucket suspends, which
// pulls the context import into that bucket's file.
func needsContext(members []indexedMember) bool {
	for _, member := range members {
		if member.Member.Kind == model.KindOperation && member.Member.Op.Suspends {
			return true
		}
	}

	return false
}
