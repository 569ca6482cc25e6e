// Package generate synthesizes a mock's declaration tree from a validated
// member model. Synthesis is a pure function of the spec: no state survives
// between calls, and unchanged input produces byte-identical output.
package generate

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/tools/imports"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
	resolve "github.com/mockforge/mockforge/forgegen/run/3_resolve"
	strategy "github.com/mockforge/mockforge/forgegen/run/4_strategy"
)

// Options is the engine's configuration surface.
type Options struct {
	// PackageName is the package clause of every generated file.
	PackageName string
	// ForceLegacyLocks emits only the portable channel-semaphore lock,
	// unconditionally, instead of the dual capability-guarded emission.
	ForceLegacyLocks bool
}

// File is one generated source file.
type File struct {
	Name    string
	Content string
}

// Output is the ordered set of generated files: the primary file first,
// then lock shims, then condition groups sorted by normalized condition
// text (each followed by its stub).
type Output struct {
	Files []File
}

// Mock synthesizes the full test double for spec.
func Mock(spec model.MockSpec, opts Options) (Output, error) {
	if err := model.Validate(spec); err != nil {
		return Output{}, fmt.Errorf("invalid mock spec: %w", err)
	}

	suffixes, err := resolve.OverloadSuffixes(spec)
	if err != nil {
		return Output{}, fmt.Errorf("invalid mock spec: %w", err)
	}

	pkgName := opts.PackageName
	if pkgName == "" {
		pkgName = "mocks"
	}

	strat := strategy.Select(spec.Concurrency, opts.ForceLegacyLocks)
	ctx := newSynthContext(spec, suffixes, strat, pkgName)
	templates := NewTemplateRegistry()
	unconditioned, groups := partition(spec.Members)

	var files []File

	addFile := func(name, raw string) error {
		formatted, fmtErr := formatSource(name, raw)
		if fmtErr != nil {
			return fmtErr
		}

		files = append(files, File{Name: name, Content: formatted})

		return nil
	}

	if err := addFile(ctx.names.FileBase+".go", renderPrimary(ctx, templates, unconditioned, groups)); err != nil {
		return Output{}, err
	}

	for _, lockFile := range renderLockFiles(ctx, templates) {
		if err := addFile(lockFile.Name, lockFile.Content); err != nil {
			return Output{}, err
		}
	}

	for i, group := range groups {
		groupNum := i + 1

		active := renderCondition(ctx, templates, group, groupNum)
		if err := addFile(condFileName(ctx.names, groupNum, false), active); err != nil {
			return Output{}, err
		}

		stub := renderConditionStub(ctx, templates, group, groupNum)
		if err := addFile(condFileName(ctx.names, groupNum, true), stub); err != nil {
			return Output{}, err
		}
	}

	return Output{Files: files}, nil
}

// headerData feeds the file header template.
type headerData struct {
	Tag          string
	PackageName  string
	Imports      []model.Import
	NeedsContext bool
	NeedsSync    bool
}

// structData feeds the mock/state struct templates.
type structData struct {
	MockType      string
	InterfaceName string
	Constructor   string
	LockType      string
	StateType     string
	Locked        bool
	Fields        []fieldData
	Embeds        []string
}

// resetData feeds the reset template.
type resetData struct {
	ResetName      string
	MockType       string
	Locked         bool
	StateRef       string
	ConcurrentNote bool
	Fields         []resetField
	GroupHooks     []string
}

// condData feeds the condition group templates.
type condData struct {
	CondType  string
	Condition string
	ResetHook string
	Fields    []fieldData
	Resets    []resetField
}

// lockData feeds the lock shim templates.
type lockData struct {
	LockType string
}

func renderPrimary(
	ctx *synthContext, templates *TemplateRegistry, unconditioned []indexedMember, groups []conditionGroup,
) string {
	var buf bytes.Buffer

	templates.WriteHeader(&buf, headerData{
		PackageName:  ctx.pkgName,
		Imports:      ctx.spec.Imports,
		NeedsContext: needsContext(unconditioned),
	})

	embeds := make([]string, len(groups))
	for i := range groups {
		embeds[i] = ctx.names.condTypeName(i + 1)
	}

	var fields []fieldData
	for _, member := range unconditioned {
		fields = append(fields, ctx.memberFields(member)...)
	}

	structInfo := structData{
		MockType:      ctx.names.MockType,
		InterfaceName: ctx.spec.InterfaceName,
		Constructor:   ctx.names.Constructor,
		LockType:      ctx.names.LockType,
		StateType:     ctx.names.StateType,
		Locked:        ctx.locked(),
		Fields:        fields,
		Embeds:        embeds,
	}

	if ctx.locked() {
		templates.WriteMockStructLocked(&buf, structInfo)
	} else {
		templates.WriteMockStructDirect(&buf, structInfo)
	}

	templates.WriteConstructor(&buf, structInfo)

	for _, placeholder := range ctx.spec.Placeholders {
		templates.WriteAlias(&buf, ctx.buildAlias(placeholder))
	}

	for _, member := range unconditioned {
		writeMember(ctx, templates, &buf, member)
	}

	templates.WriteReset(&buf, buildResetData(ctx, unconditioned, len(groups)))

	return buf.String()
}

func renderCondition(
	ctx *synthContext, templates *TemplateRegistry, group conditionGroup, groupNum int,
) string {
	var buf bytes.Buffer

	templates.WriteHeader(&buf, headerData{
		Tag:          group.Normalized,
		PackageName:  ctx.pkgName,
		Imports:      ctx.spec.Imports,
		NeedsContext: needsContext(group.Members),
	})

	var fields []fieldData

	var resets []resetField

	for _, member := range group.Members {
		fields = append(fields, ctx.memberFields(member)...)
		resets = append(resets, ctx.memberResetFields(member)...)
	}

	templates.WriteCondStruct(&buf, condData{
		CondType:  ctx.names.condTypeName(groupNum),
		Condition: group.Normalized,
		ResetHook: ctx.names.condResetName(groupNum),
		Fields:    fields,
		Resets:    resets,
	})

	for _, member := range group.Members {
		writeMember(ctx, templates, &buf, member)
	}

	return buf.String()
}

func renderConditionStub(
	ctx *synthContext, templates *TemplateRegistry, group conditionGroup, groupNum int,
) string {
	var buf bytes.Buffer

	templates.WriteHeader(&buf, headerData{
		Tag:         "!(" + group.Normalized + ")",
		PackageName: ctx.pkgName,
	})

	templates.WriteCondStub(&buf, condData{
		CondType:  ctx.names.condTypeName(groupNum),
		Condition: group.Normalized,
		ResetHook: ctx.names.condResetName(groupNum),
	})

	return buf.String()
}

// renderLockFiles emits the lock shim files for lock-based strategies:
// both variants behind the capability build tag for DualLock, just the
// portable variant (untagged) for LegacyLock, nothing for Direct.
func renderLockFiles(ctx *synthContext, templates *TemplateRegistry) []File {
	switch ctx.strat {
	case strategy.Direct:
		return nil
	case strategy.DualLock:
		var preferred bytes.Buffer

		templates.WriteHeader(&preferred, headerData{
			Tag:         "!forge_legacy_locks",
			PackageName: ctx.pkgName,
			NeedsSync:   true,
		})
		templates.WriteLockPreferred(&preferred, lockData{LockType: ctx.names.LockType})

		var legacy bytes.Buffer

		templates.WriteHeader(&legacy, headerData{
			Tag:         "forge_legacy_locks",
			PackageName: ctx.pkgName,
			NeedsSync:   true,
		})
		templates.WriteLockLegacy(&legacy, lockData{LockType: ctx.names.LockType})

		return []File{
			{Name: ctx.names.FileBase + "_lock.go", Content: preferred.String()},
			{Name: ctx.names.FileBase + "_lock_legacy.go", Content: legacy.String()},
		}
	case strategy.LegacyLock:
		var legacy bytes.Buffer

		templates.WriteHeader(&legacy, headerData{PackageName: ctx.pkgName, NeedsSync: true})
		templates.WriteLockLegacy(&legacy, lockData{LockType: ctx.names.LockType})

		return []File{{Name: ctx.names.FileBase + "_lock.go", Content: legacy.String()}}
	default:
		panic("unhandled storage strategy")
	}
}

// writeMember dispatches one member to its kind's templates.
func writeMember(ctx *synthContext, templates *TemplateRegistry, buf *bytes.Buffer, member indexedMember) {
	switch member.Member.Kind {
	case model.KindOperation:
		data := ctx.buildOperation(member.Member.Op, ctx.suffixes[member.Index])
		writeCallable(templates, buf, data)
	case model.KindSubscript:
		data := ctx.buildSubscript(member.Member.Sub, ctx.suffixes[member.Index])
		writeCallable(templates, buf, data)

		if data.HasSetter {
			templates.WriteSubscriptSetter(buf, data)

			if data.Locked {
				templates.WriteSetHandlerSetter(buf, data)
			}
		}
	case model.KindProperty:
		data := ctx.buildProperty(member.Member.Prop)
		templates.WritePropertyGetter(buf, data)

		switch {
		case data.Mutable:
			templates.WritePropertySetter(buf, data)
		case data.Locked:
			templates.WritePropertyConfigSetter(buf, data)
		}
	case model.KindPlaceholder:
		templates.WriteAlias(buf, ctx.buildAlias(*member.Member.Alias))
	default:
		panic("unhandled member kind")
	}
}

func writeCallable(templates *TemplateRegistry, buf *bytes.Buffer, data callableData) {
	templates.WriteCallable(buf, data)

	if data.Locked {
		templates.WriteCallableAccessors(buf, data)
	}

	templates.WriteArgsStruct(buf, data)
}

// buildResetData assembles the reset operation over the unconditioned
// fields plus one hook per condition group.
func buildResetData(ctx *synthContext, unconditioned []indexedMember, groupCount int) resetData {
	var fields []resetField
	for _, member := range unconditioned {
		fields = append(fields, ctx.memberResetFields(member)...)
	}

	hooks := make([]string, groupCount)
	for i := range hooks {
		hooks[i] = ctx.stateRef() + ctx.names.condResetName(i+1)
	}

	return resetData{
		ResetName:      scopeIdent(ctx.spec.Scope, "Reset"),
		MockType:       ctx.names.MockType,
		Locked:         ctx.locked(),
		StateRef:       ctx.stateRef(),
		ConcurrentNote: ctx.crossIso,
		Fields:         fields,
		GroupHooks:     hooks,
	}
}

func condFileName(n names, groupNum int, stub bool) string {
	name := n.FileBase + "_cond" + strconv.Itoa(groupNum)
	if stub {
		name += "_stub"
	}

	return sanitizeFileName(name) + ".go"
}

// formatSource runs the goimports pass over one generated file: gofmt
// formatting plus import hygiene, so header import blocks only need to be
// approximately right.
func formatSource(name, src string) (string, error) {
	formatted, err := imports.Process(name, []byte(src), nil)
	if err != nil {
		return "", fmt.Errorf("error formatting generated %s: %w", name, err)
	}

	return string(formatted), nil
}
