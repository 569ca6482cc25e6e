package generate

// Template sources for every generated declaration. Formatting quirks in the
// raw output (extra blank lines, spacing inside braces) are normalized by
// the goimports pass in render.

const tmplHeader = `// Code generated by forgegen. DO NOT EDIT.

{{if .Tag}}//go:build {{.Tag}}

{{end}}package {{.PackageName}}
{{if or .Imports .NeedsContext .NeedsSync}}
import (
{{- if .NeedsContext}}
	"context"
{{- end}}
{{- if .NeedsSync}}
	"sync"
{{- end}}
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
`

const tmplMockStructDirect = `
// {{.MockType}} is a synthesized test double for {{.InterfaceName}}.
// Configure behavior through the handler fields, then inspect the recorded
// calls through the tracking fields. The zero value is usable, but
// {{.Constructor}} is the supported entry point.
type {{.MockType}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
{{- range .Embeds}}
	{{.}}
{{- end}}
}
`

const tmplMockStructLocked = `
// {{.MockType}} is a synthesized test double for {{.InterfaceName}}.
// Every read and write of its generated state happens inside one
// mutual-exclusion lock scoped to this instance; handlers always run with
// the lock released. Create instances with {{.Constructor}}.
type {{.MockType}} struct {
	lock  {{.LockType}}
	state {{.StateType}}
}

// {{.StateType}} aggregates every tracking, backing, and handler field of
// {{.MockType}}. All access goes through the mock's lock.
type {{.StateType}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
{{- range .Embeds}}
	{{.}}
{{- end}}
}
`

const tmplConstructor = `
// {{.Constructor}} returns a {{.MockType}} with no behavior configured.
func {{.Constructor}}() *{{.MockType}} {
	mock := &{{.MockType}}{}
{{- if .Locked}}
	mock.lock.init()
{{- end}}

	return mock
}
`

const tmplAlias = `
// {{.Doc}}
type {{.AliasName}} = {{.Target}}
`

const tmplCallable = `
// {{.Doc}}
{{- if .ErasedNote}}
// {{.ErasedNote}}
{{- end}}
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.MethodName}}({{.Params}}){{.Results}} {
{{- if .Locked}}
	m.lock.lock()
{{- end}}
	{{.StateRef}}{{.CountField}}++
	{{.StateRef}}{{.CallsField}} = append({{.StateRef}}{{.CallsField}}, {{.ArgsType}}{ {{.ArgsLiteral}} })
	handler := {{.StateRef}}{{.HandlerField}}
{{- if .Locked}}
	m.lock.unlock()
{{- end}}
{{- if .RequiresHandler}}

	if handler == nil {
		panic("{{.QualifiedName}}: no handler configured")
	}

	{{if .HasResults}}return {{end}}handler({{.CallArgs}})
{{- else}}

	if handler != nil {
		handler({{.CallArgs}})
	}
{{- end}}
}
`

const tmplCallableAccessors = `
// {{.CountAccessor}} reports how many times {{.MethodName}} was called.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.CountAccessor}}() int {
	m.lock.lock()
	defer m.lock.unlock()

	return m.state.{{.CountField}}
}

// {{.CallsAccessor}} returns the arguments of every recorded {{.MethodName}}
// call, in call order.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.CallsAccessor}}() []{{.ArgsType}} {
	m.lock.lock()
	defer m.lock.unlock()

	return append([]{{.ArgsType}}(nil), m.state.{{.CallsField}}...)
}

// {{.HandlerSetter}} installs the behavior {{.MethodName}} runs on each call.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.HandlerSetter}}(handler {{.HandlerType}}) {
	m.lock.lock()
	defer m.lock.unlock()

	m.state.{{.HandlerField}} = handler
}
`

const tmplArgsStruct = `
// {{.ArgsType}} records the arguments of one {{.MethodName}} call.
type {{.ArgsType}} struct {
{{- range .ArgsFields}}
	{{.Name}} {{.Type}}
{{- end}}
}
`

const tmplSubscriptSetter = `
// {{.SetterName}} writes through the configured set handler, when present.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.SetterName}}({{.SetterParams}}) {
{{- if .Locked}}
	m.lock.lock()
	handler := m.state.{{.SetHandlerField}}
	m.lock.unlock()
{{- else}}
	handler := m.{{.SetHandlerField}}
{{- end}}

	if handler != nil {
		handler({{.SetterCallArgs}})
	}
}
`

const tmplSetHandlerSetter = `
// {{.SetHandlerSetter}} installs the behavior {{.SetterName}} runs on each
// write.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.SetHandlerSetter}}(handler {{.SetHandlerType}}) {
	m.lock.lock()
	defer m.lock.unlock()

	m.state.{{.SetHandlerField}} = handler
}
`

const tmplPropertyGetter = `
// {{.Doc}}
{{- if not .OptionalDeclared}}
// Reading it before it is configured panics; set the backing value first.
{{- end}}
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.Getter}}() {{.DeclaredType}} {
{{- if .OptionalDeclared}}
{{- if .Locked}}
	m.lock.lock()
	defer m.lock.unlock()

	return m.state.{{.BackingField}}
{{- else}}
	return m.{{.BackingField}}
{{- end}}
{{- else}}
{{- if .Locked}}
	m.lock.lock()
	value := m.state.{{.BackingField}}
	m.lock.unlock()

	return *value
{{- else}}
	return *m.{{.BackingField}}
{{- end}}
{{- end}}
}
`

const tmplPropertySetter = `
// {{.Setter}} stores the value {{.Getter}} returns.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.Setter}}(value {{.DeclaredType}}) {
{{- if .Locked}}
	m.lock.lock()
	defer m.lock.unlock()
{{- end}}
{{- if .OptionalDeclared}}
	{{.StateRef}}{{.BackingField}} = value
{{- else}}
	{{.StateRef}}{{.BackingField}} = &value
{{- end}}
}
`

const tmplPropertyConfigSetter = `
// {{.ConfigSetter}} configures the value {{.Getter}} returns.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.ConfigSetter}}(value {{.DeclaredType}}) {
	m.lock.lock()
	defer m.lock.unlock()

{{- if .OptionalDeclared}}
	m.state.{{.BackingField}} = value
{{- else}}
	m.state.{{.BackingField}} = &value
{{- end}}
}
`

const tmplReset = `
// {{.ResetName}} restores {{.MockType}} to its initial state: call counts
// to zero, call logs to empty, handlers and backing values to unset.
// {{.ResetName}} is idempotent.
{{- if .ConcurrentNote}}
// Safe for concurrent use from any goroutine.
{{- end}}
func (m *{{.MockType}}) {{.ResetName}}() {
{{- if .Locked}}
	m.lock.lock()
	defer m.lock.unlock()
{{- end}}
{{- range .Fields}}
	{{$.StateRef}}{{.Name}} = {{.Zero}}
{{- end}}
{{- range .GroupHooks}}
	{{.}}()
{{- end}}
}
`

const tmplCondStruct = `
// {{.CondType}} holds the generated state for members guarded by the
// "{{.Condition}}" build condition.
type {{.CondType}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

func (g *{{.CondType}}) {{.ResetHook}}() {
{{- range .Resets}}
	g.{{.Name}} = {{.Zero}}
{{- end}}
}
`

const tmplCondStub = `
// {{.CondType}} is the empty stand-in for builds where the "{{.Condition}}"
// build condition is off.
type {{.CondType}} struct{}

func (g *{{.CondType}}) {{.ResetHook}}() {}
`

const tmplLockPreferred = `
// {{.LockType}} serializes access to the mock's generated state.
type {{.LockType}} struct {
	mu sync.Mutex
}

func (l *{{.LockType}}) init() {}

func (l *{{.LockType}}) lock() { l.mu.Lock() }

func (l *{{.LockType}}) unlock() { l.mu.Unlock() }
`

const tmplLockLegacy = `
// {{.LockType}} serializes access to the mock's generated state with a
// channel semaphore, for targets without the preferred lock primitive.
// The semaphore is created on first use, so the zero value locks correctly.
type {{.LockType}} struct {
	once sync.Once
	sem  chan struct{}
}

func (l *{{.LockType}}) init() { l.once.Do(func() { l.sem = make(chan struct{}, 1) }) }

func (l *{{.LockType}}) lock() {
	l.init()
	l.sem <- struct{}{}
}

func (l *{{.LockType}}) unlock() { <-l.sem }
`
