package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed templates for every generated
// declaration. Create one with NewTemplateRegistry.
type TemplateRegistry struct {
	headerTmpl           *template.Template
	mockStructDirectTmpl *template.Template
	mockStructLockedTmpl *template.Template
	constructorTmpl      *template.Template
	aliasTmpl            *template.Template
	callableTmpl         *template.Template
	callableAccessorsTmpl *template.Template
	argsStructTmpl        *template.Template
	subscriptSetterTmpl   *template.Template
	setHandlerSetterTmpl  *template.Template
	propertyGetterTmpl    *template.Template
	propertySetterTmpl    *template.Template
	propertyConfigTmpl    *template.Template
	resetTmpl             *template.Template
	condStructTmpl        *template.Template
	condStubTmpl          *template.Template
	lockPreferredTmpl     *template.Template
	lockLegacyTmpl        *template.Template
}

// NewTemplateRegistry parses all templates. Templates are hardcoded
// constants, so parsing cannot fail at runtime; an invalid template is a
// programming error caught at startup.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		headerTmpl:            parseTemplate("header", tmplHeader),
		mockStructDirectTmpl:  parseTemplate("mockStructDirect", tmplMockStructDirect),
		mockStructLockedTmpl:  parseTemplate("mockStructLocked", tmplMockStructLocked),
		constructorTmpl:       parseTemplate("constructor", tmplConstructor),
		aliasTmpl:             parseTemplate("alias", tmplAlias),
		callableTmpl:          parseTemplate("callable", tmplCallable),
		callableAccessorsTmpl: parseTemplate("callableAccessors", tmplCallableAccessors),
		argsStructTmpl:        parseTemplate("argsStruct", tmplArgsStruct),
		subscriptSetterTmpl:   parseTemplate("subscriptSetter", tmplSubscriptSetter),
		setHandlerSetterTmpl:  parseTemplate("setHandlerSetter", tmplSetHandlerSetter),
		propertyGetterTmpl:    parseTemplate("propertyGetter", tmplPropertyGetter),
		propertySetterTmpl:    parseTemplate("propertySetter", tmplPropertySetter),
		propertyConfigTmpl:    parseTemplate("propertyConfigSetter", tmplPropertyConfigSetter),
		resetTmpl:             parseTemplate("reset", tmplReset),
		condStructTmpl:        parseTemplate("condStruct", tmplCondStruct),
		condStubTmpl:          parseTemplate("condStub", tmplCondStub),
		lockPreferredTmpl:     parseTemplate("lockPreferred", tmplLockPreferred),
		lockLegacyTmpl:        parseTemplate("lockLegacy", tmplLockLegacy),
	}
}

func parseTemplate(name, content string) *template.Template {
	return template.Must(template.New(name).Parse(content))
}

// execute writes one template, panicking on failure: every execution error
// here is a template/data mismatch, which is a bug, not an input error.
func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}

// WriteHeader writes the generated-file header: marker comment, optional
// build constraint, package clause, imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) { execute(r.headerTmpl, buf, data) }

// WriteMockStructDirect writes the mock struct with inline storage fields.
func (r *TemplateRegistry) WriteMockStructDirect(buf *bytes.Buffer, data any) {
	execute(r.mockStructDirectTmpl, buf, data)
}

// WriteMockStructLocked writes the mock struct plus its state aggregate.
func (r *TemplateRegistry) WriteMockStructLocked(buf *bytes.Buffer, data any) {
	execute(r.mockStructLockedTmpl, buf, data)
}

// WriteConstructor writes the mock constructor.
func (r *TemplateRegistry) WriteConstructor(buf *bytes.Buffer, data any) {
	execute(r.constructorTmpl, buf, data)
}

// WriteAlias writes a type-placeholder alias.
func (r *TemplateRegistry) WriteAlias(buf *bytes.Buffer, data any) { execute(r.aliasTmpl, buf, data) }

// WriteCallable writes the executable body of an operation or subscript.
func (r *TemplateRegistry) WriteCallable(buf *bytes.Buffer, data any) {
	execute(r.callableTmpl, buf, data)
}

// WriteCallableAccessors writes the lock-guarded count/calls/handler
// accessors of a call-tracked member.
func (r *TemplateRegistry) WriteCallableAccessors(buf *bytes.Buffer, data any) {
	execute(r.callableAccessorsTmpl, buf, data)
}

// WriteArgsStruct writes a member's call-argument record type.
func (r *TemplateRegistry) WriteArgsStruct(buf *bytes.Buffer, data any) {
	execute(r.argsStructTmpl, buf, data)
}

// WriteSubscriptSetter writes a mutable subscript's write accessor.
func (r *TemplateRegistry) WriteSubscriptSetter(buf *bytes.Buffer, data any) {
	execute(r.subscriptSetterTmpl, buf, data)
}

// WriteSetHandlerSetter writes the lock-guarded configuration setter for a
// subscript's set handler.
func (r *TemplateRegistry) WriteSetHandlerSetter(buf *bytes.Buffer, data any) {
	execute(r.setHandlerSetterTmpl, buf, data)
}

// WritePropertyGetter writes a property read accessor.
func (r *TemplateRegistry) WritePropertyGetter(buf *bytes.Buffer, data any) {
	execute(r.propertyGetterTmpl, buf, data)
}

// WritePropertySetter writes a mutable property's public setter.
func (r *TemplateRegistry) WritePropertySetter(buf *bytes.Buffer, data any) {
	execute(r.propertySetterTmpl, buf, data)
}

// WritePropertyConfigSetter writes the configuration setter for a get-only
// property under a lock strategy.
func (r *TemplateRegistry) WritePropertyConfigSetter(buf *bytes.Buffer, data any) {
	execute(r.propertyConfigTmpl, buf, data)
}

// WriteReset writes the reset operation.
func (r *TemplateRegistry) WriteReset(buf *bytes.Buffer, data any) { execute(r.resetTmpl, buf, data) }

// WriteCondStruct writes a condition group's state struct and reset hook.
func (r *TemplateRegistry) WriteCondStruct(buf *bytes.Buffer, data any) {
	execute(r.condStructTmpl, buf, data)
}

// WriteCondStub writes the empty stand-in for an off condition group.
func (r *TemplateRegistry) WriteCondStub(buf *bytes.Buffer, data any) {
	execute(r.condStubTmpl, buf, data)
}

// WriteLockPreferred writes the sync.Mutex lock shim.
func (r *TemplateRegistry) WriteLockPreferred(buf *bytes.Buffer, data any) {
	execute(r.lockPreferredTmpl, buf, data)
}

// WriteLockLegacy writes the channel-semaphore lock shim.
func (r *TemplateRegistry) WriteLockLegacy(buf *bytes.Buffer, data any) {
	execute(r.lockLegacyTmpl, buf, data)
}
