// Package load builds MockSpec values from the supported frontends: YAML
// spec files and Go interface declarations. Everything downstream of this
// package treats the resulting spec as immutable.
package load

import (
	"errors"
	"fmt"

	"sigs.k8s.io/yaml"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// unexported variables.
var (
	errNoVariant    = errors.New("member has no variant set")
	errManyVariants = errors.New("member has more than one variant set")
	errBadEnum      = errors.New("unrecognized enum value")
)

// specFile is the YAML wire schema. sigs.k8s.io/yaml routes through JSON
// struct tags.
type specFile struct {
	Interface    string             `json:"interface"`
	Concurrency  string             `json:"concurrency,omitempty"`
	Scope        string             `json:"scope,omitempty"`
	Imports      []importEntry      `json:"imports,omitempty"`
	Placeholders []placeholderEntry `json:"placeholders,omitempty"`
	Members      []memberEntry      `json:"members,omitempty"`
}

type importEntry struct {
	Alias string `json:"alias,omitempty"`
	Path  string `json:"path"`
}

type placeholderEntry struct {
	Name    string `json:"name"`
	Default string `json:"default,omitempty"`
}

type memberEntry struct {
	Condition   string            `json:"condition,omitempty"`
	Op          *operationEntry   `json:"op,omitempty"`
	Property    *propertyEntry    `json:"property,omitempty"`
	Subscript   *subscriptEntry   `json:"subscript,omitempty"`
	Placeholder *placeholderEntry `json:"placeholder,omitempty"`
}

type operationEntry struct {
	Name     string       `json:"name"`
	Params   []paramEntry `json:"params,omitempty"`
	Result   string       `json:"result,omitempty"`
	Suspends bool         `json:"suspends,omitempty"`
	MayFail  bool         `json:"mayFail,omitempty"`
	Generics []string     `json:"generics,omitempty"`
}

type paramEntry struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

type propertyEntry struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Mutable bool   `json:"mutable,omitempty"`
}

type subscriptEntry struct {
	Params   []paramEntry `json:"params"`
	Result   string       `json:"result"`
	Mutable  bool         `json:"mutable,omitempty"`
	Generics []string     `json:"generics,omitempty"`
}

// FromYAML decodes a YAML mock spec into the member model and validates it.
func FromYAML(data []byte) (model.MockSpec, error) {
	var file specFile

	err := yaml.UnmarshalStrict(data, &file)
	if err != nil {
		return model.MockSpec{}, fmt.Errorf("failed to decode mock spec: %w", err)
	}

	spec := model.MockSpec{InterfaceName: file.Interface}

	spec.Concurrency, err = parseConcurrency(file.Concurrency)
	if err != nil {
		return model.MockSpec{}, err
	}

	spec.Scope, err = parseScope(file.Scope)
	if err != nil {
		return model.MockSpec{}, err
	}

	for _, imp := range file.Imports {
		spec.Imports = append(spec.Imports, model.Import{Alias: imp.Alias, Path: imp.Path})
	}

	for _, entry := range file.Placeholders {
		placeholder, holderErr := convertPlaceholder(entry)
		if holderErr != nil {
			return model.MockSpec{}, holderErr
		}

		spec.Placeholders = append(spec.Placeholders, placeholder)
	}

	for i, entry := range file.Members {
		member, memberErr := convertMember(entry)
		if memberErr != nil {
			return model.MockSpec{}, fmt.Errorf("member %d: %w", i, memberErr)
		}

		spec.Members = append(spec.Members, member)
	}

	if err := model.Validate(spec); err != nil {
		return model.MockSpec{}, err
	}

	return spec, nil
}

func parseConcurrency(value string) (model.ConcurrencyRequirement, error) {
	switch value {
	case "", "none":
		return model.ConcurrencyNone, nil
	case "threadsafe":
		return model.ConcurrencyThreadSafe, nil
	case "isolated":
		return model.ConcurrencyIsolationDomain, nil
	default:
		return 0, fmt.Errorf("%w: concurrency %q", errBadEnum, value)
	}
}

func parseScope(value string) (model.AccessScope, error) {
	switch value {
	case "", "exported":
		return model.ScopeExported, nil
	case "unexported":
		return model.ScopeUnexported, nil
	default:
		return 0, fmt.Errorf("%w: scope %q", errBadEnum, value)
	}
}

//nolint:cyclop // One branch per member variant
func convertMember(entry memberEntry) (model.Member, error) {
	variants := 0
	for _, set := range []bool{
		entry.Op != nil, entry.Property != nil, entry.Subscript != nil, entry.Placeholder != nil,
	} {
		if set {
			variants++
		}
	}

	switch {
	case variants == 0:
		return model.Member{}, errNoVariant
	case variants > 1:
		return model.Member{}, errManyVariants
	}

	member := model.Member{Condition: model.BuildCondition(entry.Condition)}

	switch {
	case entry.Op != nil:
		op, err := convertOperation(*entry.Op)
		if err != nil {
			return model.Member{}, err
		}

		member.Kind = model.KindOperation
		member.Op = &op
	case entry.Property != nil:
		prop, err := convertProperty(*entry.Property)
		if err != nil {
			return model.Member{}, err
		}

		member.Kind = model.KindProperty
		member.Prop = &prop
	case entry.Subscript != nil:
		sub, err := convertSubscript(*entry.Subscript)
		if err != nil {
			return model.Member{}, err
		}

		member.Kind = model.KindSubscript
		member.Sub = &sub
	default:
		placeholder, err := convertPlaceholder(*entry.Placeholder)
		if err != nil {
			return model.Member{}, err
		}

		member.Kind = model.KindPlaceholder
		member.Alias = &placeholder
	}

	return member, nil
}

func convertOperation(entry operationEntry) (model.Operation, error) {
	op := model.Operation{
		Name:     entry.Name,
		Suspends: entry.Suspends,
		MayFail:  entry.MayFail,
		Generics: entry.Generics,
	}

	params, err := convertParams(entry.Params)
	if err != nil {
		return model.Operation{}, fmt.Errorf("operation %q: %w", entry.Name, err)
	}

	op.Params = params

	if entry.Result != "" {
		op.Result, err = model.ParseType(entry.Result)
		if err != nil {
			return model.Operation{}, fmt.Errorf("operation %q result: %w", entry.Name, err)
		}
	}

	return op, nil
}

func convertProperty(entry propertyEntry) (model.Property, error) {
	propType, err := model.ParseType(entry.Type)
	if err != nil {
		return model.Property{}, fmt.Errorf("property %q: %w", entry.Name, err)
	}

	return model.Property{Name: entry.Name, Type: propType, Mutable: entry.Mutable}, nil
}

func convertSubscript(entry subscriptEntry) (model.Subscript, error) {
	params, err := convertParams(entry.Params)
	if err != nil {
		return model.Subscript{}, fmt.Errorf("subscript: %w", err)
	}

	result, err := model.ParseType(entry.Result)
	if err != nil {
		return model.Subscript{}, fmt.Errorf("subscript result: %w", err)
	}

	return model.Subscript{
		Params:   params,
		Result:   result,
		Mutable:  entry.Mutable,
		Generics: entry.Generics,
	}, nil
}

func convertPlaceholder(entry placeholderEntry) (model.TypePlaceholder, error) {
	placeholder := model.TypePlaceholder{Name: entry.Name}

	if entry.Default != "" {
		defaultType, err := model.ParseType(entry.Default)
		if err != nil {
			return model.TypePlaceholder{}, fmt.Errorf("placeholder %q default: %w", entry.Name, err)
		}

		placeholder.Default = defaultType
	}

	return placeholder, nil
}

func convertParams(entries []paramEntry) ([]model.Param, error) {
	params := make([]model.Param, 0, len(entries))

	for i, entry := range entries {
		paramType, err := model.ParseType(entry.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}

		params = append(params, model.Param{Name: entry.Name, Type: paramType})
	}

	return params, nil
}
