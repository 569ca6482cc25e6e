package load

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/dst"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// Directive comments recognized on an interface declaration.
const (
	directiveThreadSafe = "//forgegen:threadsafe"
	directiveIsolated   = "//forgegen:isolated"
)

// unexported variables.
var (
	errInterfaceNotFound = errors.New("interface not found")
	errUnsupportedType   = errors.New("unsupported type in interface")
	errTooManyResults    = errors.New("interface method has more than one non-error result")
)

// ifaceDecl carries everything extracted from the declaring file that the
// conversion needs.
type ifaceDecl struct {
	iface      *dst.InterfaceType
	typeParams *dst.FieldList
	decl       *dst.GenDecl
	file       *dst.File
}

// FromGoInterface builds a MockSpec from a named interface declaration found
// in the given parsed files. Leading context.Context parameters and trailing
// error results are folded into the operation's suspend and failure flags.
func FromGoInterface(files []*dst.File, interfaceName string) (model.MockSpec, error) {
	decl, err := findInterface(files, interfaceName)
	if err != nil {
		return model.MockSpec{}, err
	}

	spec := model.MockSpec{
		InterfaceName: interfaceName,
		Concurrency:   declaredConcurrency(decl.decl),
		Scope:         declaredScope(interfaceName),
		Imports:       fileImports(decl.file),
	}

	condition := buildCondition(decl.file)

	for _, name := range typeParamNames(decl.typeParams) {
		spec.Placeholders = append(spec.Placeholders, model.TypePlaceholder{Name: name})
	}

	for _, field := range decl.iface.Methods.List {
		// Embedded interfaces have no names; flattening them is out of scope.
		if len(field.Names) == 0 {
			continue
		}

		funcType, isFunc := field.Type.(*dst.FuncType)
		if !isFunc {
			continue
		}

		op, opErr := convertMethod(field.Names[0].Name, funcType)
		if opErr != nil {
			return model.MockSpec{}, opErr
		}

		spec.Members = append(spec.Members, model.Member{
			Kind:      model.KindOperation,
			Condition: condition,
			Op:        &op,
		})
	}

	if err := model.Validate(spec); err != nil {
		return model.MockSpec{}, err
	}

	return spec, nil
}

// findInterface locates the named interface declaration across the parsed
// files. Grounded on the same inspect walk the rest of the pipeline uses.
func findInterface(files []*dst.File, interfaceName string) (ifaceDecl, error) {
	var found ifaceDecl

	for _, file := range files {
		dst.Inspect(file, func(node dst.Node) bool {
			genDecl, ok := node.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				return true
			}

			for _, spec := range genDecl.Specs {
				typeSpec, isTypeSpec := spec.(*dst.TypeSpec)
				if !isTypeSpec || typeSpec.Name.Name != interfaceName {
					continue
				}

				iface, isInterfaceType := typeSpec.Type.(*dst.InterfaceType)
				if !isInterfaceType {
					continue
				}

				found = ifaceDecl{
					iface:      iface,
					typeParams: typeSpec.TypeParams,
					decl:       genDecl,
					file:       file,
				}

				return false
			}

			return true
		})

		if found.iface != nil {
			break
		}
	}

	if found.iface == nil {
		return ifaceDecl{}, fmt.Errorf("%w: %s", errInterfaceNotFound, interfaceName)
	}

	return found, nil
}

func declaredConcurrency(decl *dst.GenDecl) model.ConcurrencyRequirement {
	for _, line := range decl.Decs.Start.All() {
		switch strings.TrimSpace(line) {
		case directiveThreadSafe:
			return model.ConcurrencyThreadSafe
		case directiveIsolated:
			return model.ConcurrencyIsolationDomain
		}
	}

	return model.ConcurrencyNone
}

func declaredScope(interfaceName string) model.AccessScope {
	first, _ := utf8.DecodeRuneInString(interfaceName)
	if unicode.IsUpper(first) {
		return model.ScopeExported
	}

	return model.ScopeUnexported
}

// buildCondition lifts the declaring file's build constraint, if any, onto
// every member extracted from it.
func buildCondition(file *dst.File) model.BuildCondition {
	for _, line := range file.Decs.Start.All() {
		trimmed := strings.TrimSpace(line)
		if rest, found := strings.CutPrefix(trimmed, "//go:build "); found {
			return model.BuildCondition(rest)
		}
	}

	return ""
}

func fileImports(file *dst.File) []model.Import {
	imports := make([]model.Import, 0, len(file.Imports))

	for _, imp := range file.Imports {
		if imp.Path == nil {
			continue
		}

		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		entry := model.Import{Path: path}
		if imp.Name != nil {
			entry.Alias = imp.Name.Name
		}

		imports = append(imports, entry)
	}

	return imports
}

func typeParamNames(params *dst.FieldList) []string {
	if params == nil {
		return nil
	}

	names := make([]string, 0, len(params.List))

	for _, field := range params.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}

	return names
}

// convertMethod maps a Go method signature onto an operation. A leading
// context.Context parameter marks the operation as suspending and a trailing
// error result marks it fallible; neither survives into the member model.
func convertMethod(name string, funcType *dst.FuncType) (model.Operation, error) {
	op := model.Operation{Name: name}

	params, err := fieldParams(funcType.Params)
	if err != nil {
		return model.Operation{}, fmt.Errorf("method %q: %w", name, err)
	}

	if len(params) > 0 && isContextType(params[0].Type) {
		op.Suspends = true
		params = params[1:]
	}

	op.Params = params

	results, err := fieldParams(funcType.Results)
	if err != nil {
		return model.Operation{}, fmt.Errorf("method %q results: %w", name, err)
	}

	if n := len(results); n > 0 && isErrorType(results[n-1].Type) {
		op.MayFail = true
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
	case 1:
		op.Result = results[0].Type
	default:
		return model.Operation{}, fmt.Errorf("%w: %s", errTooManyResults, name)
	}

	return op, nil
}

func isContextType(t model.TypeExpr) bool {
	named, ok := t.(model.Named)

	return ok && named.Name == "context.Context" && len(named.Args) == 0
}

func isErrorType(t model.TypeExpr) bool {
	named, ok := t.(model.Named)

	return ok && named.Name == "error" && len(named.Args) == 0
}

func fieldParams(fields *dst.FieldList) ([]model.Param, error) {
	if fields == nil {
		return nil, nil
	}

	var params []model.Param

	for _, field := range fields.List {
		fieldType, err := exprToType(field.Type)
		if err != nil {
			return nil, err
		}

		if len(field.Names) == 0 {
			params = append(params, model.Param{Type: fieldType})

			continue
		}

		for _, name := range field.Names {
			params = append(params, model.Param{Name: name.Name, Type: fieldType})
		}
	}

	return params, nil
}

// exprToType converts a Go type expression into the frontend-neutral type
// model. Pointers become optionals, ellipses become slices.
//
//nolint:cyclop,ireturn // One branch per supported expression kind
func exprToType(expr dst.Expr) (model.TypeExpr, error) {
	switch typed := expr.(type) {
	case *dst.Ident:
		return model.Named{Name: typed.Name}, nil
	case *dst.SelectorExpr:
		base, ok := typed.X.(*dst.Ident)
		if !ok {
			return nil, fmt.Errorf("%w: qualified type with non-ident package", errUnsupportedType)
		}

		return model.Named{Name: base.Name + "." + typed.Sel.Name}, nil
	case *dst.StarExpr:
		elem, err := exprToType(typed.X)
		if err != nil {
			return nil, err
		}

		return model.Optional{Elem: elem}, nil
	case *dst.ArrayType:
		if typed.Len != nil {
			return nil, fmt.Errorf("%w: fixed-size array", errUnsupportedType)
		}

		elem, err := exprToType(typed.Elt)
		if err != nil {
			return nil, err
		}

		return model.Slice{Elem: elem}, nil
	case *dst.Ellipsis:
		elem, err := exprToType(typed.Elt)
		if err != nil {
			return nil, err
		}

		return model.Slice{Elem: elem}, nil
	case *dst.MapType:
		return mapToType(typed)
	case *dst.FuncType:
		return funcToType(typed)
	case *dst.IndexExpr:
		return genericToType(typed.X, []dst.Expr{typed.Index})
	case *dst.IndexListExpr:
		return genericToType(typed.X, typed.Indices)
	case *dst.InterfaceType:
		if len(typed.Methods.List) == 0 {
			return model.Named{Name: model.ErasedTypeName}, nil
		}

		return nil, fmt.Errorf("%w: non-empty interface literal", errUnsupportedType)
	default:
		return nil, fmt.Errorf("%w: %T", errUnsupportedType, expr)
	}
}

func mapToType(expr *dst.MapType) (model.TypeExpr, error) {
	key, err := exprToType(expr.Key)
	if err != nil {
		return nil, err
	}

	value, err := exprToType(expr.Value)
	if err != nil {
		return nil, err
	}

	return model.Map{Key: key, Value: value}, nil
}

func funcToType(expr *dst.FuncType) (model.TypeExpr, error) {
	params, err := fieldParams(expr.Params)
	if err != nil {
		return nil, err
	}

	results, err := fieldParams(expr.Results)
	if err != nil {
		return nil, err
	}

	fn := model.Func{}
	for _, param := range params {
		fn.Params = append(fn.Params, param.Type)
	}

	switch len(results) {
	case 0:
	case 1:
		fn.Result = results[0].Type
	default:
		return nil, fmt.Errorf("%w: func type with multiple results", errUnsupportedType)
	}

	return fn, nil
}

func genericToType(base dst.Expr, indices []dst.Expr) (model.TypeExpr, error) {
	named, err := exprToType(base)
	if err != nil {
		return nil, err
	}

	baseNamed, ok := named.(model.Named)
	if !ok {
		return nil, fmt.Errorf("%w: generic instantiation of non-named type", errUnsupportedType)
	}

	for _, index := range indices {
		arg, argErr := exprToType(index)
		if argErr != nil {
			return nil, argErr
		}

		baseNamed.Args = append(baseNamed.Args, arg)
	}

	return baseNamed, nil
}
