package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// unexported variables.
var (
	errEmptyType      = errors.New("empty type expression")
	errBadType        = errors.New("malformed type expression")
	errTrailingInput  = errors.New("unexpected trailing input in type expression")
	errBadAnnotation  = errors.New("capture annotations are only valid on function types")
	errUnclosedBrace  = errors.New("unclosed bracket in type expression")
	errMissingElement = errors.New("missing element type")
)

// MustParseType parses src and panics on error. Intended for tests and
// hardcoded defaults.
func MustParseType(src string) TypeExpr {
	t, err := ParseType(src)
	if err != nil {
		panic(err)
	}

	return t
}

// ParseType parses the spec text syntax into a TypeExpr. The grammar:
//
//	type   := ann* core ("?" | "!")*
//	ann    := "@" ident
//	core   := "[]" type | "map[" type "]" type
//	        | "func" "(" [type ("," type)*] ")" [type]
//	        | "(" type ")" | named
//	named  := ident ("." ident)? ("[" type ("," type)* "]")?
func ParseType(src string) (TypeExpr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errEmptyType
	}

	parser := &typeParser{src: src}
	parser.skipSpace()

	t, err := parser.parseType()
	if err != nil {
		return nil, err
	}

	parser.skipSpace()

	if !parser.done() {
		return nil, fmt.Errorf("%w: %q at offset %d", errTrailingInput, src, parser.pos)
	}

	return t, nil
}

// typeParser is a recursive-descent scanner over the type text syntax.
type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parseType() (TypeExpr, error) {
	annotations, err := p.parseAnnotations()
	if err != nil {
		return nil, err
	}

	core, err := p.parseCore()
	if err != nil {
		return nil, err
	}

	if len(annotations) > 0 {
		funcCore, ok := core.(Func)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errBadAnnotation, p.src)
		}

		funcCore.Annotations = annotations
		core = funcCore
	}

	return p.parsePostfix(core), nil
}

func (p *typeParser) parseAnnotations() ([]string, error) {
	var annotations []string

	for {
		p.skipSpace()

		if !p.consume("@") {
			return annotations, nil
		}

		name := p.ident()
		if name == "" {
			return nil, fmt.Errorf("%w: missing annotation name in %q", errBadType, p.src)
		}

		annotations = append(annotations, name)
	}
}

//nolint:cyclop // Dispatch over every core production of the grammar
func (p *typeParser) parseCore() (TypeExpr, error) {
	p.skipSpace()

	switch {
	case p.consume("[]"):
		elem, err := p.parseType()
		if err != nil {
			return nil, fmt.Errorf("%w in %q", errMissingElement, p.src)
		}

		return Slice{Elem: elem}, nil
	case p.consume("map["):
		return p.parseMap()
	case p.consumeWord("func"):
		return p.parseFunc()
	case p.consume("("):
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if !p.consume(")") {
			return nil, fmt.Errorf("%w: %q", errUnclosedBrace, p.src)
		}

		return inner, nil
	default:
		return p.parseNamed()
	}
}

func (p *typeParser) parseMap() (TypeExpr, error) {
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.consume("]") {
		return nil, fmt.Errorf("%w: %q", errUnclosedBrace, p.src)
	}

	value, err := p.parseType()
	if err != nil {
		return nil, err
	}

	return Map{Key: key, Value: value}, nil
}

func (p *typeParser) parseFunc() (TypeExpr, error) {
	p.skipSpace()

	if !p.consume("(") {
		return nil, fmt.Errorf("%w: func missing parameter list in %q", errBadType, p.src)
	}

	var params []TypeExpr

	p.skipSpace()

	for !p.consume(")") {
		if len(params) > 0 && !p.consume(",") {
			return nil, fmt.Errorf("%w: %q", errUnclosedBrace, p.src)
		}

		param, err := p.parseType()
		if err != nil {
			return nil, err
		}

		params = append(params, param)
		p.skipSpace()
	}

	// A result type is present when the remaining input still starts a type.
	p.skipSpace()

	if p.startsType() {
		result, err := p.parseType()
		if err != nil {
			return nil, err
		}

		return Func{Params: params, Result: result}, nil
	}

	return Func{Params: params}, nil
}

func (p *typeParser) parseNamed() (TypeExpr, error) {
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("%w: %q at offset %d", errBadType, p.src, p.pos)
	}

	if p.consume(".") {
		selector := p.ident()
		if selector == "" {
			return nil, fmt.Errorf("%w: dangling qualifier in %q", errBadType, p.src)
		}

		name = name + "." + selector
	}

	if !p.consume("[") {
		return Named{Name: name}, nil
	}

	var args []TypeExpr

	p.skipSpace()

	for !p.consume("]") {
		if len(args) > 0 && !p.consume(",") {
			return nil, fmt.Errorf("%w: %q", errUnclosedBrace, p.src)
		}

		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
		p.skipSpace()
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty argument list in %q", errBadType, p.src)
	}

	return Named{Name: name, Args: args}, nil
}

func (p *typeParser) parsePostfix(core TypeExpr) TypeExpr {
	for {
		switch {
		case p.consume("?"):
			core = Optional{Elem: core}
		case p.consume("!"):
			core = Unwrapped{Elem: core}
		default:
			return core
		}
	}
}

// startsType reports whether the remaining input begins a type expression.
// Used to decide whether a func type declares a result.
func (p *typeParser) startsType() bool {
	if p.done() {
		return false
	}

	next := p.src[p.pos]

	return next == '[' || next == '(' || next == '@' || next == '_' ||
		unicode.IsLetter(rune(next)) || strings.HasPrefix(p.src[p.pos:], "map[")
}

func (p *typeParser) consume(prefix string) bool {
	p.skipSpace()

	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)

		return true
	}

	return false
}

// consumeWord consumes keyword only when it is not a prefix of a longer
// identifier (so "funcs" parses as a named type, not a func).
func (p *typeParser) consumeWord(keyword string) bool {
	p.skipSpace()

	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, keyword) {
		return false
	}

	rest = rest[len(keyword):]
	if rest != "" && isIdentByte(rest[0]) {
		return false
	}

	p.pos += len(keyword)

	return true
}

func (p *typeParser) ident() string {
	p.skipSpace()

	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}

	return p.src[start:p.pos]
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) done() bool {
	return p.pos >= len(p.src)
}

func isIdentByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
