package typesys

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrSyntax      = errors.New("malformed type expression")
	ErrUnknownType = errors.New("unknown type")
	ErrTypeArity   = errors.New("wrong number of type arguments")
)

// Scope resolves type names: type parameters first, then library classes.
type Scope struct {
	lib    *Library
	params map[string]*TypeParameterElement
}

// NewScope returns a scope over lib with params visible.
func NewScope(lib *Library, params []*TypeParameterElement) *Scope {
	s := &Scope{lib: lib, params: make(map[string]*TypeParameterElement, len(params))}
	for _, p := range params {
		s.params[p.Name] = p
	}
	return s
}

// ParseType parses a written type such as `Map<String, List<int?>>?`.
func (s *Scope) ParseType(src string) (Type, error) {
	p := &typeParser{scope: s, src: src, toks: tokenizeType(src)}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrSyntax, p.peek(), src)
	}
	return t, nil
}

func (s *Scope) parseSupertype(src string) (*InterfaceType, error) {
	t, err := s.ParseType(src)
	if err != nil {
		return nil, err
	}
	it, ok := t.(*InterfaceType)
	if !ok || it.Nullable == Nullable {
		return nil, fmt.Errorf("%w: %s", ErrBadSupertype, src)
	}
	return it, nil
}

func tokenizeType(src string) []string {
	var toks []string
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '<' || r == '>' || r == ',' || r == '?':
			toks = append(toks, string(r))
			i++
		default:
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			if start == i {
				// unknown punctuation becomes its own token and fails in the parser
				toks = append(toks, string(r))
				i++
				continue
			}
			toks = append(toks, string(runes[start:i]))
		}
	}
	return toks
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type typeParser struct {
	scope *Scope
	src   string
	toks  []string
	pos   int
}

func (p *typeParser) done() bool { return p.pos >= len(p.toks) }

func (p *typeParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *typeParser) accept(tok string) bool {
	if p.peek() == tok {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) parseType() (Type, error) {
	name := p.peek()
	if name == "" || !isIdentRune([]rune(name)[0]) {
		return nil, fmt.Errorf("%w: expected a type name in %q", ErrSyntax, p.src)
	}
	p.pos++
	// import prefixes are irrelevant to resolution
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	var args []Type
	if p.accept("<") {
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.accept(",") {
				continue
			}
			if p.accept(">") {
				break
			}
			return nil, fmt.Errorf("%w: expected ',' or '>' in %q", ErrSyntax, p.src)
		}
	}

	nullability := NonNullable
	if p.accept("?") {
		nullability = Nullable
	}

	return p.resolve(name, args, nullability)
}

func (p *typeParser) resolve(name string, args []Type, n Nullability) (Type, error) {
	switch name {
	case "dynamic", "void", "Never":
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %s takes none", ErrTypeArity, name)
		}
		switch {
		case name == "dynamic":
			return Dynamic, nil
		case name == "void":
			return Void, nil
		case n == Nullable:
			return CoreLibrary().Class("Null").Instantiate(nil, NonNullable), nil
		}
		return Never, nil
	}

	if param, ok := p.scope.params[name]; ok {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: type parameter %s takes none", ErrTypeArity, name)
		}
		return &TypeParameterType{Element: param, Nullable: n}, nil
	}

	c := p.scope.lib.Class(name)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	switch {
	case len(args) == len(c.TypeParameters):
	case len(args) == 0:
		// a raw type is instantiated to the bounds of its parameters
		args = make([]Type, len(c.TypeParameters))
		for i, tp := range c.TypeParameters {
			args[i] = Dynamic
			if tp.Bound != nil {
				args[i] = tp.Bound
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrTypeArity, name, len(c.TypeParameters), len(args))
	}
	return c.Instantiate(args, n), nil
}
