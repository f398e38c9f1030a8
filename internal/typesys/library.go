package typesys

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateClass = errors.New("duplicate class declaration")
	ErrBadSupertype   = errors.New("invalid supertype")
)

// TypeParameterDecl is the written form of a type parameter.
type TypeParameterDecl struct {
	Name  string `yaml:"name"`
	Bound string `yaml:"bound,omitempty"`
}

// ClassDecl is the written form of a class declaration. Supertypes are type
// expressions resolved in the scope of the class's own type parameters.
type ClassDecl struct {
	Name           string              `yaml:"name"`
	TypeParameters []TypeParameterDecl `yaml:"typeParameters,omitempty"`
	Extends        string              `yaml:"extends,omitempty"`
	With           []string            `yaml:"with,omitempty"`
	Implements     []string            `yaml:"implements,omitempty"`
}

// Library is a set of class declarations, optionally layered on a parent
// library whose classes are visible but shadowed by local ones.
type Library struct {
	parent  *Library
	classes map[string]*ClassElement
}

// NewLibrary returns an empty library that imports the core library.
func NewLibrary() *Library {
	return &Library{parent: CoreLibrary(), classes: make(map[string]*ClassElement)}
}

// Class looks up a class by name, searching parent libraries.
func (l *Library) Class(name string) *ClassElement {
	for lib := l; lib != nil; lib = lib.parent {
		if c, ok := lib.classes[name]; ok {
			return c
		}
	}
	return nil
}

// Declare adds decls to the library. Declarations may refer to each other
// in any order.
func (l *Library) Declare(decls []ClassDecl) error {
	return l.declare(decls, false)
}

func (l *Library) declare(decls []ClassDecl, core bool) error {
	elements := make([]*ClassElement, len(decls))
	for i, d := range decls {
		if d.Name == "" {
			return fmt.Errorf("%w: class #%d has no name", ErrBadSupertype, i)
		}
		if _, ok := l.classes[d.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateClass, d.Name)
		}
		c := &ClassElement{Name: d.Name, isCore: core}
		for _, p := range d.TypeParameters {
			c.TypeParameters = append(c.TypeParameters, &TypeParameterElement{Name: p.Name})
		}
		l.classes[d.Name] = c
		elements[i] = c
	}

	// bounds first: a raw supertype instantiates to its bounds, which may
	// belong to a class declared later in decls
	for i, d := range decls {
		if err := l.resolveBounds(elements[i], d); err != nil {
			return fmt.Errorf("class %s: %w", d.Name, err)
		}
	}
	for i, d := range decls {
		if err := l.resolveSupertypes(elements[i], d); err != nil {
			return fmt.Errorf("class %s: %w", d.Name, err)
		}
	}
	return nil
}

func (l *Library) resolveBounds(c *ClassElement, d ClassDecl) error {
	scope := NewScope(l, c.TypeParameters)
	for i, p := range d.TypeParameters {
		if p.Bound == "" {
			continue
		}
		bound, err := scope.ParseType(p.Bound)
		if err != nil {
			return fmt.Errorf("bound of %s: %w", p.Name, err)
		}
		c.TypeParameters[i].Bound = bound
	}
	return nil
}

func (l *Library) resolveSupertypes(c *ClassElement, d ClassDecl) error {
	scope := NewScope(l, c.TypeParameters)

	extends := d.Extends
	if extends == "" && !c.isObject() {
		extends = "Object"
	}
	if extends != "" {
		st, err := scope.parseSupertype(extends)
		if err != nil {
			return err
		}
		c.Supertype = st
	}

	for _, m := range d.With {
		st, err := scope.parseSupertype(m)
		if err != nil {
			return err
		}
		c.Mixins = append(c.Mixins, st)
	}
	for _, i := range d.Implements {
		st, err := scope.parseSupertype(i)
		if err != nil {
			return err
		}
		c.Interfaces = append(c.Interfaces, st)
	}
	return nil
}

var coreDeclarations = []ClassDecl{
	{Name: "Object"},
	{Name: "Null"},
	{Name: "Comparable", TypeParameters: []TypeParameterDecl{{Name: "T"}}},
	{Name: "Pattern"},
	{Name: "num", Implements: []string{"Comparable<num>"}},
	{Name: "int", Extends: "num"},
	{Name: "double", Extends: "num"},
	{Name: "String", Implements: []string{"Comparable<String>", "Pattern"}},
	{Name: "bool"},
	{Name: "Function"},
	{Name: "Record"},
	{Name: "Enum"},
	{Name: "Duration", Implements: []string{"Comparable<Duration>"}},
	{Name: "DateTime", Implements: []string{"Comparable<DateTime>"}},
	{Name: "Iterable", TypeParameters: []TypeParameterDecl{{Name: "E"}}},
	{Name: "List", TypeParameters: []TypeParameterDecl{{Name: "E"}}, Implements: []string{"Iterable<E>"}},
	{Name: "Set", TypeParameters: []TypeParameterDecl{{Name: "E"}}, Implements: []string{"Iterable<E>"}},
	{Name: "Map", TypeParameters: []TypeParameterDecl{{Name: "K"}, {Name: "V"}}},
	{Name: "MapEntry", TypeParameters: []TypeParameterDecl{{Name: "K"}, {Name: "V"}}},
	{Name: "Future", TypeParameters: []TypeParameterDecl{{Name: "T"}}},
	{Name: "Stream", TypeParameters: []TypeParameterDecl{{Name: "T"}}},
}

var (
	coreOnce sync.Once
	core     *Library
)

// CoreLibrary returns the shared dart:core subset every library imports.
// It is immutable once built.
func CoreLibrary() *Library {
	coreOnce.Do(func() {
		lib := &Library{classes: make(map[string]*ClassElement)}
		if err := lib.declare(coreDeclarations, true); err != nil {
			panic(fmt.Sprintf("typesys: core library: %v", err))
		}
		core = lib
	})
	return core
}

// IsIterable reports whether t is Iterable or one of its subtypes.
func IsIterable(t Type) bool {
	it, ok := t.(*InterfaceType)
	if !ok {
		return false
	}
	return AsInstanceOf(it, CoreLibrary().Class("Iterable")) != nil
}
