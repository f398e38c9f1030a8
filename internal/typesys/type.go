package typesys

import "strings"

// Nullability is the nullability suffix of a type.
type Nullability int

const (
	NonNullable Nullability = iota
	Nullable
)

// Type is a resolved static type as reported by the host analyzer.
type Type interface {
	// String returns the type as it would be written in source.
	String() string
	// Nullability reports whether the type carries a `?` suffix.
	Nullability() Nullability
	// WithNullability returns a copy of the type with the given nullability.
	WithNullability(n Nullability) Type
}

// InterfaceType is an instantiation of a class declaration.
type InterfaceType struct {
	Element       *ClassElement
	TypeArguments []Type
	Nullable      Nullability
}

func (t *InterfaceType) Nullability() Nullability { return t.Nullable }

func (t *InterfaceType) WithNullability(n Nullability) Type {
	if t.Nullable == n {
		return t
	}
	cp := *t
	cp.Nullable = n
	return &cp
}

func (t *InterfaceType) String() string {
	var b strings.Builder
	b.WriteString(t.Element.Name)
	if len(t.TypeArguments) > 0 {
		b.WriteByte('<')
		for i, arg := range t.TypeArguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte('>')
	}
	if t.Nullable == Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// TypeParameterElement declares a type parameter of a class or of the
// enclosing function of an expression.
type TypeParameterElement struct {
	Name  string
	Bound Type
}

// TypeParameterType is a reference to a type parameter.
type TypeParameterType struct {
	Element  *TypeParameterElement
	Nullable Nullability
}

func (t *TypeParameterType) Nullability() Nullability { return t.Nullable }

func (t *TypeParameterType) WithNullability(n Nullability) Type {
	if t.Nullable == n {
		return t
	}
	return &TypeParameterType{Element: t.Element, Nullable: n}
}

func (t *TypeParameterType) String() string {
	if t.Nullable == Nullable {
		return t.Element.Name + "?"
	}
	return t.Element.Name
}

type specialType struct {
	name     string
	nullable Nullability
}

func (t *specialType) String() string           { return t.name }
func (t *specialType) Nullability() Nullability { return t.nullable }

// WithNullability is a no-op: the nullability of special types is fixed.
func (t *specialType) WithNullability(Nullability) Type { return t }

var (
	// Dynamic is the `dynamic` type.
	Dynamic Type = &specialType{name: "dynamic", nullable: Nullable}
	// Void is the `void` type.
	Void Type = &specialType{name: "void", nullable: Nullable}
	// Never is the bottom type.
	Never Type = &specialType{name: "Never", nullable: NonNullable}
)

// IsNullable reports whether null is a member of t.
func IsNullable(t Type) bool {
	if t == nil {
		return false
	}
	if it, ok := t.(*InterfaceType); ok && it.Element.Name == "Null" && it.Element.isCore {
		return true
	}
	return t.Nullability() == Nullable
}

// IsDynamic reports whether t is `dynamic`.
func IsDynamic(t Type) bool {
	return t == Dynamic
}

// IsTypeParameter reports whether t is a reference to a type parameter.
func IsTypeParameter(t Type) bool {
	_, ok := t.(*TypeParameterType)
	return ok
}

// IsDartCoreObject reports whether t is the universal `Object` type,
// regardless of its nullability.
func IsDartCoreObject(t Type) bool {
	it, ok := t.(*InterfaceType)
	return ok && it.Element.isObject()
}

// IsParameterized reports whether t is an instantiation of a class, the
// only kind of type that can carry type arguments.
func IsParameterized(t Type) bool {
	_, ok := t.(*InterfaceType)
	return ok
}

// Element returns the declaration t refers to: a *ClassElement, a
// *TypeParameterElement, or the special type itself for dynamic, void and
// Never. It returns nil for a nil type.
func Element(t Type) any {
	switch t := t.(type) {
	case *InterfaceType:
		return t.Element
	case *TypeParameterType:
		return t.Element
	case *specialType:
		return t
	}
	return nil
}
