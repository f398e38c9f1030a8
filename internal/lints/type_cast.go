package lints

import "github.com/gnolang/dlint/internal/typesys"

// TypeCast asks whether asserting Target against a value of static type
// Source tells anything the type system does not already know.
type TypeCast struct {
	Source typesys.Type
	Target typesys.Type
}

// IsUnnecessaryTypeCheck reports whether the assertion always has the same
// outcome. With reversed set the assertion is the negated form (`is!`).
//
// Whenever the answer cannot be proven from the two types alone the check
// is considered necessary.
func (c TypeCast) IsUnnecessaryTypeCheck(reversed bool) bool {
	if c.Source == nil || c.Target == nil {
		return false
	}

	// only the assertion can tell null apart
	if typesys.IsNullable(c.Source) && !typesys.IsNullable(c.Target) {
		return false
	}

	projected := c.castTypeInHierarchy()
	if projected == nil {
		return reversed
	}

	if !typeArgumentsAreUnnecessary(projected, c.Target) {
		return false
	}

	return !reversed
}

// castTypeInHierarchy returns Source viewed as an instance of Target's
// declaration, or nil when Target is not an ancestor of Source.
func (c TypeCast) castTypeInHierarchy() typesys.Type {
	if el := typesys.Element(c.Source); el != nil && el == typesys.Element(c.Target) {
		return c.Source
	}

	source, ok := c.Source.(*typesys.InterfaceType)
	if !ok {
		return nil
	}
	target, ok := c.Target.(*typesys.InterfaceType)
	if !ok {
		return nil
	}
	if projected := typesys.AsInstanceOf(source, target.Element); projected != nil {
		return projected
	}
	return nil
}

func typeArgumentsAreUnnecessary(source, target typesys.Type) bool {
	s, ok := source.(*typesys.InterfaceType)
	if !ok {
		return false
	}
	t, ok := target.(*typesys.InterfaceType)
	if !ok {
		return false
	}
	if len(s.TypeArguments) != len(t.TypeArguments) {
		return false
	}

	for i := range s.TypeArguments {
		arg := TypeCast{Source: s.TypeArguments[i], Target: t.TypeArguments[i]}
		if !arg.IsUnnecessaryTypeCheck(false) {
			return false
		}
	}
	return true
}
