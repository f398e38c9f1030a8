package typesys

// ClassElement is a class, mixin or interface declaration.
//
// Supertypes are written in terms of the element's own type parameters;
// Instantiate substitutes them with concrete arguments.
type ClassElement struct {
	Name           string
	TypeParameters []*TypeParameterElement
	Supertype      *InterfaceType
	Mixins         []*InterfaceType
	Interfaces     []*InterfaceType

	isCore bool
}

func (c *ClassElement) isObject() bool {
	return c.isCore && c.Name == "Object"
}

// Instantiate returns the element applied to args with the given
// nullability. The caller guarantees len(args) matches the element's type
// parameters.
func (c *ClassElement) Instantiate(args []Type, n Nullability) *InterfaceType {
	return &InterfaceType{Element: c, TypeArguments: args, Nullable: n}
}

// directSupertypes returns the declared supertypes of t with t's type
// arguments substituted, in extends, with, implements order.
func directSupertypes(t *InterfaceType) []*InterfaceType {
	c := t.Element
	sub := newSubstitution(c.TypeParameters, t.TypeArguments)

	var out []*InterfaceType
	if c.Supertype != nil {
		out = append(out, sub.applyInterface(c.Supertype))
	}
	for _, m := range c.Mixins {
		out = append(out, sub.applyInterface(m))
	}
	for _, i := range c.Interfaces {
		out = append(out, sub.applyInterface(i))
	}
	return out
}

// AllSupertypes returns the linearized set of proper supertypes of t.
//
// The walk is breadth-first over extends, with and implements clauses. Each
// element appears once, at its first occurrence, and Object is always last.
// Hierarchies that loop back onto an already visited element are cut at the
// repeated element.
func AllSupertypes(t *InterfaceType) []*InterfaceType {
	if t == nil {
		return nil
	}

	visited := map[*ClassElement]bool{t.Element: true}
	var (
		out    []*InterfaceType
		object *InterfaceType
	)

	queue := directSupertypes(t)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if visited[next.Element] {
			continue
		}
		visited[next.Element] = true

		if next.Element.isObject() {
			object = next
			continue
		}
		out = append(out, next)
		queue = append(queue, directSupertypes(next)...)
	}

	if object != nil {
		out = append(out, object)
	}
	return out
}

// AsInstanceOf projects t onto element: it returns t itself when t is an
// instantiation of element, or the supertype of t that is, keeping t's
// nullability. It returns nil when element is not in t's hierarchy.
func AsInstanceOf(t *InterfaceType, element *ClassElement) *InterfaceType {
	if t == nil || element == nil {
		return nil
	}
	if t.Element == element {
		return t
	}
	for _, st := range AllSupertypes(t) {
		if st.Element == element {
			return st.WithNullability(t.Nullable).(*InterfaceType)
		}
	}
	return nil
}
