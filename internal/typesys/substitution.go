package typesys

type substitution map[*TypeParameterElement]Type

func newSubstitution(params []*TypeParameterElement, args []Type) substitution {
	sub := make(substitution, len(params))
	for i, p := range params {
		if i < len(args) {
			sub[p] = args[i]
		}
	}
	return sub
}

func (s substitution) apply(t Type) Type {
	switch t := t.(type) {
	case *TypeParameterType:
		replacement, ok := s[t.Element]
		if !ok {
			return t
		}
		// T? applied to int yields int?; T applied to int? stays int?.
		if t.Nullable == Nullable {
			return replacement.WithNullability(Nullable)
		}
		return replacement
	case *InterfaceType:
		return s.applyInterface(t)
	}
	return t
}

func (s substitution) applyInterface(t *InterfaceType) *InterfaceType {
	if len(s) == 0 || len(t.TypeArguments) == 0 {
		return t
	}
	args := make([]Type, len(t.TypeArguments))
	for i, arg := range t.TypeArguments {
		args[i] = s.apply(arg)
	}
	return &InterfaceType{Element: t.Element, TypeArguments: args, Nullable: t.Nullable}
}
