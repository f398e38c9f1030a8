package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supertypeNames(ts []*InterfaceType) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return names
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	lib := NewLibrary()
	require.NoError(t, lib.Declare([]ClassDecl{
		{Name: "Animal"},
		{Name: "Walker"},
		{Name: "Swimmer"},
		{Name: "Dog", Extends: "Animal", With: []string{"Walker"}, Implements: []string{"Swimmer"}},
		{Name: "Puppy", Extends: "Dog"},
		{Name: "Box", TypeParameters: []TypeParameterDecl{{Name: "T", Bound: "num"}}},
		{Name: "IntBox", Extends: "Box<int>"},
		{Name: "Pair", TypeParameters: []TypeParameterDecl{{Name: "A"}, {Name: "B"}}, Implements: []string{"Iterable<A?>"}},
	}))
	return lib
}

func TestParseType(t *testing.T) {
	t.Parallel()
	lib := testLibrary(t)
	scope := NewScope(lib, nil)

	tests := []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"int?", "int?"},
		{"List<int>", "List<int>"},
		{"Map<String, List<int?>>?", "Map<String, List<int?>>?"},
		{"core.String", "String"},
		{"dynamic", "dynamic"},
		{"void", "void"},
		{"Never", "Never"},
		{"Never?", "Null"},
		{"List", "List<dynamic>"},
		{"Box", "Box<num>"},
		{"  Pair < int , double >  ", "Pair<int, double>"},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			t.Parallel()
			got, err := scope.ParseType(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	t.Parallel()
	scope := NewScope(testLibrary(t), nil)

	tests := []struct {
		src string
		err error
	}{
		{"", ErrSyntax},
		{"List<int", ErrSyntax},
		{"int int", ErrSyntax},
		{"List<>", ErrSyntax},
		{"Missing", ErrUnknownType},
		{"Map<int>", ErrTypeArity},
		{"dynamic<int>", ErrTypeArity},
	}
	for _, tc := range tests {
		_, err := scope.ParseType(tc.src)
		assert.ErrorIs(t, err, tc.err, "source %q", tc.src)
	}
}

func TestParseTypeParameter(t *testing.T) {
	t.Parallel()
	lib := testLibrary(t)
	param := &TypeParameterElement{Name: "T"}
	scope := NewScope(lib, []*TypeParameterElement{param})

	got, err := scope.ParseType("List<T?>")
	require.NoError(t, err)

	list, ok := got.(*InterfaceType)
	require.True(t, ok)
	arg, ok := list.TypeArguments[0].(*TypeParameterType)
	require.True(t, ok)
	assert.Same(t, param, arg.Element)
	assert.Equal(t, Nullable, arg.Nullability())

	_, err = scope.ParseType("T<int>")
	assert.ErrorIs(t, err, ErrTypeArity)
}

func TestDeclareErrors(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	err := lib.Declare([]ClassDecl{{Name: "A"}, {Name: "A"}})
	assert.ErrorIs(t, err, ErrDuplicateClass)

	lib = NewLibrary()
	err = lib.Declare([]ClassDecl{{Name: "A", Extends: "int?"}})
	assert.ErrorIs(t, err, ErrBadSupertype)

	lib = NewLibrary()
	err = lib.Declare([]ClassDecl{{Name: "A", Implements: []string{"Unknown"}}})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDeclareShadowsCore(t *testing.T) {
	t.Parallel()
	lib := NewLibrary()
	require.NoError(t, lib.Declare([]ClassDecl{{Name: "Duration"}}))

	local := lib.Class("Duration")
	require.NotNil(t, local)
	assert.NotSame(t, CoreLibrary().Class("Duration"), local)
	assert.Same(t, CoreLibrary().Class("int"), lib.Class("int"))
}

func TestAllSupertypes(t *testing.T) {
	t.Parallel()
	lib := testLibrary(t)
	scope := NewScope(lib, nil)

	tests := []struct {
		src  string
		want []string
	}{
		{"Object", []string{}},
		{"Animal", []string{"Object"}},
		{"Dog", []string{"Animal", "Walker", "Swimmer", "Object"}},
		{"Puppy", []string{"Dog", "Animal", "Walker", "Swimmer", "Object"}},
		{"int", []string{"num", "Comparable<num>", "Object"}},
		{"List<String>", []string{"Iterable<String>", "Object"}},
		{"IntBox", []string{"Box<int>", "Object"}},
		{"Pair<int, String>", []string{"Iterable<int?>", "Object"}},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			t.Parallel()
			typ, err := scope.ParseType(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, supertypeNames(AllSupertypes(typ.(*InterfaceType))))
		})
	}
}

func TestAllSupertypesCycle(t *testing.T) {
	t.Parallel()
	lib := NewLibrary()
	require.NoError(t, lib.Declare([]ClassDecl{
		{Name: "A", Implements: []string{"B"}},
		{Name: "B", Implements: []string{"A"}},
	}))

	got := AllSupertypes(lib.Class("A").Instantiate(nil, NonNullable))
	assert.Equal(t, []string{"B", "Object"}, supertypeNames(got))
	assert.Nil(t, AllSupertypes(nil))
}

func TestDeclareRawSupertypeDeclaredLater(t *testing.T) {
	t.Parallel()
	lib := NewLibrary()
	require.NoError(t, lib.Declare([]ClassDecl{
		{Name: "Wrapper", Implements: []string{"Box"}},
		{Name: "Box", TypeParameters: []TypeParameterDecl{{Name: "T", Bound: "num"}}},
	}))

	wrapper := lib.Class("Wrapper").Instantiate(nil, NonNullable)
	box := AsInstanceOf(wrapper, lib.Class("Box"))
	require.NotNil(t, box)
	assert.Equal(t, "Box<num>", box.String())
}

func TestAsInstanceOf(t *testing.T) {
	t.Parallel()
	lib := testLibrary(t)
	scope := NewScope(lib, nil)
	iterable := lib.Class("Iterable")

	parse := func(src string) *InterfaceType {
		typ, err := scope.ParseType(src)
		require.NoError(t, err)
		return typ.(*InterfaceType)
	}

	assert.Equal(t, "Iterable<int>", AsInstanceOf(parse("List<int>"), iterable).String())
	assert.Equal(t, "Iterable<int>?", AsInstanceOf(parse("Set<int>?"), iterable).String())
	assert.Equal(t, "Iterable<num>", AsInstanceOf(parse("Iterable<num>"), iterable).String())
	assert.Equal(t, "Comparable<num>", AsInstanceOf(parse("double"), lib.Class("Comparable")).String())
	assert.Nil(t, AsInstanceOf(parse("String"), iterable))
	assert.Nil(t, AsInstanceOf(nil, iterable))
	assert.Nil(t, AsInstanceOf(parse("String"), nil))
}

func TestSubstitutionNullability(t *testing.T) {
	t.Parallel()
	lib := testLibrary(t)
	scope := NewScope(lib, nil)

	pair, err := scope.ParseType("Pair<int?, String>")
	require.NoError(t, err)
	got := AsInstanceOf(pair.(*InterfaceType), lib.Class("Iterable"))
	assert.Equal(t, "Iterable<int?>", got.String())
}

func TestPredicates(t *testing.T) {
	t.Parallel()
	scope := NewScope(testLibrary(t), nil)
	parse := func(src string) Type {
		typ, err := scope.ParseType(src)
		require.NoError(t, err)
		return typ
	}

	assert.True(t, IsNullable(parse("int?")))
	assert.True(t, IsNullable(parse("Null")))
	assert.True(t, IsNullable(Dynamic))
	assert.False(t, IsNullable(parse("int")))
	assert.False(t, IsNullable(nil))

	assert.True(t, IsDynamic(Dynamic))
	assert.False(t, IsDynamic(Void))

	assert.True(t, IsDartCoreObject(parse("Object")))
	assert.True(t, IsDartCoreObject(parse("Object?")))
	assert.False(t, IsDartCoreObject(parse("Animal")))

	assert.True(t, IsParameterized(parse("int")))
	assert.False(t, IsParameterized(Never))

	assert.True(t, IsIterable(parse("List<int>")))
	assert.True(t, IsIterable(parse("Pair<int, int>")))
	assert.False(t, IsIterable(parse("Map<int, int>")))
	assert.False(t, IsIterable(Dynamic))

	assert.Nil(t, Element(nil))
	assert.Same(t, CoreLibrary().Class("int"), Element(parse("int?")))
}
