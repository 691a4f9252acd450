package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type valueClass struct {
	n int
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, ServiceName("*github.com/xraph/crate.classA"), NameOf[*classA]())
	assert.Equal(t, ServiceName("github.com/xraph/crate.classA"), NameOf[classA]())
	assert.Equal(t, ServiceName("**github.com/xraph/crate.classA"), NameOf[**classA]())
	assert.Equal(t, ServiceName("github.com/xraph/crate.interfaceA"), NameOf[interfaceA]())

	// Builtins and unnamed types have no service name.
	assert.Empty(t, NameOf[string]())
	assert.Empty(t, NameOf[int]())
	assert.Empty(t, NameOf[error]())
	assert.Empty(t, NameOf[[]*classA]())
	assert.Empty(t, NameOf[map[string]any]())
	assert.Empty(t, NameOf[struct{}]())
	assert.Empty(t, NameOf[Kind]()) // named, but not a struct or interface
}

func TestProvide_AnalyzesParameters(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Provide(newClassE))

	info, ok := reg.Lookup(NameOf[*classE]())
	require.True(t, ok)
	assert.Equal(t, KindClass, info.Kind)
	assert.Equal(t, []ServiceName{NameOf[*classA](), NameOf[*classB]()}, info.Dependencies())
	assert.Equal(t, 1, info.Params[1].Index)
}

func TestProvide_UntypedParameterIsRecorded(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Provide(newClassG))

	info, ok := reg.Lookup(NameOf[*classG]())
	require.True(t, ok)
	require.Len(t, info.Params, 2)
	assert.Equal(t, NameOf[*classA](), info.Params[0].Type)
	assert.Empty(t, info.Params[1].Type)
}

func TestProvide_InvalidConstructors(t *testing.T) {
	tests := []struct {
		name string
		ctor any
	}{
		{"nil", nil},
		{"not a function", 42},
		{"no results", func() {}},
		{"only error", func() error { return nil }},
		{"second result not error", func() (*classA, int) { return nil, 0 }},
		{"three results", func() (*classA, *classB, error) { return nil, nil, nil }},
		{"interface result", func() interfaceA { return nil }},
		{"builtin result", func() string { return "" }},
		{"variadic", func(a ...*classA) *classB { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewTypeRegistry()

			err := reg.Provide(tt.ctor)
			assert.ErrorIs(t, err, ErrInvalidConstructorSentinel)
			assert.Empty(t, reg.Names())
		})
	}
}

func TestProvide_Duplicate(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Provide(newClassB))

	err := reg.Provide(func(a *classA) *classB { return &classB{} })
	assert.ErrorIs(t, err, ErrTypeAlreadyRegisteredSentinel)
	assert.Equal(t, NameOf[*classB](), ServiceOf(err))
}

func TestProvide_ConstructorWithError(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Provide(func() (*classA, error) { return &classA{}, nil }))

	info, _ := reg.Lookup(NameOf[*classA]())
	instance, err := info.Construct(nil)
	require.NoError(t, err)
	assert.IsType(t, &classA{}, instance)
}

func TestConstruct_ArgumentChecks(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Provide(newClassB))

	info, _ := reg.Lookup(NameOf[*classB]())

	_, err := info.Construct(nil)
	assert.ErrorIs(t, err, ErrInvalidConstructorSentinel)

	_, err = info.Construct([]any{"wrong"})
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)

	// A nil argument becomes the zero value of the parameter.
	instance, err := info.Construct([]any{nil})
	require.NoError(t, err)
	assert.Nil(t, instance.(*classB).a)
}

func TestProvideType(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, ProvideType[*classA](reg))
	require.NoError(t, ProvideType[valueClass](reg))

	ptr, _ := reg.Lookup(NameOf[*classA]())
	assert.Empty(t, ptr.Params)

	a1, err := ptr.Construct(nil)
	require.NoError(t, err)
	a2, err := ptr.Construct(nil)
	require.NoError(t, err)
	assert.IsType(t, &classA{}, a1)
	assert.NotSame(t, a1, a2)

	val, _ := reg.Lookup(NameOf[valueClass]())
	v, err := val.Construct(nil)
	require.NoError(t, err)
	assert.Equal(t, valueClass{}, v)
}

func TestProvideType_Invalid(t *testing.T) {
	reg := NewTypeRegistry()

	assert.ErrorIs(t, ProvideType[string](reg), ErrInvalidConstructorSentinel)
	assert.ErrorIs(t, ProvideType[interfaceA](reg), ErrInvalidConstructorSentinel)
	assert.ErrorIs(t, ProvideType[**classA](reg), ErrInvalidConstructorSentinel)
}

func TestDeclareInterface(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, DeclareInterface[interfaceA](reg))

	info, ok := reg.Lookup(NameOf[interfaceA]())
	require.True(t, ok)
	assert.Equal(t, KindInterface, info.Kind)
	assert.NotNil(t, info.Type)

	assert.ErrorIs(t, DeclareInterface[*classA](reg), ErrInvalidConstructorSentinel)
	assert.ErrorIs(t, DeclareInterface[error](reg), ErrInvalidConstructorSentinel)
	assert.ErrorIs(t, DeclareInterface[interfaceA](reg), ErrTypeAlreadyRegisteredSentinel)
}
