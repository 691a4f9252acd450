package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	c := newFixtureContainer(t)

	_, err := c.CreateOnce(NameOf[*classB]())
	require.NoError(t, err)

	b := c.Inspect(NameOf[*classB]())
	assert.Equal(t, KindClass, b.Kind)
	assert.True(t, b.Created)
	assert.True(t, b.Requested)
	assert.Equal(t, "*crate.classB", b.Type)
	assert.Equal(t, []ServiceName{NameOf[*classA]()}, b.Dependencies)

	a := c.Inspect(NameOf[*classA]())
	assert.True(t, a.Created)
	assert.False(t, a.Requested)

	i := c.Inspect(NameOf[interfaceA]())
	assert.Equal(t, KindInterface, i.Kind)
	assert.Equal(t, NameOf[*implementationA](), i.Implementation)
	assert.False(t, i.Created)
	assert.Equal(t, "unknown", i.Type)

	missing := c.Inspect("Missing")
	assert.Equal(t, Kind(0), missing.Kind)
	assert.False(t, missing.Created)
}

func TestServices(t *testing.T) {
	c := New(newNamedRegistry(t))
	require.NoError(t, c.RegisterNamedInstance("config", map[string]string{}))
	require.NoError(t, c.BindInterface("Other", "ClassA"))

	assert.Equal(t, []ServiceName{
		"ClassA", "ClassB", "ClassC", "ClassD", "ImplementationA", "InterfaceA", "Other", "config",
	}, c.Services())
}

func TestQuery(t *testing.T) {
	c := newFixtureContainer(t)

	_, err := c.CreateOnce(NameOf[*classB]())
	require.NoError(t, err)

	assert.Equal(t, []ServiceName{NameOf[interfaceA]()}, QueryNames(c, ServiceQuery{Kind: KindInterface}))

	created := FindCreated(c)
	require.Len(t, created, 2)
	assert.Equal(t, NameOf[*classA](), created[0].Name)
	assert.Equal(t, NameOf[*classB](), created[1].Name)

	requested := true
	assert.Equal(t, []ServiceName{NameOf[*classB]()}, QueryNames(c, ServiceQuery{Requested: &requested}))

	notCreated := false
	classes := QueryNames(c, ServiceQuery{Kind: KindClass, Created: &notCreated})
	assert.Contains(t, classes, NameOf[*classE]())
	assert.NotContains(t, classes, NameOf[*classA]())
}
