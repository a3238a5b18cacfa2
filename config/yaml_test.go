package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAML_MappingBecomesNamedObject(t *testing.T) {
	doc := `
name: Mesh
sides: [4, 4]
servers_per_router: 1
`
	v, err := FromYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, Object, v.Kind())
	assert.Equal(t, "Mesh", v.ObjectName())

	sides, ok := v.Field("sides")
	require.True(t, ok)
	assert.Equal(t, []int{4, 4}, sides.AsIntSlice())

	spr, ok := v.Field("servers_per_router")
	require.True(t, ok)
	assert.Equal(t, 1, spr.AsInt())

	_, ok = v.Field("name")
	assert.False(t, ok, "name is consumed as the object name, not a field")
}

func TestFromYAML_NestedObjectsAndArrays(t *testing.T) {
	doc := `
name: Valiant
first:
  name: DOR
  order: [0, 1]
second:
  name: DOR
  order: [1, 0]
`
	v, err := FromYAML([]byte(doc))
	require.NoError(t, err)
	first := v.RequireField("first")
	assert.Equal(t, "DOR", first.ObjectName())
	assert.Equal(t, []int{0, 1}, first.RequireField("order").AsIntSlice())
}

func TestFromYAML_BoolAndNumberScalars(t *testing.T) {
	doc := `
name: OmniDimensionalDeroute
allowed_deroutes: 2
include_labels: true
`
	v, err := FromYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, v.RequireField("allowed_deroutes").AsInt())
	assert.True(t, v.RequireField("include_labels").AsBool())
}

func TestFromYAML_UnquotedStringBecomesLiteral(t *testing.T) {
	doc := `
name: SumRouting
policy: TryBoth
`
	v, err := FromYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "TryBoth", v.RequireField("policy").AsLiteral())
}

func TestFromYAML_EmptyDocumentErrors(t *testing.T) {
	_, err := FromYAML([]byte(""))
	assert.Error(t, err)
}

func TestFromYAML_InvalidYAMLErrors(t *testing.T) {
	_, err := FromYAML([]byte("sides: [1, 2\n"))
	assert.Error(t, err)
}
