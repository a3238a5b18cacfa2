package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlimFly_P5Primitive2Shape(t *testing.T) {
	s := NewSlimFly(slimFlyConfig(5, 2, 1))
	assert.Equal(t, 50, s.NumRouters())
	assert.Len(t, s.paleySets[0], 2)
	assert.Equal(t, 7, s.Degree(0)) // 2 + 5
	assert.Equal(t, 2, s.Diameter())
}

func TestSlimFly_P5DistanceMatchesPaleyMembership(t *testing.T) {
	s := NewSlimFly(slimFlyConfig(5, 2, 1))
	router0 := (slimFlyCoordinates{local: 0, global: 0, block: 0}).pack(5)
	router1 := (slimFlyCoordinates{local: 1, global: 0, block: 0}).pack(5)
	want := 2
	if contains(s.paleySets[0], 1) {
		want = 1
	}
	assert.Equal(t, want, s.Distance(router0, router1))
}

func TestSlimFly_P7Epsilon(t *testing.T) {
	// p=7 is 3 mod 4, so epsilon=-1 and the Paley set size is (p-epsilon)/2 = 4.
	s := NewSlimFly(slimFlyConfig(7, 0, 1))
	assert.Len(t, s.paleySets[0], (7+1)/2)
}

func TestSlimFly_PaleySetClosedUnderNegation(t *testing.T) {
	s := NewSlimFly(slimFlyConfig(5, 2, 1))
	for b := 0; b < 2; b++ {
		for _, elem := range s.paleySets[b] {
			neg := s.field.Sub(0, elem)
			assert.True(t, contains(s.paleySets[b], neg), "set %d should contain negation of %d", b, elem)
		}
	}
}

func TestSlimFly_IsPrimitiveFindsLeastNonResidue(t *testing.T) {
	field := IntegerIdealRing{Modulo: 5}
	var found int = -1
	for x := 2; x < 5; x++ {
		if field.IsPrimitive(x) {
			found = x
			break
		}
	}
	assert.Equal(t, 2, found)
}

func TestSlimFly_AdjacencyConsistency(t *testing.T) {
	s := NewSlimFly(slimFlyConfig(5, 2, 1))
	require.NotPanics(t, func() { CheckAdjacencyConsistency(s, 2) })
}

func TestSlimFly_GlobalLinkReciprocates(t *testing.T) {
	s := NewSlimFly(slimFlyConfig(5, 2, 1))
	router := (slimFlyCoordinates{local: 2, global: 1, block: 0}).pack(5)
	port := len(s.paleySets[0]) // first global port
	loc, class := s.Neighbour(router, port)
	require.Equal(t, LocationRouterPort, loc.Kind)
	assert.Equal(t, 1, class)
	back, _ := s.Neighbour(loc.RouterIndex, loc.RouterPort)
	assert.Equal(t, router, back.RouterIndex)
}
