package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topofab/topofab/config"
)

func TestValiant_VisitsWaypointAndSumsDistance(t *testing.T) {
	m := NewTorus(torusConfig([]int{4, 4}, 1))
	cv := valiantConfig(dorConfig([]int{0, 1}), dorConfig([]int{0, 1}))
	source, targetServer := 0, 10
	targetLoc, _ := m.ServerNeighbour(targetServer)

	found := false
	for seed := int64(0); seed < 200 && !found; seed++ {
		rng := NewRNG(seed)
		r := NewRouting(RoutingBuilderArgument{CV: cv})
		r.Initialize(m, rng)
		info := NewRoutingInfo()
		r.InitializeRoutingInfo(info, m, source, targetServer, rng)
		if info.Selections[0] != 0 {
			continue // waypoint degenerated to source or target
		}
		waypoint := info.Selections[1]
		found = true

		current := source
		var path []int
		path = append(path, current)
		for i := 0; i < m.NumRouters()+5; i++ {
			candidates := r.Next(info, m, current, targetServer, 1, rng)
			require.NotEmpty(t, candidates)
			chosen := candidates[0]
			r.PerformedRequest(chosen, info, m, current, targetServer, 1, rng)
			nextLoc, _ := m.Neighbour(current, chosen.Port)
			if nextLoc.Kind == LocationServerPort {
				require.Equal(t, targetServer, nextLoc.ServerIndex)
				break
			}
			r.UpdateRoutingInfo(info, m, nextLoc.RouterIndex, nextLoc.RouterPort, targetServer, rng)
			current = nextLoc.RouterIndex
			path = append(path, current)
		}
		assert.Contains(t, path, waypoint)
		assert.Equal(t, m.Distance(source, waypoint)+m.Distance(waypoint, targetLoc.RouterIndex), info.Hops)
	}
	require.True(t, found, "no seed in range produced a non-degenerate waypoint")
}

func TestValiant_EveryWaypointReachesTargetWithoutTooManyHops(t *testing.T) {
	m := NewTorus(torusConfig([]int{4, 4}, 1))
	cv := valiantConfig(dorConfig([]int{0, 1}), dorConfig([]int{0, 1}))
	for seed := int64(0); seed < 24; seed++ {
		rng := NewRNG(seed)
		r := NewRouting(RoutingBuilderArgument{CV: cv})
		hops := driveToTarget(t, m, r, 0, 10, 1, rng)
		// Valiant detours through a uniformly random waypoint, so the hop
		// count can exceed the shortest distance but is still bounded by two
		// shortest-path legs through the farthest possible waypoint.
		assert.LessOrEqual(t, hops, 2*m.Diameter())
	}
}

func TestSumRouting_TryBothPolicyTagsCandidates(t *testing.T) {
	m := NewTorus(torusConfig([]int{4, 4}, 1))
	cv := config.NewObject("SumRouting", []config.Field{
		{Name: "policy", Value: config.NewLiteral("TryBoth")},
		{Name: "first", Value: dorConfig([]int{0, 1})},
		{Name: "second", Value: dorConfig([]int{1, 0})},
		{Name: "first_allowed_virtual_channels", Value: intArray([]int{0})},
		{Name: "second_allowed_virtual_channels", Value: intArray([]int{1})},
	})
	r := NewRouting(RoutingBuilderArgument{CV: cv})
	r.Initialize(m, nil)
	info := NewRoutingInfo()
	r.InitializeRoutingInfo(info, m, 0, 10, nil)
	candidates := r.Next(info, m, 0, 10, 2, nil)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		require.NotNil(t, c.Annotation)
		tag := c.Annotation.Values[0]
		if tag == 0 {
			assert.Equal(t, 0, c.VC)
		} else {
			assert.Equal(t, 1, c.VC)
		}
	}
	// PerformedRequest locks the packet onto whichever sub-routing produced
	// the committed candidate; later hops only offer that sub-routing's
	// candidates.
	committed := candidates[0].Annotation.Values[0]
	r.PerformedRequest(candidates[0], info, m, 0, 10, 2, nil)
	require.Equal(t, []int{committed}, info.Selections)
	afterLock := r.Next(info, m, 0, 10, 2, nil)
	require.NotEmpty(t, afterLock)
	for _, c := range afterLock {
		assert.Equal(t, committed, c.Annotation.Values[0])
	}
}

func TestSumRouting_RandomPolicyCommitsOnce(t *testing.T) {
	m := NewTorus(torusConfig([]int{4, 4}, 1))
	cv := config.NewObject("SumRouting", []config.Field{
		{Name: "policy", Value: config.NewLiteral("Random")},
		{Name: "first", Value: dorConfig([]int{0, 1})},
		{Name: "second", Value: dorConfig([]int{1, 0})},
		{Name: "first_allowed_virtual_channels", Value: intArray([]int{0, 1})},
		{Name: "second_allowed_virtual_channels", Value: intArray([]int{0, 1})},
	})
	for seed := int64(0); seed < 16; seed++ {
		rng := NewRNG(seed)
		r := NewRouting(RoutingBuilderArgument{CV: cv})
		hops := driveToTarget(t, m, r, 0, 10, 2, rng)
		// Whichever sub-routing InitializeRoutingInfo commits to, it alone
		// drives the packet: both are DOR variants, so the hop count always
		// equals the router distance regardless of which was picked.
		assert.Equal(t, m.Distance(0, 10), hops)
	}
}
