package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topofab/topofab/config"
)

func TestMindless_NeverOffersAServerPortBeforeArrival(t *testing.T) {
	m := NewMesh(meshConfig([]int{3, 3}, 1))
	r := NewMindless(config.NewObject("Mindless", nil))
	r.Initialize(m, nil)
	info := NewRoutingInfo()
	r.InitializeRoutingInfo(info, m, 0, 8, nil)
	candidates := r.Next(info, m, 0, 8, 1, nil)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		loc, _ := m.Neighbour(0, c.Port)
		assert.Equal(t, LocationRouterPort, loc.Kind)
	}
}

func TestMindless_OffersServerPortAtTargetRouter(t *testing.T) {
	m := NewMesh(meshConfig([]int{3, 3}, 1))
	r := NewMindless(config.NewObject("Mindless", nil))
	r.Initialize(m, nil)
	info := NewRoutingInfo()
	r.InitializeRoutingInfo(info, m, 0, 0, nil)
	candidates := r.Next(info, m, 0, 0, 1, nil)
	require.NotEmpty(t, candidates)
	loc, _ := m.Neighbour(0, candidates[0].Port)
	assert.Equal(t, LocationServerPort, loc.Kind)
}

func TestStubborn_ReplaysCommittedChoiceUntilNextRouter(t *testing.T) {
	m := NewMesh(meshConfig([]int{3, 3}, 1))
	r := NewStubborn(RoutingBuilderArgument{CV: config.NewObject("Stubborn", []config.Field{
		{Name: "routing", Value: dorConfig([]int{0, 1})},
	})})
	rng := NewRNG(3)
	r.Initialize(m, rng)
	info := NewRoutingInfo()
	r.InitializeRoutingInfo(info, m, 0, 8, rng)

	offered := r.Next(info, m, 0, 8, 2, rng)
	require.NotEmpty(t, offered)
	chosen := offered[0]
	r.PerformedRequest(chosen, info, m, 0, 8, 2, rng)

	// Once committed, the same single candidate is replayed at this router.
	replay := r.Next(info, m, 0, 8, 2, rng)
	require.Len(t, replay, 1)
	assert.Equal(t, chosen.Port, replay[0].Port)
	assert.Equal(t, chosen.VC, replay[0].VC)

	// Crossing into the next router clears the commitment.
	loc, _ := m.Neighbour(0, chosen.Port)
	require.Equal(t, LocationRouterPort, loc.Kind)
	r.UpdateRoutingInfo(info, m, loc.RouterIndex, loc.RouterPort, 8, rng)
	assert.Nil(t, info.Selections)
	fresh := r.Next(info, m, loc.RouterIndex, 8, 2, rng)
	require.NotEmpty(t, fresh)
}

func TestStubborn_DrivesToTarget(t *testing.T) {
	m := NewMesh(meshConfig([]int{3, 3}, 1))
	r := NewStubborn(RoutingBuilderArgument{CV: config.NewObject("Stubborn", []config.Field{
		{Name: "routing", Value: dorConfig([]int{0, 1})},
	})})
	hops := driveToTarget(t, m, r, 0, 8, 1, NewRNG(5))
	assert.Equal(t, m.Distance(0, 8), hops)
}
