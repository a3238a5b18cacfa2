package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRouting_FollowsAShortestPath(t *testing.T) {
	m := NewMesh(meshConfig([]int{4, 4}, 1))
	r := NewSourceRouting(sourceRoutingConfig())
	hops := driveToTarget(t, m, r, 0, 15, 1, NewRNG(11))
	assert.Equal(t, m.Distance(0, 15), hops)
}

func TestSourceRouting_PathIsFixedAtInitialization(t *testing.T) {
	m := NewTorus(torusConfig([]int{4, 4}, 1))
	r := NewSourceRouting(sourceRoutingConfig())
	r.Initialize(m, nil)
	info := NewRoutingInfo()
	r.InitializeRoutingInfo(info, m, 0, 10, NewRNG(2))
	path := append([]int(nil), info.SelectedPath...)

	for i := 0; i < len(path)-1; i++ {
		candidates := r.Next(info, m, path[i], 10, 1, nil)
		require.NotEmpty(t, candidates)
		loc, _ := m.Neighbour(path[i], candidates[0].Port)
		if loc.Kind == LocationRouterPort {
			assert.Equal(t, path[i+1], loc.RouterIndex)
		}
		info.Hops++
	}
	assert.Equal(t, path, info.SelectedPath)
}

func TestSourceRouting_ExhaustedPathPanics(t *testing.T) {
	m := NewMesh(meshConfig([]int{4, 4}, 1))
	r := NewSourceRouting(sourceRoutingConfig())
	r.Initialize(m, nil)
	info := NewRoutingInfo()
	r.InitializeRoutingInfo(info, m, 0, 15, nil)
	info.Hops = len(info.SelectedPath) // walk past the end deliberately
	// currentRouter 0 is not the router targetServer 15 attaches to, so the
	// candidatesToServer shortcut does not mask the exhausted-path panic.
	assert.Panics(t, func() { r.Next(info, m, 0, 15, 1, nil) })
}
