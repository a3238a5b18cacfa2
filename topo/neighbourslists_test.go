package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNeighboursFile = `NODOS 4
GRADO 2
N 0
1 3
N 1
0 2
N 2
1 3
N 3
2 0
`

func TestFileTopology_ParsesAndRoundTrips(t *testing.T) {
	n := NewFileTopology(fileTopologyConfig(sampleNeighboursFile, 1))
	require.Equal(t, 4, n.NumRouters())

	rebuilt := rebuildFromNeighbours(t, n)
	for r := 0; r < n.NumRouters(); r++ {
		for p := 0; p < n.Degree(r); p++ {
			want, wantClass := n.Neighbour(r, p)
			got, gotClass := rebuilt.Neighbour(r, p)
			assert.Equal(t, want, got, "router %d port %d", r, p)
			assert.Equal(t, wantClass, gotClass)
		}
	}
}

// rebuildFromNeighbours serializes n's adjacency back into the NODOS/GRADO/N
// text format and reloads it, exercising the round-trip invariant.
func rebuildFromNeighbours(t *testing.T, n *NeighboursLists) *NeighboursLists {
	t.Helper()
	text := "NODOS " + itoa(n.NumRouters()) + "\n"
	for r := 0; r < n.NumRouters(); r++ {
		neighbours := n.RouterNeighbours(r)
		text += "N " + itoa(r) + "\n"
		for i, e := range neighbours {
			if i > 0 {
				text += " "
			}
			text += itoa(e.Router)
		}
		text += "\n"
	}
	return NewFileTopology(fileTopologyConfig(text, n.serversPerRouter))
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestFileTopology_MissingNodosIsFatal(t *testing.T) {
	assert.Panics(t, func() { NewFileTopology(fileTopologyConfig("N 0\n1\n", 1)) })
}

func TestFileTopology_AsymmetricAdjacencyIsFatal(t *testing.T) {
	broken := "NODOS 2\nN 0\n1\nN 1\n\n"
	assert.Panics(t, func() { NewFileTopology(fileTopologyConfig(broken, 1)) })
}

func TestRandomRegularGraph_DegreeAndNoSelfLoops(t *testing.T) {
	rng := NewRNG(42)
	n := NewRandomRegularGraph(randomRegularConfig(10, 4, 1), rng)
	for r := 0; r < n.NumRouters(); r++ {
		assert.Equal(t, 4, n.Degree(r))
		for p := 0; p < n.Degree(r); p++ {
			loc, _ := n.Neighbour(r, p)
			require.Equal(t, LocationRouterPort, loc.Kind)
			assert.NotEqual(t, r, loc.RouterIndex)
		}
	}
	require.NotPanics(t, func() { CheckAdjacencyConsistency(n, -1) })
}

func TestRandomRegularGraph_DeterministicGivenSeed(t *testing.T) {
	a := NewRandomRegularGraph(randomRegularConfig(8, 4, 1), NewRNG(7))
	b := NewRandomRegularGraph(randomRegularConfig(8, 4, 1), NewRNG(7))
	for r := 0; r < a.NumRouters(); r++ {
		for p := 0; p < a.Degree(r); p++ {
			aLoc, _ := a.Neighbour(r, p)
			bLoc, _ := b.Neighbour(r, p)
			assert.Equal(t, aLoc, bLoc)
		}
	}
}

func TestRandomRegularGraph_OddProductIsFatal(t *testing.T) {
	assert.Panics(t, func() { NewRandomRegularGraph(randomRegularConfig(5, 3, 1), NewRNG(1)) })
}
