package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjective_P3Shape(t *testing.T) {
	g := NewProjective(projectiveConfig(3, 1))
	assert.Equal(t, 13, g.NumRouters()) // 3^2+3+1
	assert.Equal(t, 2, g.Diameter())
	for r := 0; r < g.NumRouters(); r++ {
		assert.Equal(t, 4, g.Degree(r)) // p+1
	}
}

func TestProjective_P2IncidenceHandVerified(t *testing.T) {
	// Points of PG(2,2): index 0 -> [1,0,0], 1 -> [0,1,0], 2 -> [1,1,0],
	// 3 -> [0,0,1], 4 -> [1,0,1], 5 -> [0,1,1], 6 -> [1,1,1].
	assert.True(t, projectiveIncident(2, 0, 3))  // [1,0,0].[0,0,1]=0
	assert.False(t, projectiveIncident(2, 0, 0)) // [1,0,0].[1,0,0]=1 mod 2 != 0
	assert.True(t, projectiveIncident(2, 1, 4))  // [0,1,0].[1,0,1]=0
}

func TestProjective_DistanceMatchesIncidence(t *testing.T) {
	g := NewProjective(projectiveConfig(5, 1))
	for a := 0; a < g.NumRouters(); a++ {
		for b := 0; b < g.NumRouters(); b++ {
			switch {
			case a == b:
				assert.Equal(t, 0, g.Distance(a, b))
			case projectiveIncident(5, a, b):
				assert.Equal(t, 1, g.Distance(a, b))
			default:
				assert.Equal(t, 2, g.Distance(a, b))
			}
		}
	}
}

func TestProjective_SelfDualIncidenceIsSymmetric(t *testing.T) {
	for _, p := range []int{2, 3, 5} {
		for i := 0; i < p*p+p+1; i++ {
			for j := 0; j < p*p+p+1; j++ {
				assert.Equal(t, projectiveIncident(p, i, j), projectiveIncident(p, j, i))
			}
		}
	}
}

func TestProjective_AdjacencyConsistency(t *testing.T) {
	g := NewProjective(projectiveConfig(3, 1))
	require.NotPanics(t, func() { CheckAdjacencyConsistency(g, 1) })
}

func TestLeviProjective_Shape(t *testing.T) {
	g := NewLeviProjective(leviProjectiveConfig(3, 1))
	assert.Equal(t, 26, g.NumRouters()) // 2*(p^2+p+1)
	assert.Equal(t, 3, g.Diameter())
}

func TestLeviProjective_DistanceByPartition(t *testing.T) {
	g := NewLeviProjective(leviProjectiveConfig(3, 1))
	n := g.n
	// Two points (same partition): distance 2, unless identical.
	assert.Equal(t, 2, g.Distance(0, 1))
	// A point and an incident line: distance 1.
	point, line := 0, -1
	for j := 0; j < n; j++ {
		if projectiveIncident(3, point, j) {
			line = j
			break
		}
	}
	require.GreaterOrEqual(t, line, 0)
	assert.Equal(t, 1, g.Distance(point, n+line))
}

func TestLeviProjective_AdjacencyConsistency(t *testing.T) {
	g := NewLeviProjective(leviProjectiveConfig(2, 1))
	require.NotPanics(t, func() { CheckAdjacencyConsistency(g, 1) })
}

func TestIsPrime(t *testing.T) {
	primes := map[int]bool{2: true, 3: true, 4: false, 5: true, 6: false, 7: true, 9: false, 1: false}
	for n, want := range primes {
		assert.Equal(t, want, isPrime(n), "isPrime(%d)", n)
	}
}
