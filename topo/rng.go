package topo

import "math/rand"

// RNG is the package's single shared random source. The routing and topology
// framework is single-threaded by contract (see package doc), so this is a
// thin wrapper around *rand.Rand passed explicitly into every call that needs
// randomness rather than a mutex-guarded global: Torus's coordinated routing
// record tie-break, Valiant's waypoint pick, ValiantDOR's randomized
// dimensions, SourceRouting's path pick, and NewRandomRegularGraph's pairing
// algorithm all take an *RNG argument (nil where randomness is optional).
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a fresh RNG. Tests fix the seed to get fully reproducible
// tie-breaking, waypoint selection, and random-regular-graph construction.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform random int in [0,n).
func (g *RNG) Intn(n int) int {
	if g == nil {
		panic("topo: RNG.Intn called on a nil RNG")
	}
	return g.r.Intn(n)
}

// Float64 returns a uniform random float64 in [0,1).
func (g *RNG) Float64() float64 {
	if g == nil {
		panic("topo: RNG.Float64 called on a nil RNG")
	}
	return g.r.Float64()
}

// Bool returns a fair coin flip.
func (g *RNG) Bool() bool {
	if g == nil {
		panic("topo: RNG.Bool called on a nil RNG")
	}
	return g.r.Intn(2) == 1
}
