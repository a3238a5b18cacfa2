package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

func isPrime(p int) bool {
	if p < 2 {
		return false
	}
	for d := 2; d*d <= p; d++ {
		if p%d == 0 {
			return false
		}
	}
	return true
}

// projectivePoint returns the (a,b,c) representative of a normalized point
// index in the finite projective plane over Z_p: index 0 is [1,0,0], indices
// [1,p] are [x,1,0] for x in [0,p), and indices [p+1, p^2+p] are [x,y,1].
func projectivePoint(p, index int) (a, b, c int) {
	switch {
	case index == 0:
		return 1, 0, 0
	case index <= p:
		return index - 1, 1, 0
	default:
		rem := index - 1 - p
		return rem % p, rem / p, 1
	}
}

func projectiveIncident(p int, i, j int) bool {
	a1, b1, c1 := projectivePoint(p, i)
	a2, b2, c2 := projectivePoint(p, j)
	return mod(a1*a2+b1*b2+c1*c2, p) == 0
}

// flatGeometryCache is the incidence cache shared by Projective and
// LeviProjective: for every point/line index, the list of incident
// lines/points, and for each entry the reciprocal offset (the index of the
// origin within the target's own incidence list), precomputed so routing
// never has to search.
type flatGeometryCache struct {
	incidence  [][]int
	reciprocal [][]int
}

func buildFlatGeometryCache(p int) flatGeometryCache {
	n := p*p + p + 1
	incidence := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if projectiveIncident(p, i, j) {
				incidence[i] = append(incidence[i], j)
			}
		}
	}
	reciprocal := make([][]int, n)
	for i := 0; i < n; i++ {
		reciprocal[i] = make([]int, len(incidence[i]))
		for k, j := range incidence[i] {
			found := -1
			for m, candidate := range incidence[j] {
				if candidate == i {
					found = m
					break
				}
			}
			if found == -1 {
				panic(fmt.Sprintf("topo: projective incidence cache is inconsistent at (%d,%d)", i, j))
			}
			reciprocal[i][k] = found
		}
	}
	return flatGeometryCache{incidence: incidence, reciprocal: reciprocal}
}

// Projective is the finite projective plane over Z_p (p prime): a self-dual
// incidence geometry with p^2+p+1 points and an equal number of lines, every
// point incident to exactly p+1 lines. Because the plane is self-dual,
// point and line indices coincide and routers are simply the points. Link
// class 0 is incidence; the server-attachment class is 1. Diameter is 2.
type Projective struct {
	p                int
	cache            flatGeometryCache
	serversPerRouter int
}

// NewProjective builds a Projective plane from a configuration object with
// fields "prime" (required) and "servers_per_router" (optional, default 1).
func NewProjective(cv config.Value) *Projective {
	cv.CheckKnownFields("prime", "servers_per_router")
	p := cv.RequireField("prime").AsInt()
	if !isPrime(p) {
		panic(fmt.Sprintf("topo: Projective requires a prime, got %d", p))
	}
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	return &Projective{p: p, cache: buildFlatGeometryCache(p), serversPerRouter: spr}
}

func (g *Projective) NumRouters() int  { return g.p*g.p + g.p + 1 }
func (g *Projective) NumServers() int  { return g.NumRouters() * g.serversPerRouter }
func (g *Projective) Degree(r int) int { return len(g.cache.incidence[r]) }
func (g *Projective) Ports(r int) int  { return g.Degree(r) + g.serversPerRouter }

func (g *Projective) Neighbour(router, port int) (Location, int) {
	degree := g.Degree(router)
	if port < degree {
		j := g.cache.incidence[router][port]
		reciprocal := g.cache.reciprocal[router][port]
		return NewRouterLocation(j, reciprocal), 0
	}
	serverIndex := router*g.serversPerRouter + (port - degree)
	return NewServerLocation(serverIndex), 1
}

func (g *Projective) ServerNeighbour(server int) (Location, int) {
	router := server / g.serversPerRouter
	offset := server % g.serversPerRouter
	return NewRouterLocation(router, g.Degree(router)+offset), 1
}

func (g *Projective) Diameter() int { return 2 }

func (g *Projective) Distance(a, b int) int {
	if a == b {
		return 0
	}
	if projectiveIncident(g.p, a, b) {
		return 1
	}
	return 2
}

// LeviProjective is the bipartite Levi graph of the projective plane over
// Z_p: points (indices [0,N)) and lines (indices [N,2N)), adjacent exactly
// when incident. Link class 0 is incidence; the server-attachment class is
// 1. Diameter is 3.
type LeviProjective struct {
	p                int
	n                int
	cache            flatGeometryCache
	serversPerRouter int
}

// NewLeviProjective builds a Levi graph from the same configuration fields
// as Projective.
func NewLeviProjective(cv config.Value) *LeviProjective {
	cv.CheckKnownFields("prime", "servers_per_router")
	p := cv.RequireField("prime").AsInt()
	if !isPrime(p) {
		panic(fmt.Sprintf("topo: LeviProjective requires a prime, got %d", p))
	}
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	n := p*p + p + 1
	return &LeviProjective{p: p, n: n, cache: buildFlatGeometryCache(p), serversPerRouter: spr}
}

func (g *LeviProjective) NumRouters() int { return 2 * g.n }
func (g *LeviProjective) NumServers() int { return g.NumRouters() * g.serversPerRouter }

func (g *LeviProjective) localIndex(router int) int {
	if router < g.n {
		return router
	}
	return router - g.n
}

func (g *LeviProjective) Degree(r int) int { return len(g.cache.incidence[g.localIndex(r)]) }
func (g *LeviProjective) Ports(r int) int  { return g.Degree(r) + g.serversPerRouter }

func (g *LeviProjective) Neighbour(router, port int) (Location, int) {
	degree := g.Degree(router)
	if port < degree {
		local := g.localIndex(router)
		j := g.cache.incidence[local][port]
		reciprocal := g.cache.reciprocal[local][port]
		var target int
		if router < g.n {
			target = g.n + j // point -> line
		} else {
			target = j // line -> point
		}
		return NewRouterLocation(target, reciprocal), 0
	}
	serverIndex := router*g.serversPerRouter + (port - degree)
	return NewServerLocation(serverIndex), 1
}

func (g *LeviProjective) ServerNeighbour(server int) (Location, int) {
	router := server / g.serversPerRouter
	offset := server % g.serversPerRouter
	return NewRouterLocation(router, g.Degree(router)+offset), 1
}

func (g *LeviProjective) Diameter() int { return 3 }

func (g *LeviProjective) Distance(a, b int) int {
	if a == b {
		return 0
	}
	samePartition := (a < g.n) == (b < g.n)
	if samePartition {
		return 2
	}
	var point, line int
	if a < g.n {
		point, line = a, b-g.n
	} else {
		point, line = b, a-g.n
	}
	if projectiveIncident(g.p, point, line) {
		return 1
	}
	return 3
}
