package topo

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Infinity is the saturating-add sentinel used by BFS and Floyd-Warshall:
// any sum that would exceed it is clamped back to it instead of wrapping.
const Infinity = 1 << 60

func saturatingAdd(a, b int) int {
	if a >= Infinity || b >= Infinity {
		return Infinity
	}
	sum := a + b
	if sum >= Infinity || sum < 0 {
		return Infinity
	}
	return sum
}

// BFS computes, from origin, the distance to every router. If classWeight is
// nil every router-to-router edge has weight 1; otherwise the weight of an
// edge of link class k is classWeight[k] (a class index out of range, or a
// weight equal to Infinity, excludes that edge). This is a relax-on-improve
// BFS, not Dijkstra: a router may be enqueued more than once as shorter
// distances are discovered. This is correct on uniformly weighted graphs and
// on graphs where every improving path is discovered in BFS order; on mixed
// weights it is a documented approximation, preserved deliberately (tests
// depend on this exact behaviour).
func BFS(t Topology, origin int, classWeight []int) []int {
	n := t.NumRouters()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = Infinity
	}
	dist[origin] = 0
	queue := []int{origin}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for p := 0; p < t.Ports(u); p++ {
			loc, class := t.Neighbour(u, p)
			if loc.Kind != LocationRouterPort {
				continue
			}
			w := 1
			if classWeight != nil {
				if class < 0 || class >= len(classWeight) {
					continue
				}
				w = classWeight[class]
				if w >= Infinity {
					continue
				}
			}
			v := loc.RouterIndex
			nd := saturatingAdd(dist[u], w)
			if nd < dist[v] {
				dist[v] = nd
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// ComputeDistanceMatrix runs BFS from every router and packs the result into
// an NxN matrix.
func ComputeDistanceMatrix(t Topology, classWeight []int) Matrix[int] {
	n := t.NumRouters()
	m := NewMatrix(0, n, n)
	for u := 0; u < n; u++ {
		d := BFS(t, u, classWeight)
		for v := 0; v < n; v++ {
			m.Set(u, v, d[v])
		}
	}
	return m
}

// FloydWarshall computes the classical all-pairs shortest path matrix,
// seeded with Infinity/3 so that relaxation cannot overflow.
func FloydWarshall(t Topology) Matrix[int] {
	n := t.NumRouters()
	seed := Infinity / 3
	m := NewMatrix(seed, n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 0)
	}
	for u := 0; u < n; u++ {
		for p := 0; p < t.Ports(u); p++ {
			loc, _ := t.Neighbour(u, p)
			if loc.Kind == LocationRouterPort {
				if loc.RouterIndex != u && 1 < m.Get(u, loc.RouterIndex) {
					m.Set(u, loc.RouterIndex, 1)
				}
			}
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := m.Get(i, k)
			for j := 0; j < n; j++ {
				if cand := ik + m.Get(k, j); cand < m.Get(i, j) {
					m.Set(i, j, cand)
				}
			}
		}
	}
	return m
}

// ComputeAmountShortestPaths runs a BFS-order relaxation that simultaneously
// records D[u,v] (shortest distance) and A[u,v] (number of shortest paths).
// Every router is finalized before it is used to relax further routers,
// guaranteed here because every router-to-router edge is unit weight.
func ComputeAmountShortestPaths(t Topology) (Matrix[int], Matrix[uint64]) {
	n := t.NumRouters()
	dist := NewMatrix(0, n, n)
	amount := NewMatrix(uint64(0), n, n)
	for origin := 0; origin < n; origin++ {
		d := make([]int, n)
		a := make([]uint64, n)
		for i := range d {
			d[i] = Infinity
		}
		d[origin] = 0
		a[origin] = 1
		queue := []int{origin}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for p := 0; p < t.Ports(u); p++ {
				loc, _ := t.Neighbour(u, p)
				if loc.Kind != LocationRouterPort {
					continue
				}
				v := loc.RouterIndex
				nd := d[u] + 1
				switch {
				case nd < d[v]:
					d[v] = nd
					a[v] = a[u]
					queue = append(queue, v)
				case nd == d[v]:
					a[v] += a[u]
				}
			}
		}
		for v := 0; v < n; v++ {
			dist.Set(origin, v, d[v])
			amount.Set(origin, v, a[v])
		}
	}
	return dist, amount
}

// Components partitions routers into connected components induced by edges
// whose link class is permitted. A nil allowedClasses permits every class.
func Components(t Topology, allowedClasses []int) [][]int {
	allowed := func(class int) bool {
		if allowedClasses == nil {
			return true
		}
		for _, c := range allowedClasses {
			if c == class {
				return true
			}
		}
		return false
	}
	n := t.NumRouters()
	visited := make([]bool, n)
	var components [][]int
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var component []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			component = append(component, u)
			for p := 0; p < t.Ports(u); p++ {
				loc, class := t.Neighbour(u, p)
				if loc.Kind != LocationRouterPort || !allowed(class) {
					continue
				}
				v := loc.RouterIndex
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// ComputeNearFarMatrices returns N and F where N[u,v] counts v's
// router-neighbours strictly closer to u than v itself, and F[u,v] counts
// those strictly farther.
func ComputeNearFarMatrices(t Topology, dist Matrix[int]) (Matrix[int], Matrix[int]) {
	n := t.NumRouters()
	near := NewMatrix(0, n, n)
	far := NewMatrix(0, n, n)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			nearCount, farCount := 0, 0
			for p := 0; p < t.Ports(v); p++ {
				loc, _ := t.Neighbour(v, p)
				if loc.Kind != LocationRouterPort {
					continue
				}
				w := loc.RouterIndex
				switch {
				case dist.Get(u, w) < dist.Get(u, v):
					nearCount++
				case dist.Get(u, w) > dist.Get(u, v):
					farCount++
				}
			}
			near.Set(u, v, nearCount)
			far.Set(u, v, farCount)
		}
	}
	return near, far
}

// Eccentricity is the maximum distance from r to any other router.
func Eccentricity(dist Matrix[int], r int) int {
	max := 0
	for v := 0; v < dist.Cols(); v++ {
		if d := dist.Get(r, v); d > max {
			max = d
		}
	}
	return max
}

// CheckAdjacencyConsistency verifies the adjacency invariants: every router
// link's reciprocal points back with the same link class, and every server
// attachment points back to its router port. classBound, if non-negative,
// additionally checks that every router-to-router link class is strictly
// less than it. Disconnected router ports and link classes at or above
// classBound are reported as warnings (non-fatal, via logrus); every other
// violation is fatal.
//
// Ports are classified by what Neighbour/ServerNeighbour actually return at
// each index, not by assuming the first Degree(r) ports are router-facing
// and the rest server-facing: that partition holds for every topology
// except Mesh, whose port numbering is fixed at 2*Dimensions()+spr slots per
// router regardless of how many of the router-facing ones are live on a
// boundary router (see Mesh.Degree). A mismatch between the expected and
// observed server-port count is still reported, as a warning rather than a
// panic, since Mesh's boundary routers are the one legitimate case.
func CheckAdjacencyConsistency(t Topology, classBound int) {
	n := t.NumRouters()
	for r := 0; r < n; r++ {
		degree := t.Degree(r)
		ports := t.Ports(r)
		serverPorts := 0
		for p := 0; p < ports; p++ {
			loc, class := t.Neighbour(r, p)
			switch loc.Kind {
			case LocationNone:
				logrus.Warnf("topo: router %d port %d is disconnected", r, p)
			case LocationServerPort:
				serverPorts++
				back, _ := t.ServerNeighbour(loc.ServerIndex)
				if back.Kind != LocationRouterPort || back.RouterIndex != r || back.RouterPort != p {
					panic(fmt.Sprintf("topo: asymmetric server attachment: router %d port %d -> server %d, but the reverse does not point back", r, p, loc.ServerIndex))
				}
			case LocationRouterPort:
				back, backClass := t.Neighbour(loc.RouterIndex, loc.RouterPort)
				if back.Kind != LocationRouterPort || back.RouterIndex != r || back.RouterPort != p {
					panic(fmt.Sprintf("topo: asymmetric adjacency: router %d port %d -> router %d port %d, but the reverse does not point back", r, p, loc.RouterIndex, loc.RouterPort))
				}
				if backClass != class {
					panic(fmt.Sprintf("topo: asymmetric link class: router %d port %d has class %d but its reciprocal has class %d", r, p, class, backClass))
				}
				if classBound >= 0 && class >= classBound {
					logrus.Warnf("topo: router %d port %d has link class %d >= declared bound %d", r, p, class, classBound)
				}
			}
		}
		if want := ports - degree; serverPorts != want {
			logrus.Warnf("topo: router %d has %d server-connected ports, expected %d (degree=%d, ports=%d)", r, serverPorts, want, degree, ports)
		}
	}
	for s := 0; s < t.NumServers(); s++ {
		loc, _ := t.ServerNeighbour(s)
		if loc.IsNone() {
			panic(fmt.Sprintf("topo: server %d has no attachment", s))
		}
	}
}

// AverageDistance is the mean of the distance matrix over every ordered pair
// of routers, including a router paired with itself.
func AverageDistance(dist Matrix[int]) float64 {
	n := dist.Rows()
	if n == 0 {
		return 0
	}
	total := 0
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			total += dist.Get(u, v)
		}
	}
	return float64(total) / float64(n*n)
}

// DistanceDistribution histograms the distance matrix's entries by distance.
func DistanceDistribution(dist Matrix[int]) map[int]uint {
	hist := make(map[int]uint)
	n := dist.Rows()
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			hist[dist.Get(u, v)]++
		}
	}
	return hist
}

// NumArcs is the total number of directed router-to-router arcs, the sum of
// every router's degree.
func NumArcs(t Topology) int {
	total := 0
	for r := 0; r < t.NumRouters(); r++ {
		total += t.Degree(r)
	}
	return total
}
