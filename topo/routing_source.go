package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// sourceRoutingTable precomputes, for every (origin, target) router pair,
// every shortest port-sequence from origin toward target. SourceRouting
// builds one at Initialize, picks one port sequence at
// InitializeRoutingInfo, and stores the routers that sequence visits in
// info.SelectedPath, which Next then indexes by info.Hops.
type sourceRoutingTable struct {
	paths [][][][]int // paths[origin][target] = list of shortest port sequences
}

func buildSourceRoutingTable(t Topology) *sourceRoutingTable {
	n := t.NumRouters()
	distance := ComputeDistanceMatrix(t, nil)
	table := make([][][][]int, n)
	for origin := 0; origin < n; origin++ {
		table[origin] = make([][][]int, n)
		for target := 0; target < n; target++ {
			if origin == target {
				continue
			}
			table[origin][target] = shortestPortSequences(t, distance, origin, target)
		}
	}
	return &sourceRoutingTable{paths: table}
}

// shortestPortSequences enumerates every simple shortest port-path from
// origin to target by walking the distance matrix downhill one hop at a
// time, branching over every strictly-closer neighbour at each step.
func shortestPortSequences(t Topology, distance Matrix[int], origin, target int) [][]int {
	if distance.Get(origin, target) == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for port := 0; port < t.Ports(origin); port++ {
		loc, _ := t.Neighbour(origin, port)
		if loc.Kind != LocationRouterPort {
			continue
		}
		if distance.Get(loc.RouterIndex, target) != distance.Get(origin, target)-1 {
			continue
		}
		for _, rest := range shortestPortSequences(t, distance, loc.RouterIndex, target) {
			path := append([]int{port}, rest...)
			out = append(out, path)
		}
	}
	return out
}

// pickPath selects one of the precomputed port sequences from origin to the
// router targetServer is attached to, uniformly at random.
func (tbl *sourceRoutingTable) pickPath(t Topology, origin, targetServer int, rng *RNG) []int {
	loc, _ := t.ServerNeighbour(targetServer)
	candidates := tbl.paths[origin][loc.RouterIndex]
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: source routing table has no path from router %d to router %d", origin, loc.RouterIndex))
	}
	choice := 0
	if rng != nil && len(candidates) > 1 {
		choice = rng.Intn(len(candidates))
	}
	path := make([]int, len(candidates[choice]))
	copy(path, candidates[choice])
	return path
}

// SourceRouting picks, at InitializeRoutingInfo, one of the precomputed
// shortest router-index paths from source to target uniformly at random and
// stores it in info.SelectedPath. Next always advances along that path: the
// legal port is the one whose router-neighbour matches
// selected_path[hops+1]. The routing never reconsiders its choice once made,
// unlike Shortest which recomputes candidates from the live distance matrix
// at every hop.
type SourceRouting struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
	table *sourceRoutingTable
}

// NewSourceRouting builds a SourceRouting routing. It takes no fields.
func NewSourceRouting(cv config.Value) *SourceRouting {
	cv.CheckKnownFields()
	return &SourceRouting{}
}

func (s *SourceRouting) Initialize(t Topology, _ *RNG) {
	s.table = buildSourceRoutingTable(t)
}

func (s *SourceRouting) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	ports := s.table.pickPath(t, currentRouter, targetServer, rng)
	path := make([]int, len(ports)+1)
	path[0] = currentRouter
	router := currentRouter
	for i, p := range ports {
		loc, _ := t.Neighbour(router, p)
		router = loc.RouterIndex
		path[i+1] = router
	}
	info.SelectedPath = path
	info.Hops = 0
}

func (s *SourceRouting) UpdateRoutingInfo(info *RoutingInfo, _ Topology, _, _, _ int, _ *RNG) {
	info.Hops++
}

func (s *SourceRouting) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	if candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs); ok {
		return candidates
	}
	if info.SelectedPath == nil {
		panic("topo: SourceRouting.Next called before InitializeRoutingInfo")
	}
	nextIdx := info.Hops + 1
	if nextIdx >= len(info.SelectedPath) {
		panic(fmt.Sprintf("topo: SourceRouting selected path exhausted at router %d", currentRouter))
	}
	want := info.SelectedPath[nextIdx]
	for port := 0; port < t.Ports(currentRouter); port++ {
		loc, _ := t.Neighbour(currentRouter, port)
		if loc.Kind == LocationRouterPort && loc.RouterIndex == want {
			candidates := make([]CandidateEgress, numVCs)
			for vc := 0; vc < numVCs; vc++ {
				candidates[vc] = CandidateEgress{Port: port, VC: vc}
			}
			return candidates
		}
	}
	panic(fmt.Sprintf("topo: SourceRouting found no port from router %d to selected-path router %d", currentRouter, want))
}
