package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

func shortestCandidates(t Topology, distance func(a, b int) int, currentRouter, targetServer, numVCs int) []CandidateEgress {
	if candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs); ok {
		return candidates
	}
	targetLoc, _ := t.ServerNeighbour(targetServer)
	targetRouter := targetLoc.RouterIndex
	currentDistance := distance(currentRouter, targetRouter)
	var candidates []CandidateEgress
	for port := 0; port < t.Ports(currentRouter); port++ {
		loc, _ := t.Neighbour(currentRouter, port)
		if loc.Kind != LocationRouterPort {
			continue
		}
		if distance(loc.RouterIndex, targetRouter) < currentDistance {
			for vc := 0; vc < numVCs; vc++ {
				candidates = append(candidates, CandidateEgress{Port: port, VC: vc})
			}
		}
	}
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: Shortest found no advancing port from router %d toward server %d", currentRouter, targetServer))
	}
	return candidates
}

// Shortest candidates are every router-port whose neighbour lies strictly
// closer to the target router, crossed with every virtual channel. Calling
// Next twice at the same router with the same state returns the same
// candidate set: Shortest is idempotent, a pure function of (info,
// topology, currentRouter, targetServer, numVCs).
type Shortest struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
}

// NewShortest builds a Shortest routing. It takes no fields.
func NewShortest(cv config.Value) *Shortest {
	cv.CheckKnownFields()
	return &Shortest{}
}

func (s *Shortest) Initialize(Topology, *RNG) {}

func (s *Shortest) InitializeRoutingInfo(info *RoutingInfo, _ Topology, _, _ int, _ *RNG) {
	info.Hops = 0
}

func (s *Shortest) UpdateRoutingInfo(info *RoutingInfo, _ Topology, _, _, _ int, _ *RNG) {
	info.Hops++
}

func (s *Shortest) Next(_ *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	return shortestCandidates(t, t.Distance, currentRouter, targetServer, numVCs)
}

// WeighedShortest is identical in shape to Shortest but routes against a
// weighted distance matrix built at Initialize time from classWeight.
type WeighedShortest struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
	classWeight []int
	distance    Matrix[int]
}

// NewWeighedShortest builds a WeighedShortest routing from a configuration
// object with a required "class_weight" field (array of per-class weights).
func NewWeighedShortest(cv config.Value) *WeighedShortest {
	cv.CheckKnownFields("class_weight")
	weight := cv.RequireField("class_weight").AsIntSlice()
	return &WeighedShortest{classWeight: weight}
}

func (w *WeighedShortest) Initialize(t Topology, _ *RNG) {
	w.distance = ComputeDistanceMatrix(t, w.classWeight)
}

func (w *WeighedShortest) InitializeRoutingInfo(info *RoutingInfo, _ Topology, _, _ int, _ *RNG) {
	info.Hops = 0
}

func (w *WeighedShortest) UpdateRoutingInfo(info *RoutingInfo, _ Topology, _, _, _ int, _ *RNG) {
	info.Hops++
}

func (w *WeighedShortest) Next(_ *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	dist := func(a, b int) int { return w.distance.Get(a, b) }
	return shortestCandidates(t, dist, currentRouter, targetServer, numVCs)
}
