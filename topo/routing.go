package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// RoutingInfo is the per-packet mutable state a Routing reads and updates
// at every hop. Created before the first hop and owned exclusively by the
// packet; destroyed with it. Meta holds nested sub-infos for composite
// routings (Valiant, SumRouting): each entry is independently owned and
// mutated by the corresponding sub-routing.
type RoutingInfo struct {
	Hops           int
	RoutingRecord  []int
	SelectedPath   []int
	Selections     []int
	VisitedRouters []int
	Meta           []*RoutingInfo
}

// NewRoutingInfo builds an empty per-packet routing state.
func NewRoutingInfo() *RoutingInfo {
	return &RoutingInfo{}
}

// RoutingAnnotation is a small values vector plus a parallel vector of
// nested annotations, used by composite routings so a candidate carries
// enough information for the routing to recognize which of its own
// sub-routings produced it once a downstream arbiter has committed to it.
type RoutingAnnotation struct {
	Values []int
	Meta   []*RoutingAnnotation
}

// CandidateEgress is one (port, virtual channel) option a Routing offers
// for the next hop. RouterAllows starts nil; a downstream arbiter may later
// set it. Annotation is algorithm-private and survives policy filtering.
type CandidateEgress struct {
	Port                   int
	VC                     int
	Label                  int
	EstimatedRemainingHops *int
	RouterAllows           *bool
	Annotation             *RoutingAnnotation
}

// Routing is the abstract per-packet decision-maker.
type Routing interface {
	// Initialize builds any caches the routing needs (weighted distance
	// matrices, shortest-path tables). Called once before simulation.
	Initialize(t Topology, rng *RNG)
	// InitializeRoutingInfo sets up per-packet state when the first phit
	// enters the network.
	InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG)
	// UpdateRoutingInfo is invoked when a packet crosses into a new router.
	UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, rng *RNG)
	// Next is the central decision: the candidate egresses for the current
	// hop. Must never return an empty slice unless there is no legal
	// advance, which is fatal.
	Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) []CandidateEgress
	// PerformedRequest mutates state after a candidate has been committed to.
	PerformedRequest(chosen CandidateEgress, info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG)
	// Statistics optionally reports a configuration-tree snapshot for a cycle.
	Statistics(cycle int) (config.Value, bool)
	// ResetStatistics clears any accumulated statistics as of cycle.
	ResetStatistics(cycle int)
}

// IdempotentRouting is optionally implemented by routings whose Next is a
// pure function of the packet state: a caller may cache the candidate list
// and replay it instead of asking again at the same router.
type IdempotentRouting interface {
	Routing
	Idempotent() bool
}

// IdempotentNext is embedded by routings declaring their Next idempotent.
type IdempotentNext struct{}

func (IdempotentNext) Idempotent() bool { return true }

// NoStatistics is embedded by routings with nothing to report.
type NoStatistics struct{}

func (NoStatistics) Statistics(int) (config.Value, bool) { return config.Value{}, false }
func (NoStatistics) ResetStatistics(int)                 {}

// NoPerformedRequestAction is embedded by routings that need no action once
// a candidate is committed to.
type NoPerformedRequestAction struct{}

func (NoPerformedRequestAction) PerformedRequest(CandidateEgress, *RoutingInfo, Topology, int, int, int, *RNG) {
}

// RoutingBuilderArgument bundles the configuration subtree and the plug
// table a routing constructor needs.
type RoutingBuilderArgument struct {
	CV    config.Value
	Plugs *Plugs
}

// NewRouting dispatches on the object name of arg.CV to a concrete routing
// constructor. The plug table is consulted first. Unknown names are fatal.
func NewRouting(arg RoutingBuilderArgument) Routing {
	name := arg.CV.ObjectName()
	if arg.Plugs != nil {
		if build, ok := arg.Plugs.Routings[name]; ok {
			return build(arg)
		}
	}
	switch name {
	case "Shortest":
		return NewShortest(arg.CV)
	case "WeighedShortest":
		return NewWeighedShortest(arg.CV)
	case "DOR":
		return NewDOR(arg.CV)
	case "O1TURN":
		return NewO1TURN(arg.CV)
	case "ValiantDOR":
		return NewValiantDOR(arg.CV)
	case "Valiant":
		return NewValiant(arg)
	case "OmniDimensionalDeroute":
		return NewOmniDimensionalDeroute(arg.CV)
	case "SumRouting":
		return NewSumRouting(arg)
	case "Mindless":
		return NewMindless(arg.CV)
	case "Stubborn":
		return NewStubborn(arg)
	case "SourceRouting":
		return NewSourceRouting(arg.CV)
	default:
		panic(fmt.Sprintf("topo: unknown routing %q", name))
	}
}

// candidatesToServer returns every virtual channel of the server port when
// currentRouter is the router targetServer is attached to, or nil, false
// otherwise. Shared by every routing whose final hop is the same regardless
// of algorithm: step onto whichever VC the server port offers.
func candidatesToServer(t Topology, currentRouter, targetServer, numVCs int) ([]CandidateEgress, bool) {
	loc, _ := t.ServerNeighbour(targetServer)
	if loc.Kind != LocationRouterPort || loc.RouterIndex != currentRouter {
		return nil, false
	}
	candidates := make([]CandidateEgress, numVCs)
	for vc := 0; vc < numVCs; vc++ {
		candidates[vc] = CandidateEgress{Port: loc.RouterPort, VC: vc}
	}
	return candidates, true
}
