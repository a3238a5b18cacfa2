package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// Topology is the abstract interface every concrete graph family implements.
// A topology is constructed once and shared read-only by every routing and
// by the simulator driver (out of scope here).
type Topology interface {
	// NumRouters is the number of router nodes.
	NumRouters() int
	// NumServers is the number of server (terminal) nodes.
	NumServers() int
	// Ports is the total port count of a router: the first Degree(router)
	// connect to other routers, the remainder to locally attached servers.
	// Mesh is the one exception: a boundary router keeps all 2*Dimensions()
	// router-facing slots, the off-grid ones disconnected (see Mesh).
	Ports(router int) int
	// Degree is the router-to-router port count of a router.
	Degree(router int) int
	// Neighbour returns what lies on the far end of a router port, and the
	// link class of that edge.
	Neighbour(router, port int) (Location, int)
	// ServerNeighbour returns the router port a server is attached to.
	ServerNeighbour(server int) (Location, int)
	// Diameter is the maximum distance between any two routers.
	Diameter() int
	// Distance is the shortest-path distance (in hops) between two routers.
	Distance(a, b int) int
}

// CartesianTopology is implemented by topologies built over a CartesianData
// coordinate system: Mesh, Torus, Hamming. DOR, O1TURN, ValiantDOR, and
// OmniDimensionalDeroute require a topology to implement this interface and
// panic at initialize if it does not.
type CartesianTopology interface {
	Topology
	// CartesianData returns the coordinate system underlying the topology.
	CartesianData() CartesianData
	// CoordinatedRoutingRecord returns the signed per-dimension distance from
	// origin to target, used by dimension-ordered routings to decide which
	// dimension to advance next. On a torus this picks, per dimension, the
	// minimum of the forward and backward residue, breaking ties with a coin
	// flip on rng when supplied (deterministic, forward-biased, when rng is
	// nil); see Torus.CoordinatedRoutingRecord.
	CoordinatedRoutingRecord(origin, target int, rng *RNG) []int
}

// RouterIndexer is implemented by topologies whose neighbour structure is
// explicit (NeighboursLists): it exposes the raw adjacency so callers can
// reconstruct a file representation, used by the round-trip tests.
type RouterIndexer interface {
	Topology
	// RouterNeighbours returns the ordered list of (neighbourRouter,
	// reciprocalPort) pairs for a router's router-to-router ports.
	RouterNeighbours(router int) []struct{ Router, ReciprocalPort int }
}

// TopologyBuilderArgument bundles everything a topology constructor needs:
// the configuration subtree describing it, the plug table (consulted before
// the built-in dispatch), and the shared RNG (used only by NeighboursLists's
// random-regular-graph construction).
type TopologyBuilderArgument struct {
	CV    config.Value
	Plugs *Plugs
	RNG   *RNG
}

// NewTopology dispatches on the object name of arg.CV to a concrete topology
// constructor. The plug table is consulted first so user-registered
// topologies take priority over the built-ins. Unknown names are fatal.
func NewTopology(arg TopologyBuilderArgument) Topology {
	name := arg.CV.ObjectName()
	if arg.Plugs != nil {
		if build, ok := arg.Plugs.Topologies[name]; ok {
			return build(arg)
		}
	}
	switch name {
	case "Mesh":
		return NewMesh(arg.CV)
	case "Torus":
		return NewTorus(arg.CV)
	case "Hamming":
		return NewHamming(arg.CV)
	case "CanonicDragonfly":
		return NewCanonicDragonfly(arg.CV)
	case "RandomRegularGraph":
		return NewRandomRegularGraph(arg.CV, arg.RNG)
	case "File":
		return NewFileTopology(arg.CV)
	case "Projective":
		return NewProjective(arg.CV)
	case "LeviProjective":
		return NewLeviProjective(arg.CV)
	case "SlimFly":
		return NewSlimFly(arg.CV)
	default:
		panic(fmt.Sprintf("topo: unknown topology %q", name))
	}
}
