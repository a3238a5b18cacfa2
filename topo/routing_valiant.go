package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// Valiant wraps two arbitrary routings: first routes from the source toward
// a uniformly random waypoint router, second takes over from there to the
// real target. If the chosen waypoint is the source or the target itself,
// the phase degenerates directly to second. Phase state and the nested
// first/second RoutingInfo live in info.Meta[0] and info.Meta[1]; which
// phase is active is tracked in info.Selections[0].
type Valiant struct {
	first  Routing
	second Routing
}

// NewValiant builds a Valiant routing from a configuration object with
// required sub-routing fields "first" and "second".
func NewValiant(arg RoutingBuilderArgument) *Valiant {
	arg.CV.CheckKnownFields("first", "second")
	first := NewRouting(RoutingBuilderArgument{CV: arg.CV.RequireField("first"), Plugs: arg.Plugs})
	second := NewRouting(RoutingBuilderArgument{CV: arg.CV.RequireField("second"), Plugs: arg.Plugs})
	return &Valiant{first: first, second: second}
}

func (v *Valiant) Initialize(t Topology, rng *RNG) {
	v.first.Initialize(t, rng)
	v.second.Initialize(t, rng)
}

func (v *Valiant) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	targetLoc, _ := t.ServerNeighbour(targetServer)
	waypoint := rng.Intn(t.NumRouters())
	info.Meta = []*RoutingInfo{NewRoutingInfo(), NewRoutingInfo()}
	info.Hops = 0
	if waypoint == currentRouter || waypoint == targetLoc.RouterIndex {
		info.Selections = []int{1}
		v.second.InitializeRoutingInfo(info.Meta[1], t, currentRouter, targetServer, rng)
		return
	}
	info.Selections = []int{0, waypoint}
	v.first.InitializeRoutingInfo(info.Meta[0], t, currentRouter, waypointServer(t, waypoint), rng)
}

func (v *Valiant) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, rng *RNG) {
	info.Hops++
	phase := info.Selections[0]
	if phase == 0 {
		waypoint := info.Selections[1]
		if currentRouter == waypoint {
			info.Selections[0] = 1
			v.second.InitializeRoutingInfo(info.Meta[1], t, currentRouter, targetServer, rng)
			return
		}
		v.first.UpdateRoutingInfo(info.Meta[0], t, currentRouter, enteredPort, waypointServer(t, waypoint), rng)
		return
	}
	v.second.UpdateRoutingInfo(info.Meta[1], t, currentRouter, enteredPort, targetServer, rng)
}

// waypointServer resolves a router index chosen as a Valiant waypoint into
// one of its attached servers, so the wrapped routing, which only knows how
// to target servers, can be reused unmodified to aim at a router.
func waypointServer(t Topology, router int) int {
	// Take the first server attached to the router, found by scanning its
	// ports, so the wrapped routing can target a router through its server
	// API; a router with no attached server is fatal.
	for port := 0; port < t.Ports(router); port++ {
		loc, _ := t.Neighbour(router, port)
		if loc.Kind == LocationServerPort {
			return loc.ServerIndex
		}
	}
	panic(fmt.Sprintf("topo: Valiant waypoint router %d has no attached server", router))
}

func (v *Valiant) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) []CandidateEgress {
	if info.Selections[0] == 0 {
		waypoint := info.Selections[1]
		return v.first.Next(info.Meta[0], t, currentRouter, waypointServer(t, waypoint), numVCs, rng)
	}
	return v.second.Next(info.Meta[1], t, currentRouter, targetServer, numVCs, rng)
}

func (v *Valiant) PerformedRequest(chosen CandidateEgress, info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) {
	if info.Selections[0] == 0 {
		v.first.PerformedRequest(chosen, info.Meta[0], t, currentRouter, waypointServer(t, info.Selections[1]), numVCs, rng)
		return
	}
	v.second.PerformedRequest(chosen, info.Meta[1], t, currentRouter, targetServer, numVCs, rng)
}

func (v *Valiant) ResetStatistics(cycle int) {
	v.first.ResetStatistics(cycle)
	v.second.ResetStatistics(cycle)
}

func (v *Valiant) Statistics(cycle int) (config.Value, bool) {
	firstStats, firstOK := v.first.Statistics(cycle)
	secondStats, secondOK := v.second.Statistics(cycle)
	var fields []config.Field
	if firstOK {
		fields = append(fields, config.Field{Name: "first", Value: firstStats})
	}
	if secondOK {
		fields = append(fields, config.Field{Name: "second", Value: secondStats})
	}
	if len(fields) == 0 {
		return config.Value{}, false
	}
	return config.NewObject("Valiant", fields), true
}
