package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// Mindless is the non-minimal baseline: every router-to-router port crossed
// with every virtual channel, with no notion of progress. At the router the
// target server is attached to, it offers that server port on every virtual
// channel instead. Useful only as a random-walk reference point for
// measuring how much a real algorithm buys.
type Mindless struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
}

// NewMindless builds a Mindless routing. It takes no fields.
func NewMindless(cv config.Value) *Mindless {
	cv.CheckKnownFields()
	return &Mindless{}
}

func (m *Mindless) Initialize(Topology, *RNG) {}

func (m *Mindless) InitializeRoutingInfo(info *RoutingInfo, _ Topology, _, _ int, _ *RNG) {
	info.Hops = 0
}

func (m *Mindless) UpdateRoutingInfo(info *RoutingInfo, _ Topology, _, _, _ int, _ *RNG) {
	info.Hops++
}

func (m *Mindless) Next(_ *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	if candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs); ok {
		return candidates
	}
	var candidates []CandidateEgress
	for port := 0; port < t.Ports(currentRouter); port++ {
		loc, _ := t.Neighbour(currentRouter, port)
		if loc.Kind != LocationRouterPort {
			continue
		}
		for vc := 0; vc < numVCs; vc++ {
			candidates = append(candidates, CandidateEgress{Port: port, VC: vc})
		}
	}
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: Mindless found no router-to-router port from router %d", currentRouter))
	}
	return candidates
}

// Stubborn wraps an inner routing: the first time a candidate is committed
// to at a router (PerformedRequest), its (port, vc, label) triple is stored
// in info.Selections, and every later Next at that same router returns
// exactly that single candidate. UpdateRoutingInfo clears the selection on
// every hop, so a fresh choice is made at the next router. Candidates
// offered by the inner routing are wrapped in an annotation carrying their
// label, so PerformedRequest can recover it after policy filtering.
type Stubborn struct {
	NoStatistics
	inner Routing
}

// NewStubborn builds a Stubborn routing from a configuration object with a
// required sub-routing field "routing".
func NewStubborn(arg RoutingBuilderArgument) *Stubborn {
	arg.CV.CheckKnownFields("routing")
	inner := NewRouting(RoutingBuilderArgument{CV: arg.CV.RequireField("routing"), Plugs: arg.Plugs})
	return &Stubborn{inner: inner}
}

func (s *Stubborn) Initialize(t Topology, rng *RNG) { s.inner.Initialize(t, rng) }

func (s *Stubborn) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	info.Hops = 0
	info.Meta = []*RoutingInfo{NewRoutingInfo()}
	s.inner.InitializeRoutingInfo(info.Meta[0], t, currentRouter, targetServer, rng)
}

func (s *Stubborn) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, rng *RNG) {
	info.Hops++
	info.Selections = nil
	s.inner.UpdateRoutingInfo(info.Meta[0], t, currentRouter, enteredPort, targetServer, rng)
}

func (s *Stubborn) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) []CandidateEgress {
	if candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs); ok {
		return candidates
	}
	if len(info.Selections) == 3 {
		return []CandidateEgress{{Port: info.Selections[0], VC: info.Selections[1], Label: info.Selections[2]}}
	}
	candidates := s.inner.Next(info.Meta[0], t, currentRouter, targetServer, numVCs, rng)
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: Stubborn found no candidate to commit to at router %d", currentRouter))
	}
	out := make([]CandidateEgress, len(candidates))
	for i, c := range candidates {
		c.Annotation = &RoutingAnnotation{Values: []int{c.Label}, Meta: []*RoutingAnnotation{c.Annotation}}
		out[i] = c
	}
	return out
}

func (s *Stubborn) PerformedRequest(chosen CandidateEgress, info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) {
	if chosen.Annotation == nil || len(chosen.Annotation.Values) == 0 {
		// Direct-to-server candidates carry no annotation; nothing to store.
		return
	}
	info.Selections = []int{chosen.Port, chosen.VC, chosen.Annotation.Values[0]}
	inner := chosen
	inner.Annotation = nil
	if len(chosen.Annotation.Meta) > 0 {
		inner.Annotation = chosen.Annotation.Meta[0]
	}
	s.inner.PerformedRequest(inner, info.Meta[0], t, currentRouter, targetServer, numVCs, rng)
}

func (s *Stubborn) ResetStatistics(cycle int) { s.inner.ResetStatistics(cycle) }
