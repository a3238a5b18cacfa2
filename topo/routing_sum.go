package topo

import (
	"fmt"
)

// SumRoutingPolicy selects how SumRouting combines its two sub-routings.
type SumRoutingPolicy int

const (
	// SumRoutingRandom picks one of the two sub-routings uniformly at random
	// once, at InitializeRoutingInfo, and commits to it for the packet's
	// whole lifetime.
	SumRoutingRandom SumRoutingPolicy = iota
	// SumRoutingTryBoth offers candidates from both sub-routings at the
	// first hop and lets a downstream arbiter choose; PerformedRequest then
	// locks the packet onto whichever sub-routing produced the committed
	// candidate.
	SumRoutingTryBoth
)

// SumRouting combines two sub-routings, first and second, each given its own
// virtual-channel table (firstAllowedVCs, secondAllowedVCs). A sub-routing
// is queried with numVCs equal to its table's length and each candidate's
// virtual channel is then remapped through that same table, so the
// sub-routing numbers channels densely in [0,len) while the outer network
// sees the table's actual values. Which sub-routing is active is tracked in
// info.Selections: two entries mean "still trying both", one entry names the
// committed sub-routing. Each sub-routing keeps an independent nested info,
// info.Meta[0] for first and info.Meta[1] for second, so that first's state
// can never be clobbered by second's and vice versa.
type SumRouting struct {
	NoStatistics
	policy           SumRoutingPolicy
	first, second    Routing
	firstAllowedVCs  []int
	secondAllowedVCs []int
}

// NewSumRouting builds a SumRouting from a configuration object with fields
// "policy" (required literal, "Random" or "TryBoth"), "first", "second"
// (required sub-routings), "first_allowed_virtual_channels",
// "second_allowed_virtual_channels" (required virtual-channel tables).
func NewSumRouting(arg RoutingBuilderArgument) *SumRouting {
	cv := arg.CV
	cv.CheckKnownFields("policy", "first", "second", "first_allowed_virtual_channels", "second_allowed_virtual_channels")
	var policy SumRoutingPolicy
	switch lit := cv.RequireField("policy").AsLiteral(); lit {
	case "Random":
		policy = SumRoutingRandom
	case "TryBoth":
		policy = SumRoutingTryBoth
	default:
		panic(fmt.Sprintf("topo: SumRouting unknown policy %q", lit))
	}
	first := NewRouting(RoutingBuilderArgument{CV: cv.RequireField("first"), Plugs: arg.Plugs})
	second := NewRouting(RoutingBuilderArgument{CV: cv.RequireField("second"), Plugs: arg.Plugs})
	return &SumRouting{
		policy:           policy,
		first:            first,
		second:           second,
		firstAllowedVCs:  cv.RequireField("first_allowed_virtual_channels").AsIntSlice(),
		secondAllowedVCs: cv.RequireField("second_allowed_virtual_channels").AsIntSlice(),
	}
}

func (s *SumRouting) subRouting(index int) (Routing, []int) {
	if index == 0 {
		return s.first, s.firstAllowedVCs
	}
	return s.second, s.secondAllowedVCs
}

func (s *SumRouting) Initialize(t Topology, rng *RNG) {
	s.first.Initialize(t, rng)
	s.second.Initialize(t, rng)
}

func (s *SumRouting) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	info.Hops = 0
	info.Meta = []*RoutingInfo{NewRoutingInfo(), NewRoutingInfo()}
	if s.policy == SumRoutingRandom {
		choice := 0
		if rng.Bool() {
			choice = 1
		}
		info.Selections = []int{choice}
		sub, _ := s.subRouting(choice)
		sub.InitializeRoutingInfo(info.Meta[choice], t, currentRouter, targetServer, rng)
		return
	}
	info.Selections = []int{0, 1}
	s.first.InitializeRoutingInfo(info.Meta[0], t, currentRouter, targetServer, rng)
	s.second.InitializeRoutingInfo(info.Meta[1], t, currentRouter, targetServer, rng)
}

func (s *SumRouting) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, rng *RNG) {
	info.Hops++
	for _, choice := range info.Selections {
		sub, _ := s.subRouting(choice)
		sub.UpdateRoutingInfo(info.Meta[choice], t, currentRouter, enteredPort, targetServer, rng)
	}
}

// remapVCs rewrites each candidate's dense virtual-channel index through the
// sub-routing's table and tags it with the sub-routing that produced it.
func remapVCs(candidates []CandidateEgress, allowed []int, tag int) []CandidateEgress {
	out := make([]CandidateEgress, len(candidates))
	for i, c := range candidates {
		if c.VC < 0 || c.VC >= len(allowed) {
			panic(fmt.Sprintf("topo: SumRouting sub-routing %d produced virtual channel %d outside its table of length %d", tag, c.VC, len(allowed)))
		}
		c.VC = allowed[c.VC]
		c.Annotation = &RoutingAnnotation{Values: []int{tag}, Meta: []*RoutingAnnotation{c.Annotation}}
		out[i] = c
	}
	return out
}

func (s *SumRouting) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) []CandidateEgress {
	if candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs); ok {
		return candidates
	}
	var out []CandidateEgress
	for _, choice := range info.Selections {
		sub, allowed := s.subRouting(choice)
		candidates := sub.Next(info.Meta[choice], t, currentRouter, targetServer, len(allowed), rng)
		out = append(out, remapVCs(candidates, allowed, choice)...)
	}
	if len(out) == 0 {
		panic(fmt.Sprintf("topo: SumRouting found no admissible candidate from router %d toward server %d", currentRouter, targetServer))
	}
	return out
}

func (s *SumRouting) PerformedRequest(chosen CandidateEgress, info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, rng *RNG) {
	if chosen.Annotation == nil || len(chosen.Annotation.Values) == 0 {
		// Direct-to-server candidates carry no tag; nothing to lock.
		return
	}
	choice := chosen.Annotation.Values[0]
	if s.policy == SumRoutingTryBoth {
		info.Selections = []int{choice}
	}
	inner := chosen
	inner.Annotation = nil
	if len(chosen.Annotation.Meta) > 0 {
		inner.Annotation = chosen.Annotation.Meta[0]
	}
	sub, _ := s.subRouting(choice)
	sub.PerformedRequest(inner, info.Meta[choice], t, currentRouter, targetServer, numVCs, rng)
}

func (s *SumRouting) ResetStatistics(cycle int) {
	s.first.ResetStatistics(cycle)
	s.second.ResetStatistics(cycle)
}
