package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

func requireCartesian(t Topology, routingName string) CartesianTopology {
	ct, ok := t.(CartesianTopology)
	if !ok {
		panic(fmt.Sprintf("topo: %s requires a CartesianTopology, got %T", routingName, t))
	}
	return ct
}

func targetRouterOf(t Topology, targetServer int) int {
	loc, _ := t.ServerNeighbour(targetServer)
	if loc.Kind != LocationRouterPort {
		panic(fmt.Sprintf("topo: server %d is not attached to a router", targetServer))
	}
	return loc.RouterIndex
}

// advancePorts picks, among currentRouter's ports of link class dim, the
// ones moving farthest along targetAmount's direction without overshooting
// its absolute value; ties keep every best port. The per-port progress is
// measured modulo the side, so it is exact on meshes, tori, and Hamming
// dimensions alike: a Mesh/Torus port advances by 1 and a Hamming port by
// its whole offset, and whichever non-overshooting amount is largest wins.
func advancePorts(ct CartesianTopology, currentRouter, dim, targetAmount int) []int {
	cd := ct.CartesianData()
	side := cd.Sides[dim]
	upCurrent := cd.Unpack(currentRouter)
	limit := targetAmount
	if limit < 0 {
		limit = -limit
	}
	var best []int
	bestAmount := 0
	for p := 0; p < ct.Ports(currentRouter); p++ {
		loc, class := ct.Neighbour(currentRouter, p)
		if loc.Kind != LocationRouterPort || class != dim {
			continue
		}
		upNext := cd.Unpack(loc.RouterIndex)
		var amount int
		if targetAmount < 0 {
			amount = mod(upCurrent[dim]-upNext[dim], side)
		} else {
			amount = mod(upNext[dim]-upCurrent[dim], side)
		}
		if amount > limit {
			continue
		}
		switch {
		case amount > bestAmount:
			bestAmount = amount
			best = []int{p}
		case amount == bestAmount:
			best = append(best, p)
		}
	}
	return best
}

// decrementRecord subtracts from amount the progress made by the hop that
// entered currentRouter through enteredPort, measured along amount's own
// direction and modulo the dimension's side so wrap-around hops count
// correctly in either direction.
func decrementRecord(cd CartesianData, dim int, upCurrent, upPrevious []int, amount int) int {
	side := cd.Sides[dim]
	if amount < 0 {
		return amount + mod(upPrevious[dim]-upCurrent[dim], side)
	}
	return amount - mod(upCurrent[dim]-upPrevious[dim], side)
}

// firstNonzeroDimension returns the first dimension in order whose record
// entry is nonzero, or -1 if every dimension in order is already zero.
func firstNonzeroDimension(record []int, order []int) int {
	for _, d := range order {
		if record[d] != 0 {
			return d
		}
	}
	return -1
}

// serverCandidates is the exhausted-record arrival case shared by the
// dimension-ordered routings: the routing record says there is nothing left
// to traverse, so the target server must be attached right here.
func serverCandidates(t Topology, routingName string, info *RoutingInfo, currentRouter, targetServer, numVCs int) []CandidateEgress {
	candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs)
	if !ok {
		panic(fmt.Sprintf("topo: %s has routing record %v exhausted at router %d but target server %d is not attached there", routingName, info.RoutingRecord, currentRouter, targetServer))
	}
	return candidates
}

// DOR is Dimension-Ordered Routing on a Cartesian topology: resolve the
// routing record one dimension at a time in the configured order. The record
// is set from the topology's CoordinatedRoutingRecord at injection (with its
// RNG tie-break on equidistant torus axes) and decremented on every hop by
// the signed amount actually traversed, wrap-aware in both directions.
type DOR struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
	order []int
}

// NewDOR builds a DOR routing from a configuration object with a required
// "order" field (array of dimension indices).
func NewDOR(cv config.Value) *DOR {
	cv.CheckKnownFields("order")
	order := cv.RequireField("order").AsIntSlice()
	return &DOR{order: order}
}

func (d *DOR) Initialize(t Topology, _ *RNG) { requireCartesian(t, "DOR") }

func (d *DOR) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	ct := requireCartesian(t, "DOR")
	info.RoutingRecord = ct.CoordinatedRoutingRecord(currentRouter, targetRouterOf(t, targetServer), rng)
	info.Hops = 0
}

func (d *DOR) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, _ *RNG) {
	ct := requireCartesian(t, "DOR")
	if info.RoutingRecord == nil {
		panic("topo: DOR.UpdateRoutingInfo called without a routing record")
	}
	cd := ct.CartesianData()
	prev, dim := t.Neighbour(currentRouter, enteredPort)
	upCurrent := cd.Unpack(currentRouter)
	upPrevious := cd.Unpack(prev.RouterIndex)
	info.RoutingRecord[dim] = decrementRecord(cd, dim, upCurrent, upPrevious, info.RoutingRecord[dim])
	info.Hops++
}

func (d *DOR) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	if info.RoutingRecord == nil {
		panic("topo: DOR.Next called without a routing record")
	}
	ct := requireCartesian(t, "DOR")
	dim := firstNonzeroDimension(info.RoutingRecord, d.order)
	if dim == -1 {
		return serverCandidates(t, "DOR", info, currentRouter, targetServer, numVCs)
	}
	ports := advancePorts(ct, currentRouter, dim, info.RoutingRecord[dim])
	if len(ports) == 0 {
		panic(fmt.Sprintf("topo: DOR found no advancing port in dimension %d from router %d", dim, currentRouter))
	}
	var candidates []CandidateEgress
	for _, p := range ports {
		for vc := 0; vc < numVCs; vc++ {
			candidates = append(candidates, CandidateEgress{Port: p, VC: vc})
		}
	}
	return candidates
}

// O1TURN routes two-dimensional Cartesian topologies with DOR order (0,1)
// on some virtual channels and order (1,0) on the others: one of the two
// orders is chosen at random per packet, and the channels reserved for the
// other order are forbidden to it, on router links and on the final server
// link alike.
type O1TURN struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
	reservedVCsOrder01 []int
	reservedVCsOrder10 []int
}

// NewO1TURN builds an O1TURN routing from a configuration object with
// optional fields "reserved_virtual_channels_order01" (default [0]) and
// "reserved_virtual_channels_order10" (default [1]).
func NewO1TURN(cv config.Value) *O1TURN {
	cv.CheckKnownFields("reserved_virtual_channels_order01", "reserved_virtual_channels_order10")
	reserved01 := []int{0}
	if f, ok := cv.Field("reserved_virtual_channels_order01"); ok {
		reserved01 = f.AsIntSlice()
	}
	reserved10 := []int{1}
	if f, ok := cv.Field("reserved_virtual_channels_order10"); ok {
		reserved10 = f.AsIntSlice()
	}
	return &O1TURN{reservedVCsOrder01: reserved01, reservedVCsOrder10: reserved10}
}

func (o *O1TURN) Initialize(t Topology, _ *RNG) {
	ct := requireCartesian(t, "O1TURN")
	if ct.CartesianData().Dimensions() != 2 {
		panic("topo: O1TURN requires a 2-dimensional CartesianTopology")
	}
}

func (o *O1TURN) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	ct := requireCartesian(t, "O1TURN")
	info.RoutingRecord = ct.CoordinatedRoutingRecord(currentRouter, targetRouterOf(t, targetServer), rng)
	info.Selections = []int{rng.Intn(2)}
	info.Hops = 0
}

func (o *O1TURN) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, _ *RNG) {
	ct := requireCartesian(t, "O1TURN")
	cd := ct.CartesianData()
	prev, dim := t.Neighbour(currentRouter, enteredPort)
	upCurrent := cd.Unpack(currentRouter)
	upPrevious := cd.Unpack(prev.RouterIndex)
	info.RoutingRecord[dim] = decrementRecord(cd, dim, upCurrent, upPrevious, info.RoutingRecord[dim])
	info.Hops++
}

func (o *O1TURN) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	if info.RoutingRecord == nil || len(info.Selections) == 0 {
		panic("topo: O1TURN.Next called without a routing record and order selection")
	}
	ct := requireCartesian(t, "O1TURN")
	selection := info.Selections[0]
	var order []int
	var forbidden []int
	if selection == 0 {
		order = []int{0, 1}
		forbidden = o.reservedVCsOrder10
	} else {
		order = []int{1, 0}
		forbidden = o.reservedVCsOrder01
	}
	var ports []int
	dim := firstNonzeroDimension(info.RoutingRecord, order)
	if dim == -1 {
		arrival := serverCandidates(t, "O1TURN", info, currentRouter, targetServer, numVCs)
		ports = []int{arrival[0].Port}
	} else {
		ports = advancePorts(ct, currentRouter, dim, info.RoutingRecord[dim])
	}
	var candidates []CandidateEgress
	for _, p := range ports {
		for vc := 0; vc < numVCs; vc++ {
			if contains(forbidden, vc) {
				continue
			}
			candidates = append(candidates, CandidateEgress{Port: p, VC: vc})
		}
	}
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: O1TURN found no admissible candidate from router %d with numVCs=%d", currentRouter, numVCs))
	}
	return candidates
}

// ValiantDOR routes an intermediate randomization phase before straightening
// out with plain DOR: the "randomized" dimensions are walked in order, each
// assigned a uniformly random coordinate, and the first with a nonzero
// offset becomes the active deroute, stored in info.Selections as
// (dimension offset, remaining amount). The routing record always tracks the
// true target; while a deroute is active the packet advances the deroute's
// dimension by its remaining amount instead. Candidates avoid the virtual
// channels reserved for the opposite phase.
type ValiantDOR struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
	randomized            []int
	shortest              []int
	randomizedReservedVCs []int
	shortestReservedVCs   []int
}

// NewValiantDOR builds a ValiantDOR routing from a configuration object
// with required fields "randomized", "shortest" (both dimension-index
// arrays) and "randomized_reserved_vcs", "shortest_reserved_vcs" (both
// virtual-channel-index arrays).
func NewValiantDOR(cv config.Value) *ValiantDOR {
	cv.CheckKnownFields("randomized", "shortest", "randomized_reserved_vcs", "shortest_reserved_vcs")
	return &ValiantDOR{
		randomized:            cv.RequireField("randomized").AsIntSlice(),
		shortest:              cv.RequireField("shortest").AsIntSlice(),
		randomizedReservedVCs: cv.RequireField("randomized_reserved_vcs").AsIntSlice(),
		shortestReservedVCs:   cv.RequireField("shortest_reserved_vcs").AsIntSlice(),
	}
}

func (v *ValiantDOR) Initialize(t Topology, _ *RNG) { requireCartesian(t, "ValiantDOR") }

func (v *ValiantDOR) InitializeRoutingInfo(info *RoutingInfo, t Topology, currentRouter, targetServer int, rng *RNG) {
	ct := requireCartesian(t, "ValiantDOR")
	cd := ct.CartesianData()
	targetRouter := targetRouterOf(t, targetServer)
	info.RoutingRecord = ct.CoordinatedRoutingRecord(currentRouter, targetRouter, rng)
	info.Hops = 0
	info.Selections = nil
	// Walk the randomized dimensions, committing a random coordinate in
	// each, until one actually displaces the packet; dimensions randomized
	// to their current coordinate cost nothing and are skipped for good.
	upTarget := cd.Unpack(targetRouter)
	offset, remaining := 0, 0
	for offset < len(v.randomized) {
		dim := v.randomized[offset]
		upTarget[dim] = rng.Intn(cd.Sides[dim])
		aux := ct.CoordinatedRoutingRecord(currentRouter, cd.Pack(upTarget), rng)
		remaining = aux[dim]
		if remaining != 0 {
			break
		}
		offset++
	}
	if offset < len(v.randomized) {
		info.Selections = []int{offset, remaining}
	}
}

func (v *ValiantDOR) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, rng *RNG) {
	ct := requireCartesian(t, "ValiantDOR")
	if info.RoutingRecord == nil {
		panic("topo: ValiantDOR.UpdateRoutingInfo called without a routing record")
	}
	cd := ct.CartesianData()
	prev, dim := t.Neighbour(currentRouter, enteredPort)
	upCurrent := cd.Unpack(currentRouter)
	upPrevious := cd.Unpack(prev.RouterIndex)
	info.RoutingRecord[dim] = decrementRecord(cd, dim, upCurrent, upPrevious, info.RoutingRecord[dim])
	if info.Selections != nil {
		offset := info.Selections[0]
		remaining := info.Selections[1]
		if dim != v.randomized[offset] {
			panic(fmt.Sprintf("topo: ValiantDOR moved in dimension %d while randomizing dimension %d", dim, v.randomized[offset]))
		}
		remaining = decrementRecord(cd, dim, upCurrent, upPrevious, remaining)
		if remaining == 0 {
			targetRouter := targetRouterOf(t, targetServer)
			for remaining == 0 && offset < len(v.randomized)-1 {
				offset++
				nextDim := v.randomized[offset]
				upTarget := cd.Unpack(targetRouter)
				upTarget[nextDim] = rng.Intn(cd.Sides[nextDim])
				aux := ct.CoordinatedRoutingRecord(currentRouter, cd.Pack(upTarget), rng)
				remaining = aux[nextDim]
			}
			if remaining == 0 {
				info.Selections = nil
				// Remake the record so the straightening phase starts from a
				// minimum-residue route.
				info.RoutingRecord = ct.CoordinatedRoutingRecord(currentRouter, targetRouter, rng)
			} else {
				info.Selections = []int{offset, remaining}
			}
		} else {
			info.Selections = []int{offset, remaining}
		}
	}
	info.Hops++
}

func (v *ValiantDOR) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	if info.RoutingRecord == nil {
		panic("topo: ValiantDOR.Next called without a routing record")
	}
	ct := requireCartesian(t, "ValiantDOR")
	if firstNonzeroDimension(info.RoutingRecord, v.shortest) == -1 {
		return serverCandidates(t, "ValiantDOR", info, currentRouter, targetServer, numVCs)
	}
	var dim, targetAmount int
	var forbidden []int
	if info.Selections != nil {
		dim = v.randomized[info.Selections[0]]
		targetAmount = info.Selections[1]
		forbidden = v.shortestReservedVCs
	} else {
		dim = firstNonzeroDimension(info.RoutingRecord, v.shortest)
		targetAmount = info.RoutingRecord[dim]
		forbidden = v.randomizedReservedVCs
	}
	ports := advancePorts(ct, currentRouter, dim, targetAmount)
	if len(ports) == 0 {
		panic(fmt.Sprintf("topo: ValiantDOR found no advancing port in dimension %d from router %d", dim, currentRouter))
	}
	var candidates []CandidateEgress
	for _, p := range ports {
		for vc := 0; vc < numVCs; vc++ {
			if contains(forbidden, vc) {
				continue
			}
			candidates = append(candidates, CandidateEgress{Port: p, VC: vc})
		}
	}
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: ValiantDOR found no admissible virtual channel from router %d with numVCs=%d", currentRouter, numVCs))
	}
	return candidates
}

// OmniDimensionalDeroute allows up to allowedDeroutes non-minimal hops on a
// Cartesian topology. While deroutes remain, any neighbour is a candidate
// as long as it does not misalign a dimension already matching the target;
// once they are spent, only strictly distance-reducing neighbours remain.
// Non-minimal candidates carry label 1 when includeLabels is set.
type OmniDimensionalDeroute struct {
	IdempotentNext
	NoStatistics
	NoPerformedRequestAction
	allowedDeroutes int
	includeLabels   bool
}

// NewOmniDimensionalDeroute builds the routing from a configuration object
// with required fields "allowed_deroutes" and "include_labels".
func NewOmniDimensionalDeroute(cv config.Value) *OmniDimensionalDeroute {
	cv.CheckKnownFields("allowed_deroutes", "include_labels")
	return &OmniDimensionalDeroute{
		allowedDeroutes: cv.RequireField("allowed_deroutes").AsInt(),
		includeLabels:   cv.RequireField("include_labels").AsBool(),
	}
}

func (o *OmniDimensionalDeroute) Initialize(t Topology, _ *RNG) {
	requireCartesian(t, "OmniDimensionalDeroute")
}

func (o *OmniDimensionalDeroute) InitializeRoutingInfo(info *RoutingInfo, _ Topology, _, _ int, _ *RNG) {
	info.Selections = []int{o.allowedDeroutes}
	info.Hops = 0
}

func (o *OmniDimensionalDeroute) UpdateRoutingInfo(info *RoutingInfo, t Topology, currentRouter, enteredPort, targetServer int, _ *RNG) {
	prev, _ := t.Neighbour(currentRouter, enteredPort)
	targetRouter := targetRouterOf(t, targetServer)
	if t.Distance(prev.RouterIndex, targetRouter) != 1+t.Distance(currentRouter, targetRouter) {
		if info.Selections[0] == 0 {
			panic(fmt.Sprintf("topo: OmniDimensionalDeroute derouted into router %d with no deroutes left", currentRouter))
		}
		info.Selections[0]--
	}
	info.Hops++
}

func (o *OmniDimensionalDeroute) Next(info *RoutingInfo, t Topology, currentRouter, targetServer, numVCs int, _ *RNG) []CandidateEgress {
	if candidates, ok := candidatesToServer(t, currentRouter, targetServer, numVCs); ok {
		return candidates
	}
	ct := requireCartesian(t, "OmniDimensionalDeroute")
	cd := ct.CartesianData()
	targetRouter := targetRouterOf(t, targetServer)
	distance := t.Distance(currentRouter, targetRouter)
	deroutesLeft := info.Selections[0]
	var candidates []CandidateEgress
	if deroutesLeft == 0 {
		for p := 0; p < t.Ports(currentRouter); p++ {
			loc, _ := t.Neighbour(currentRouter, p)
			if loc.Kind != LocationRouterPort {
				continue
			}
			if t.Distance(loc.RouterIndex, targetRouter) != distance-1 {
				continue
			}
			for vc := 0; vc < numVCs; vc++ {
				candidates = append(candidates, CandidateEgress{Port: p, VC: vc})
			}
		}
	} else {
		upCurrent := cd.Unpack(currentRouter)
		upTarget := cd.Unpack(targetRouter)
		for p := 0; p < t.Ports(currentRouter); p++ {
			loc, _ := t.Neighbour(currentRouter, p)
			if loc.Kind != LocationRouterPort {
				continue
			}
			upNext := cd.Unpack(loc.RouterIndex)
			aligned := true
			for d := range upNext {
				if upCurrent[d] == upTarget[d] && upCurrent[d] != upNext[d] {
					aligned = false
					break
				}
			}
			if !aligned {
				continue
			}
			label := 0
			if o.includeLabels && t.Distance(loc.RouterIndex, targetRouter) >= distance {
				label = 1
			}
			for vc := 0; vc < numVCs; vc++ {
				candidates = append(candidates, CandidateEgress{Port: p, VC: vc, Label: label})
			}
		}
	}
	if len(candidates) == 0 {
		panic(fmt.Sprintf("topo: OmniDimensionalDeroute found no legal port from router %d toward server %d", currentRouter, targetServer))
	}
	return candidates
}
