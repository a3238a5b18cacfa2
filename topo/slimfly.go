package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// Ring is the finite-field arithmetic abstraction slim-fly topologies are
// built over: size, element construction from an integer, addition,
// subtraction, multiplication, exponentiation, and a primitivity test. IntegerIdealRing (Z_p)
// is the only implementation needed for prime-sized instances; extension to
// prime powers is a future extension point, not required for correctness
// here.
type Ring interface {
	Size() int
	FromInt(v int) int
	Add(a, b int) int
	Sub(a, b int) int
	Mul(a, b int) int
	Pow(a, exp int) int
	IsPrimitive(a int) bool
}

// IntegerIdealRing is the integers modulo a prime p, a field.
type IntegerIdealRing struct {
	Modulo int
}

func (r IntegerIdealRing) Size() int { return r.Modulo }

func (r IntegerIdealRing) FromInt(v int) int { return mod(v, r.Modulo) }

func (r IntegerIdealRing) Add(a, b int) int { return (a + b) % r.Modulo }

func (r IntegerIdealRing) Sub(a, b int) int { return (r.Modulo + a - b) % r.Modulo }

func (r IntegerIdealRing) Mul(a, b int) int { return (a * b) % r.Modulo }

func (r IntegerIdealRing) Pow(a, exp int) int {
	current, factor, remExp := 1, a, exp
	for remExp > 0 {
		if remExp%2 == 1 {
			current = r.Mul(current, factor)
		}
		remExp /= 2
		factor = r.Mul(factor, factor)
	}
	return current
}

// IsPrimitive reports whether a^((p-1)/2) == p-1, i.e. a is a quadratic
// non-residue, the primitivity test slim-fly's primitive-element search
// uses.
func (r IntegerIdealRing) IsPrimitive(a int) bool {
	half := (r.Modulo - 1) / 2
	prev := r.Pow(a, half)
	return prev != 1 && r.Mul(prev, prev) == 1
}

// slimFlyCoordinates is a router's (local, global, block) position, packed
// as (block*size+global)*size+local.
type slimFlyCoordinates struct {
	local, global, block int
}

func unpackSlimFly(index, size int) slimFlyCoordinates {
	local := index % size
	other := index / size
	global := other % size
	block := other / size
	return slimFlyCoordinates{local: local, global: global, block: block}
}

func (c slimFlyCoordinates) pack(size int) int {
	return (c.block*size+c.global)*size + c.local
}

// SlimFly is built over a ring Z_p (p prime). Two blocks of p^2 routers
// each; local links within a block connect (x,y,b) to (x+s,y,b) for s in
// the block's Paley set, global links connect (x,y,0) to (x-y*y',y',1) for
// every y' in Z_p (and reciprocally on block 1). Link class 0 is local,
// class 1 is global; the server-attachment class is 2. Diameter is 2.
type SlimFly struct {
	field            Ring
	primitive        int
	serversPerRouter int
	paleySets        [2][]int
	negPaleySets     [2][]int
}

// NewSlimFly builds a SlimFly from a configuration object with fields
// "prime" (required), "primitive" (optional, auto-detected as the least
// x in [2,p) that is a quadratic non-residue), and "servers_per_router"
// (optional, default 1).
func NewSlimFly(cv config.Value) *SlimFly {
	cv.CheckKnownFields("prime", "primitive", "servers_per_router")
	prime := cv.RequireField("prime").AsInt()
	if !isPrime(prime) {
		panic(fmt.Sprintf("topo: SlimFly requires a prime, got %d", prime))
	}
	field := IntegerIdealRing{Modulo: prime}
	primitive := -1
	if f, ok := cv.Field("primitive"); ok {
		primitive = f.AsInt()
	} else {
		for x := 2; x < prime; x++ {
			if field.IsPrimitive(x) {
				primitive = x
				break
			}
		}
		if primitive < 0 {
			panic(fmt.Sprintf("topo: SlimFly could not find a primitive element in Z_%d", prime))
		}
	}
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}

	epsilon := 1
	if prime%4 == 3 {
		epsilon = -1
	}
	var paleySet []int
	switch epsilon {
	case 1:
		limit := (prime - 1) / 2
		for k := 0; k < limit; k++ {
			paleySet = append(paleySet, field.Pow(primitive, 2*k))
		}
	case -1:
		limit := (prime - 3) / 4
		for k := 0; k <= limit; k++ {
			paleySet = append(paleySet, field.Pow(primitive, 2*k))
		}
		for k := 0; k <= limit; k++ {
			paleySet = append(paleySet, field.Pow(primitive, (prime-1)/2+2*k))
		}
	default:
		// Unreachable: epsilon above is only ever +1 or -1 (p=2 takes the +1
		// branch too). Kept as a distinct branch because the upstream
		// construction keeps one.
		limit := prime / 2
		for k := 0; k < limit; k++ {
			paleySet = append(paleySet, field.Pow(primitive, 2*k))
		}
	}
	secondPaleySet := make([]int, len(paleySet))
	for i, x := range paleySet {
		secondPaleySet[i] = field.Mul(x, primitive)
	}
	paleySets := [2][]int{paleySet, secondPaleySet}

	negPaleySets := [2][]int{}
	for b := 0; b < 2; b++ {
		neg := make([]int, len(paleySets[b]))
		for k, elem := range paleySets[b] {
			negElem := field.Sub(0, elem)
			found := -1
			for idx, x := range paleySets[b] {
				if x == negElem {
					found = idx
					break
				}
			}
			if found == -1 {
				panic("topo: SlimFly Paley set is not circulant (no negation found)")
			}
			neg[k] = found
		}
		negPaleySets[b] = neg
	}

	return &SlimFly{
		field:            field,
		primitive:        primitive,
		serversPerRouter: spr,
		paleySets:        paleySets,
		negPaleySets:     negPaleySets,
	}
}

func (s *SlimFly) NumRouters() int {
	n := s.field.Size()
	return n * n * 2
}

func (s *SlimFly) NumServers() int { return s.serversPerRouter * s.NumRouters() }

func (s *SlimFly) Degree(int) int { return len(s.paleySets[0]) + s.field.Size() }

func (s *SlimFly) Ports(r int) int { return s.Degree(r) + s.serversPerRouter }

func (s *SlimFly) Neighbour(router, port int) (Location, int) {
	n := s.field.Size()
	coords := unpackSlimFly(router, n)
	if port < len(s.paleySets[0]) {
		neighbourLocal := s.field.Add(coords.local, s.paleySets[coords.block][port])
		target := slimFlyCoordinates{local: neighbourLocal, global: coords.global, block: coords.block}
		reciprocal := s.negPaleySets[coords.block][port]
		return NewRouterLocation(target.pack(n), reciprocal), 0
	}
	offset := port - len(s.paleySets[0])
	if offset < n {
		globalProduct := s.field.Mul(coords.global, offset)
		var neighbourLocal int
		if coords.block == 0 {
			neighbourLocal = s.field.Sub(coords.local, globalProduct)
		} else {
			neighbourLocal = s.field.Add(coords.local, globalProduct)
		}
		target := slimFlyCoordinates{local: neighbourLocal, global: offset, block: 1 - coords.block}
		reciprocal := len(s.paleySets[0]) + coords.global
		return NewRouterLocation(target.pack(n), reciprocal), 1
	}
	serverOffset := offset - n
	return NewServerLocation(serverOffset + router*s.serversPerRouter), 2
}

func (s *SlimFly) ServerNeighbour(server int) (Location, int) {
	router := server / s.serversPerRouter
	offset := server % s.serversPerRouter
	return NewRouterLocation(router, offset+s.Degree(router)), 2
}

func (s *SlimFly) Diameter() int { return 2 }

func contains(set []int, v int) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func (s *SlimFly) Distance(origin, destination int) int {
	if origin == destination {
		return 0
	}
	n := s.field.Size()
	oc := unpackSlimFly(origin, n)
	dc := unpackSlimFly(destination, n)
	if oc.block == dc.block && oc.global == dc.global {
		localDiff := s.field.Sub(oc.local, dc.local)
		if contains(s.paleySets[oc.block], localDiff) {
			return 1
		}
	}
	if oc.block != dc.block {
		left, right := oc, dc
		if oc.block != 0 {
			left, right = dc, oc
		}
		localDiff := s.field.Sub(left.local, right.local)
		globalProd := s.field.Mul(left.global, right.global)
		if localDiff == globalProd {
			return 1
		}
	}
	return 2
}
