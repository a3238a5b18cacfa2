package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// Mesh is a rectangular grid: port 2d moves -1 in dimension d, port 2d+1
// moves +1. Ports(r) is always 2*Dimensions()+serversPerRouter, but Degree
// varies per router: a router on b boundary coordinates (coordinate 0 or
// side-1 in that dimension) has degree Dimensions()+(Dimensions()-b), so a
// full corner has degree Dimensions() and a fully interior router has
// degree 2*Dimensions(). A port that would step off the grid resolves to
// NoneLocation in place (router ports are not compacted into
// [0,Degree(r))); CheckAdjacencyConsistency treats that as a non-fatal
// warning, not a violation, exactly for this case. Link class equals the
// dimension index; the server-attachment link class is Dimensions().
type Mesh struct {
	cd               CartesianData
	serversPerRouter int
}

// NewMesh builds a Mesh from a configuration object with fields "sides"
// (required, array of positive side lengths) and "servers_per_router"
// (optional, default 1).
func NewMesh(cv config.Value) *Mesh {
	cv.CheckKnownFields("sides", "servers_per_router")
	sides := cv.RequireField("sides").AsIntSlice()
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	return &Mesh{cd: NewCartesianData(sides), serversPerRouter: spr}
}

func (m *Mesh) Dimensions() int { return m.cd.Dimensions() }
func (m *Mesh) NumRouters() int { return m.cd.Size() }
func (m *Mesh) NumServers() int { return m.NumRouters() * m.serversPerRouter }

// Degree counts Dimensions() plus one extra per coordinate that is not on
// the boundary (neither 0 nor side-1), matching the original Rust degree()
// in original_source/src/topology/cartesian.rs: a corner router has degree
// Dimensions(); a fully interior router has degree 2*Dimensions().
func (m *Mesh) Degree(router int) int {
	coords := m.cd.Unpack(router)
	d := len(coords)
	for i, c := range coords {
		if c != 0 && c != m.cd.Sides[i]-1 {
			d++
		}
	}
	return d
}
func (m *Mesh) Ports(r int) int              { return 2*m.Dimensions() + m.serversPerRouter }
func (m *Mesh) CartesianData() CartesianData { return m.cd }
func (m *Mesh) serverClass() int             { return m.Dimensions() }

func (m *Mesh) Neighbour(router, port int) (Location, int) {
	dim := m.Dimensions()
	if port < 2*dim {
		d := port / 2
		dir := port % 2
		coords := m.cd.Unpack(router)
		delta := -1
		if dir == 1 {
			delta = 1
		}
		nc := coords[d] + delta
		if nc < 0 || nc >= m.cd.Sides[d] {
			return NoneLocation, d
		}
		newCoords := append([]int(nil), coords...)
		newCoords[d] = nc
		reciprocal := d*2 + (1 - dir)
		return NewRouterLocation(m.cd.Pack(newCoords), reciprocal), d
	}
	serverIndex := router*m.serversPerRouter + (port - 2*dim)
	return NewServerLocation(serverIndex), m.serverClass()
}

func (m *Mesh) ServerNeighbour(server int) (Location, int) {
	router := server / m.serversPerRouter
	offset := server % m.serversPerRouter
	return NewRouterLocation(router, 2*m.Dimensions()+offset), m.serverClass()
}

func (m *Mesh) Diameter() int {
	total := 0
	for _, s := range m.cd.Sides {
		total += s - 1
	}
	return total
}

func (m *Mesh) Distance(a, b int) int {
	ca, cb := m.cd.Unpack(a), m.cd.Unpack(b)
	total := 0
	for d := range ca {
		diff := ca[d] - cb[d]
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total
}

// CoordinatedRoutingRecord returns, for each dimension, the signed delta
// (target - origin), with no wraparound (Mesh has none to apply).
func (m *Mesh) CoordinatedRoutingRecord(origin, target int, _ *RNG) []int {
	co, ct := m.cd.Unpack(origin), m.cd.Unpack(target)
	record := make([]int, len(co))
	for d := range co {
		record[d] = ct[d] - co[d]
	}
	return record
}

// Torus is a Mesh whose coordinates wrap modulo the side length; every
// router has the same degree 2*Dimensions(). Link class equals the
// dimension index; the server-attachment link class is Dimensions().
type Torus struct {
	cd               CartesianData
	serversPerRouter int
}

// NewTorus builds a Torus from a configuration object with the same fields
// as Mesh.
func NewTorus(cv config.Value) *Torus {
	cv.CheckKnownFields("sides", "servers_per_router")
	sides := cv.RequireField("sides").AsIntSlice()
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	return &Torus{cd: NewCartesianData(sides), serversPerRouter: spr}
}

func (t *Torus) Dimensions() int              { return t.cd.Dimensions() }
func (t *Torus) NumRouters() int              { return t.cd.Size() }
func (t *Torus) NumServers() int              { return t.NumRouters() * t.serversPerRouter }
func (t *Torus) Degree(int) int               { return 2 * t.Dimensions() }
func (t *Torus) Ports(r int) int              { return t.Degree(r) + t.serversPerRouter }
func (t *Torus) CartesianData() CartesianData { return t.cd }
func (t *Torus) serverClass() int             { return t.Dimensions() }

func (t *Torus) Neighbour(router, port int) (Location, int) {
	dim := t.Dimensions()
	if port < 2*dim {
		d := port / 2
		dir := port % 2
		side := t.cd.Sides[d]
		coords := t.cd.Unpack(router)
		delta := -1
		if dir == 1 {
			delta = 1
		}
		nc := ((coords[d]+delta)%side + side) % side
		newCoords := append([]int(nil), coords...)
		newCoords[d] = nc
		reciprocal := d*2 + (1 - dir)
		return NewRouterLocation(t.cd.Pack(newCoords), reciprocal), d
	}
	serverIndex := router*t.serversPerRouter + (port - 2*dim)
	return NewServerLocation(serverIndex), t.serverClass()
}

func (t *Torus) ServerNeighbour(server int) (Location, int) {
	router := server / t.serversPerRouter
	offset := server % t.serversPerRouter
	return NewRouterLocation(router, 2*t.Dimensions()+offset), t.serverClass()
}

func (t *Torus) Diameter() int {
	total := 0
	for _, s := range t.cd.Sides {
		total += s / 2
	}
	return total
}

func (t *Torus) Distance(a, b int) int {
	ca, cb := t.cd.Unpack(a), t.cd.Unpack(b)
	total := 0
	for d, side := range t.cd.Sides {
		diff := ca[d] - cb[d]
		if diff < 0 {
			diff = -diff
		}
		if side-diff < diff {
			diff = side - diff
		}
		total += diff
	}
	return total
}

// CoordinatedRoutingRecord picks, per dimension, the signed residue of
// smaller magnitude between the forward (target-origin mod side) and
// backward route. When the side is even and both directions are equidistant
// it breaks the tie by a coin flip on rng when supplied; with rng absent the
// choice is deterministic (it takes the forward, i.e. positive, option).
// This RNG-dependence is intentional: two Torus instances routed with
// different RNGs can legitimately choose opposite directions on an
// equidistant axis.
func (t *Torus) CoordinatedRoutingRecord(origin, target int, rng *RNG) []int {
	co, ct := t.cd.Unpack(origin), t.cd.Unpack(target)
	record := make([]int, len(co))
	for d, side := range t.cd.Sides {
		forward := ((ct[d]-co[d])%side + side) % side
		backward := forward - side
		switch {
		case forward == -backward:
			if rng != nil && rng.Bool() {
				record[d] = backward
			} else {
				record[d] = forward
			}
		case forward < -backward:
			record[d] = forward
		default:
			record[d] = backward
		}
	}
	return record
}

// Hamming is the Cartesian product of complete graphs: from a router, ports
// enumerate (dimension d, offset o in [1,side_d)); the neighbour has that
// coordinate shifted by o modulo side_d in dimension d. A single hop can
// therefore zero out an entire dimension's remaining distance. Link class
// equals the dimension index; the server-attachment link class is
// Dimensions().
type Hamming struct {
	cd               CartesianData
	serversPerRouter int
	dimOffset        []int // port index where dimension d's offsets begin
}

// NewHamming builds a Hamming graph from a configuration object with the
// same fields as Mesh.
func NewHamming(cv config.Value) *Hamming {
	cv.CheckKnownFields("sides", "servers_per_router")
	sides := cv.RequireField("sides").AsIntSlice()
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	cd := NewCartesianData(sides)
	offsets := make([]int, len(sides))
	acc := 0
	for d, s := range sides {
		offsets[d] = acc
		acc += s - 1
	}
	return &Hamming{cd: cd, serversPerRouter: spr, dimOffset: offsets}
}

func (h *Hamming) Dimensions() int              { return h.cd.Dimensions() }
func (h *Hamming) NumRouters() int              { return h.cd.Size() }
func (h *Hamming) NumServers() int              { return h.NumRouters() * h.serversPerRouter }
func (h *Hamming) CartesianData() CartesianData { return h.cd }
func (h *Hamming) serverClass() int             { return h.Dimensions() }

func (h *Hamming) Degree(int) int {
	total := 0
	for _, s := range h.cd.Sides {
		total += s - 1
	}
	return total
}

func (h *Hamming) Ports(r int) int { return h.Degree(r) + h.serversPerRouter }

// portDim resolves a router-to-router port index to (dimension, offset).
func (h *Hamming) portDim(port int) (dim, offset int) {
	for d := len(h.dimOffset) - 1; d >= 0; d-- {
		if port >= h.dimOffset[d] {
			return d, port - h.dimOffset[d] + 1
		}
	}
	panic(fmt.Sprintf("topo: Hamming port %d out of range", port))
}

func (h *Hamming) Neighbour(router, port int) (Location, int) {
	degree := h.Degree(router)
	if port < degree {
		d, offset := h.portDim(port)
		side := h.cd.Sides[d]
		coords := h.cd.Unpack(router)
		newCoords := append([]int(nil), coords...)
		newCoords[d] = (coords[d] + offset) % side
		reciprocalOffset := side - offset
		reciprocalPort := h.dimOffset[d] + reciprocalOffset - 1
		return NewRouterLocation(h.cd.Pack(newCoords), reciprocalPort), d
	}
	serverIndex := router*h.serversPerRouter + (port - degree)
	return NewServerLocation(serverIndex), h.serverClass()
}

func (h *Hamming) ServerNeighbour(server int) (Location, int) {
	router := server / h.serversPerRouter
	offset := server % h.serversPerRouter
	return NewRouterLocation(router, h.Degree(router)+offset), h.serverClass()
}

func (h *Hamming) Diameter() int {
	count := 0
	for _, s := range h.cd.Sides {
		if s > 1 {
			count++
		}
	}
	return count
}

func (h *Hamming) Distance(a, b int) int {
	ca, cb := h.cd.Unpack(a), h.cd.Unpack(b)
	count := 0
	for d := range ca {
		if ca[d] != cb[d] {
			count++
		}
	}
	return count
}

// CoordinatedRoutingRecord reports, per dimension, the offset that would
// zero out that dimension's remaining distance in a single hop: the signed
// difference target-origin, taken in [-(side-1), side-1] without modular
// reduction, since a Hamming hop applies its offset in one step.
func (h *Hamming) CoordinatedRoutingRecord(origin, target int, _ *RNG) []int {
	co, ct := h.cd.Unpack(origin), h.cd.Unpack(target)
	record := make([]int, len(co))
	for d := range co {
		record[d] = ct[d] - co[d]
	}
	return record
}
