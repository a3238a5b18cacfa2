package topo

import (
	"fmt"

	"github.com/topofab/topofab/config"
)

// CanonicDragonfly is the canonical (palm-tree) dragonfly: groups of
// fully-connected routers joined by a single global link between every pair
// of groups. With h global ports per router, the group size is a=2h and the
// number of groups is g=a*h+1, so that each group's a*h global ports cover
// exactly the g-1 other groups once each.
//
// Link class 0 is local (intra-group), class 1 is global (inter-group); the
// server-attachment link class is 2. The distance matrix is computed once at
// construction via ComputeAmountShortestPaths and cached, per the upstream
// design (the global topology needs no further per-query computation); the
// shortest-path counts that call also returns are not kept.
type CanonicDragonfly struct {
	h, a, g          int
	serversPerRouter int
	distance         Matrix[int]
	diameter         int
}

// NewCanonicDragonfly builds a dragonfly from a configuration object with
// fields "global_ports_per_router" (required, h) and "servers_per_router"
// (optional, default 1). legend_name is accepted and ignored like every
// other builder.
func NewCanonicDragonfly(cv config.Value) *CanonicDragonfly {
	cv.CheckKnownFields("global_ports_per_router", "servers_per_router")
	h := cv.RequireField("global_ports_per_router").AsInt()
	if h <= 0 {
		panic(fmt.Sprintf("topo: CanonicDragonfly global_ports_per_router must be positive, got %d", h))
	}
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	a := 2 * h
	g := a*h + 1
	d := &CanonicDragonfly{h: h, a: a, g: g, serversPerRouter: spr}
	dist, _ := ComputeAmountShortestPaths(d)
	d.distance = dist
	diam := 0
	for r := 0; r < d.NumRouters(); r++ {
		if e := Eccentricity(dist, r); e > diam {
			diam = e
		}
	}
	d.diameter = diam
	return d
}

func (d *CanonicDragonfly) pack(local, group int) int { return group*d.a + local }
func (d *CanonicDragonfly) unpack(r int) (local, group int) {
	return r % d.a, r / d.a
}

func (d *CanonicDragonfly) NumRouters() int { return d.g * d.a }
func (d *CanonicDragonfly) NumServers() int { return d.NumRouters() * d.serversPerRouter }
func (d *CanonicDragonfly) Degree(int) int  { return (d.a - 1) + d.h }
func (d *CanonicDragonfly) Ports(r int) int { return d.Degree(r) + d.serversPerRouter }

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func (d *CanonicDragonfly) Neighbour(router, port int) (Location, int) {
	local, group := d.unpack(router)
	degree := d.Degree(router)
	if port < d.a-1 {
		targetLocal := port
		if port >= local {
			targetLocal = port + 1
		}
		reciprocal := local
		if local > targetLocal {
			reciprocal = local - 1
		}
		return NewRouterLocation(d.pack(targetLocal, group), reciprocal), 0
	}
	if port < degree {
		i := port - (d.a - 1)
		channel := local*d.h + i
		targetGroup := mod(group-channel-1, d.g)
		reciprocalChannel := mod(targetGroup-group-1, d.g)
		targetLocal := reciprocalChannel / d.h
		reciprocalPort := (d.a - 1) + reciprocalChannel%d.h
		return NewRouterLocation(d.pack(targetLocal, targetGroup), reciprocalPort), 1
	}
	serverIndex := router*d.serversPerRouter + (port - degree)
	return NewServerLocation(serverIndex), 2
}

func (d *CanonicDragonfly) ServerNeighbour(server int) (Location, int) {
	router := server / d.serversPerRouter
	offset := server % d.serversPerRouter
	return NewRouterLocation(router, d.Degree(router)+offset), 2
}

func (d *CanonicDragonfly) Diameter() int         { return d.diameter }
func (d *CanonicDragonfly) Distance(a, b int) int { return d.distance.Get(a, b) }
