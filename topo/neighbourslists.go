package topo

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/topofab/topofab/config"
)

type neighbourEntry struct {
	router         int
	reciprocalPort int
}

// NeighboursLists stores adjacency as an explicit list per router, each
// entry a (neighbour router, reciprocal port index) pair. Built either by
// NewRandomRegularGraph (classical pairing algorithm) or NewFileTopology
// (the NODOS/GRADO/N text format). Distance and path-count matrices are
// precomputed and cached at construction. Link class is always 0; the
// server-attachment link class is 1.
type NeighboursLists struct {
	adjacency        [][]neighbourEntry
	serversPerRouter int
	distance         Matrix[int]
	amount           Matrix[uint64]
}

func newNeighboursLists(adjacency [][]neighbourEntry, serversPerRouter int) *NeighboursLists {
	n := &NeighboursLists{adjacency: adjacency, serversPerRouter: serversPerRouter}
	n.distance, n.amount = ComputeAmountShortestPaths(n)
	return n
}

func (n *NeighboursLists) NumRouters() int  { return len(n.adjacency) }
func (n *NeighboursLists) NumServers() int  { return n.NumRouters() * n.serversPerRouter }
func (n *NeighboursLists) Degree(r int) int { return len(n.adjacency[r]) }
func (n *NeighboursLists) Ports(r int) int  { return n.Degree(r) + n.serversPerRouter }

func (n *NeighboursLists) Neighbour(router, port int) (Location, int) {
	degree := n.Degree(router)
	if port < degree {
		e := n.adjacency[router][port]
		return NewRouterLocation(e.router, e.reciprocalPort), 0
	}
	serverIndex := router*n.serversPerRouter + (port - degree)
	return NewServerLocation(serverIndex), 1
}

func (n *NeighboursLists) ServerNeighbour(server int) (Location, int) {
	router := server / n.serversPerRouter
	offset := server % n.serversPerRouter
	return NewRouterLocation(router, n.Degree(router)+offset), 1
}

func (n *NeighboursLists) Diameter() int {
	max := 0
	for r := 0; r < n.NumRouters(); r++ {
		if e := Eccentricity(n.distance, r); e > max {
			max = e
		}
	}
	return max
}

func (n *NeighboursLists) Distance(a, b int) int { return n.distance.Get(a, b) }

// RouterNeighbours implements RouterIndexer, exposing the raw adjacency so
// the file representation can be reconstructed and round-tripped.
func (n *NeighboursLists) RouterNeighbours(router int) []struct{ Router, ReciprocalPort int } {
	out := make([]struct{ Router, ReciprocalPort int }, len(n.adjacency[router]))
	for i, e := range n.adjacency[router] {
		out[i] = struct{ Router, ReciprocalPort int }{e.router, e.reciprocalPort}
	}
	return out
}

// NewRandomRegularGraph builds a NeighboursLists over "routers" routers each
// of the given "degree", using the classical stub-pairing algorithm: all
// routers*degree stubs are paired uniformly at random, rejecting self-loops
// and multi-edges; if no valid pairing remains for the current partial
// matching, the whole construction restarts from scratch rather than
// patching partial state. Deterministic given rng's seed.
func NewRandomRegularGraph(cv config.Value, rng *RNG) *NeighboursLists {
	cv.CheckKnownFields("routers", "degree", "servers_per_router")
	n := cv.RequireField("routers").AsInt()
	degree := cv.RequireField("degree").AsInt()
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	if rng == nil {
		panic("topo: NewRandomRegularGraph requires an RNG")
	}
	adjacency := newRRGAdjacency(n, degree, rng)
	return newNeighboursLists(adjacency, spr)
}

func newRRGAdjacency(n, degree int, rng *RNG) [][]neighbourEntry {
	if n*degree%2 != 0 {
		panic(fmt.Sprintf("topo: RandomRegularGraph needs routers*degree even, got %d*%d", n, degree))
	}
	for {
		adjacency, ok := tryRRGAdjacency(n, degree, rng)
		if ok {
			return adjacency
		}
	}
}

func tryRRGAdjacency(n, degree int, rng *RNG) ([][]neighbourEntry, bool) {
	stubs := make([]int, 0, n*degree)
	for r := 0; r < n; r++ {
		for k := 0; k < degree; k++ {
			stubs = append(stubs, r)
		}
	}
	adjList := make([][]int, n)
	edgeCount := make(map[[2]int]int)
	for len(stubs) > 0 {
		i := rng.Intn(len(stubs))
		a := stubs[i]
		stubs = append(stubs[:i], stubs[i+1:]...)

		var candidates []int
		for j, b := range stubs {
			if b == a {
				continue
			}
			key := edgeKey(a, b)
			if edgeCount[key] > 0 {
				continue
			}
			candidates = append(candidates, j)
		}
		if len(candidates) == 0 {
			return nil, false
		}
		j := candidates[rng.Intn(len(candidates))]
		b := stubs[j]
		stubs = append(stubs[:j], stubs[j+1:]...)

		edgeCount[edgeKey(a, b)]++
		adjList[a] = append(adjList[a], b)
		adjList[b] = append(adjList[b], a)
	}

	// Self-loops and multi-edges were rejected during pairing, so each
	// neighbour appears exactly once in the other side's list and the
	// reciprocal port is its plain index there.
	adjacency := make([][]neighbourEntry, n)
	for a := 0; a < n; a++ {
		adjacency[a] = make([]neighbourEntry, len(adjList[a]))
		for p, b := range adjList[a] {
			reciprocalPort := -1
			for q, v := range adjList[b] {
				if v == a {
					reciprocalPort = q
					break
				}
			}
			if reciprocalPort == -1 {
				panic(fmt.Sprintf("topo: RandomRegularGraph pairing lost the reciprocal of edge %d-%d", a, b))
			}
			adjacency[a][p] = neighbourEntry{router: b, reciprocalPort: reciprocalPort}
		}
	}
	return adjacency, true
}

func edgeKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// NewFileTopology builds a NeighboursLists from a NODOS/GRADO/N-format
// adjacency text. The configuration object's "contents" field holds the
// file text (as a Literal); "servers_per_router" is optional, default 1.
func NewFileTopology(cv config.Value) *NeighboursLists {
	cv.CheckKnownFields("contents", "servers_per_router")
	text := cv.RequireField("contents").AsLiteral()
	spr := 1
	if f, ok := cv.Field("servers_per_router"); ok {
		spr = f.AsInt()
	}
	rawAdjacency := parseNeighboursFile(text)
	adjacency := resolveFileReciprocals(rawAdjacency)
	return newNeighboursLists(adjacency, spr)
}

// parseNeighboursFile reads the ASCII, whitespace-delimited NODOS/GRADO/N
// format: "NODOS n" gives the router count, "GRADO d" names the target
// degree (accepted, not otherwise required by this parser), and each "N i"
// line is followed by a line listing i's neighbours.
func parseNeighboursFile(text string) [][]int {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	var adjacency [][]int
	n := -1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "NODOS":
			count, err := strconv.Atoi(fields[1])
			if err != nil {
				panic(fmt.Sprintf("topo: invalid NODOS value %q", fields[1]))
			}
			n = count
			adjacency = make([][]int, n)
		case "GRADO":
			// target degree: accepted and ignored; it is neither required nor checked.
		case "N":
			if n < 0 {
				panic("topo: neighbours file has an N directive before NODOS")
			}
			router, err := strconv.Atoi(fields[1])
			if err != nil {
				panic(fmt.Sprintf("topo: invalid N value %q", fields[1]))
			}
			if !scanner.Scan() {
				panic(fmt.Sprintf("topo: neighbours file truncated after N %d", router))
			}
			neighbourFields := strings.Fields(scanner.Text())
			neighbours := make([]int, len(neighbourFields))
			for i, f := range neighbourFields {
				v, err := strconv.Atoi(f)
				if err != nil {
					panic(fmt.Sprintf("topo: invalid neighbour index %q for router %d", f, router))
				}
				neighbours[i] = v
			}
			adjacency[router] = neighbours
		default:
			panic(fmt.Sprintf("topo: unrecognized neighbours-file directive %q", fields[0]))
		}
	}
	if n < 0 {
		panic("topo: neighbours file has no NODOS directive")
	}
	return adjacency
}

// resolveFileReciprocals matches each directed (router, port) -> neighbour
// entry against the corresponding entry in the neighbour's own list,
// claiming occurrences left-to-right so that parallel edges in the source
// file are paired consistently.
func resolveFileReciprocals(raw [][]int) [][]neighbourEntry {
	n := len(raw)
	claimed := make([][]bool, n)
	for r := range raw {
		claimed[r] = make([]bool, len(raw[r]))
	}
	result := make([][]neighbourEntry, n)
	for r := range raw {
		result[r] = make([]neighbourEntry, len(raw[r]))
	}
	for r := 0; r < n; r++ {
		for p, v := range raw[r] {
			if claimed[r][p] {
				continue
			}
			found := -1
			for p2, vv := range raw[v] {
				if vv != r || claimed[v][p2] {
					continue
				}
				if v == r && p2 == p {
					continue
				}
				found = p2
				break
			}
			if found == -1 {
				panic(fmt.Sprintf("topo: neighbours file adjacency is not symmetric: router %d lists %d with no reciprocal", r, v))
			}
			claimed[r][p] = true
			claimed[v][found] = true
			result[r][p] = neighbourEntry{router: v, reciprocalPort: found}
			result[v][found] = neighbourEntry{router: r, reciprocalPort: p}
		}
	}
	return result
}
