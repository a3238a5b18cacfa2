// Package topo provides the structural core of an interconnection-network
// simulator: the topology substrate (routers, servers, and the links between
// them) and the routing-algorithm framework that decides, hop by hop, which
// egress a packet takes toward its destination server.
//
// # Reading Guide
//
// Start with these files to understand the shape of the package:
//   - matrix.go: the fixed-shape 2D array used for distance and path-count caches.
//   - topology.go: the Topology interface, the builder dispatcher, and the plug table.
//   - topology_algorithms.go: BFS, Floyd-Warshall, component discovery, consistency checks.
//   - routing.go: the Routing interface, RoutingInfo, CandidateEgress, and the builder dispatcher.
//
// # Concrete topologies
//
// cartesian_topologies.go (Mesh, Torus, Hamming), dragonfly.go (CanonicDragonfly),
// neighbourslists.go (random-regular and file-loaded graphs), projective.go
// (Projective and LeviProjective), slimfly.go (SlimFly).
//
// # Concrete routings
//
// routing_shortest.go (Shortest, WeighedShortest), routing_dor.go (DOR, O1TURN,
// ValiantDOR, OmniDimensionalDeroute), routing_valiant.go (Valiant),
// routing_sum.go (SumRouting), routing_source.go (SourceRouting),
// routing_misc.go (Mindless, Stubborn).
//
// # Ambient support
//
// rng.go wraps the single shared random source; errors throughout are fatal
// (panic) per the package's error-handling design, mirrored in every
// constructor and every Routing.Next implementation.
package topo
