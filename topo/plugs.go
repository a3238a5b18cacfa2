package topo

// TopologyBuilderFunc constructs a Topology from a builder argument. Used by
// the plug table to register topologies beyond the built-in set.
type TopologyBuilderFunc func(arg TopologyBuilderArgument) Topology

// RoutingBuilderFunc constructs a Routing from a builder argument. Used by
// the plug table to register routings beyond the built-in set.
type RoutingBuilderFunc func(arg RoutingBuilderArgument) Routing

// Plugs is the external plug table: a registry of user-provided topology and
// routing builders, consulted before the built-in dispatch in NewTopology
// and NewRouting so that user extensions take priority.
type Plugs struct {
	Topologies map[string]TopologyBuilderFunc
	Routings   map[string]RoutingBuilderFunc
}

// NewPlugs builds an empty plug table ready for registration.
func NewPlugs() *Plugs {
	return &Plugs{
		Topologies: make(map[string]TopologyBuilderFunc),
		Routings:   make(map[string]RoutingBuilderFunc),
	}
}

// RegisterTopology adds or replaces a named topology builder.
func (p *Plugs) RegisterTopology(name string, build TopologyBuilderFunc) {
	p.Topologies[name] = build
}

// RegisterRouting adds or replaces a named routing builder.
func (p *Plugs) RegisterRouting(name string, build RoutingBuilderFunc) {
	p.Routings[name] = build
}
