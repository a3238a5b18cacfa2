package cmd

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/topofab/topofab/config"
	"github.com/topofab/topofab/topo"
)

// loadConfig reads and parses a YAML configuration file into a config.Value
// tree.
func loadConfig(path string) config.Value {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("reading %s: %v", path, err)
	}
	v, err := config.FromYAML(data)
	if err != nil {
		logrus.Fatalf("parsing %s: %v", path, err)
	}
	return v
}

// loadTopology reads the configuration file and builds its "topology" key,
// returning both the built topology and the full configuration tree (so
// callers can also look up a "routing" key).
func loadTopology(path string, seed int64) (topo.Topology, config.Value) {
	root := loadConfig(path)
	root.CheckKnownFields("topology", "routing")
	rng := topo.NewRNG(seed)
	t := topo.NewTopology(topo.TopologyBuilderArgument{CV: root.RequireField("topology"), RNG: rng})
	return t, root
}
