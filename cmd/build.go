package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/topofab/topofab/topo"
)

var buildSeed int64

var buildCmd = &cobra.Command{
	Use:   "build <config.yaml>",
	Short: "Build a topology from a YAML description and report its structure",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, _ := loadTopology(args[0], buildSeed)
		topo.CheckAdjacencyConsistency(t, -1)

		dist := topo.ComputeDistanceMatrix(t, nil)
		logrus.Infof("routers=%d servers=%d diameter=%d arcs=%d avg_distance=%.3f",
			t.NumRouters(), t.NumServers(), t.Diameter(), topo.NumArcs(t), topo.AverageDistance(dist))
		for d, count := range topo.DistanceDistribution(dist) {
			logrus.Infof("  distance %d: %d pairs", d, count)
		}
	},
}

func init() {
	buildCmd.Flags().Int64Var(&buildSeed, "seed", 1, "RNG seed for topology construction (e.g. random-regular graphs)")
	rootCmd.AddCommand(buildCmd)
}
