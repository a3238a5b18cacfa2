package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/topofab/topofab/topo"
)

var (
	traceFrom int
	traceTo   int
	traceSeed int64
	traceVCs  int
)

var traceCmd = &cobra.Command{
	Use:   "trace <config.yaml>",
	Short: "Drive a single packet from one server to another and log every hop",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, root := loadTopology(args[0], traceSeed)
		rng := topo.NewRNG(traceSeed)
		routingField, ok := root.Field("routing")
		if !ok {
			logrus.Fatal(`trace requires a "routing" key in the configuration`)
		}
		r := topo.NewRouting(topo.RoutingBuilderArgument{CV: routingField})
		r.Initialize(t, rng)

		loc, _ := t.ServerNeighbour(traceFrom)
		current := loc.RouterIndex
		info := topo.NewRoutingInfo()
		r.InitializeRoutingInfo(info, t, current, traceTo, rng)
		logrus.Infof("hop 0: router %d", current)
		for {
			candidates := r.Next(info, t, current, traceTo, traceVCs, rng)
			chosen := candidates[0]
			r.PerformedRequest(chosen, info, t, current, traceTo, traceVCs, rng)
			nextLoc, _ := t.Neighbour(current, chosen.Port)
			if nextLoc.Kind == topo.LocationServerPort {
				logrus.Infof("delivered to server %d after %d hops", nextLoc.ServerIndex, info.Hops)
				return
			}
			r.UpdateRoutingInfo(info, t, nextLoc.RouterIndex, nextLoc.RouterPort, traceTo, rng)
			current = nextLoc.RouterIndex
			logrus.Infof("hop %d: router %d", info.Hops, current)
		}
	},
}

func init() {
	traceCmd.Flags().IntVar(&traceFrom, "from", 0, "source server index")
	traceCmd.Flags().IntVar(&traceTo, "to", 0, "destination server index")
	traceCmd.Flags().Int64Var(&traceSeed, "seed", 1, "RNG seed")
	traceCmd.Flags().IntVar(&traceVCs, "vcs", 2, "number of virtual channels")
	rootCmd.AddCommand(traceCmd)
}
