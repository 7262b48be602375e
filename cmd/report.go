package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [snapshot]",
	Short: "Summarizes a chart snapshot",
	Long:  `Counts targets per behavior, hand and velocity in a snapshot (defaults to the one in the output dir).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := util.GetSnapshotPath()
		if len(args) == 1 {
			path = args[0]
		}
		snap, err := util.ReadBinary[model.ChartSnapshot](path)
		if err != nil {
			return err
		}
		printReport(os.Stdout, summarize(snap))
		return nil
	},
}

type chartReport struct {
	numTargets   int
	numGenerated int
	numBuilders  int
	numActive    int
	byBehavior   map[string]int
	byHand       map[string]int
	byVelocity   map[string]int
	start, end   qnt.Timestamp
}

func summarize(snap model.ChartSnapshot) chartReport {
	r := chartReport{
		byBehavior: make(map[string]int),
		byHand:     make(map[string]int),
		byVelocity: make(map[string]int),
	}
	for i, t := range snap.Targets {
		r.numTargets++
		if t.Owner != 0 {
			r.numGenerated++
		}
		r.byBehavior[t.Behavior.String()]++
		r.byHand[t.Hand.String()]++
		r.byVelocity[t.Velocity.String()]++

		end := t.Tick
		if model.SupportsLength(t.Behavior) {
			end += t.TickLength
		}
		if i == 0 || t.Tick < r.start.Tick {
			r.start = qnt.FromTicks(t.Tick)
		}
		r.end = qnt.FromTicks(util.Max(r.end.Tick, end))
	}
	for _, b := range snap.Builders {
		r.numBuilders++
		if b.Active {
			r.numActive++
		}
	}
	return r
}

func printReport(w io.Writer, r chartReport) {
	fmt.Fprintf(w, "targets: %v (%v generated)\n", r.numTargets, r.numGenerated)
	fmt.Fprintf(w, "path builders: %v (%v active)\n", r.numBuilders, r.numActive)
	if r.numTargets > 0 {
		fmt.Fprintf(w, "span: %v - %v (%.2f beats)\n", r.start, r.end, r.end.Beats()-r.start.Beats())
	}
	for _, counts := range []struct {
		name string
		m    map[string]int
	}{{"behavior", r.byBehavior}, {"hand", r.byHand}, {"velocity", r.byVelocity}} {
		for _, k := range util.SortedKeys(counts.m) {
			fmt.Fprintf(w, "%v %v: %v\n", counts.name, k, counts.m[k])
		}
	}
}
