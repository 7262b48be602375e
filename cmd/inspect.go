package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/util"
	"github.com/spf13/cobra"
)

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>",
	Short: "Inspects a chart snapshot",
	Long:  `Prints every target and path builder in a snapshot.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := util.ReadBinary[model.ChartSnapshot](args[0])
		if err != nil {
			return err
		}
		if inspectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		inspect(os.Stdout, snap)
		return nil
	},
}

func inspect(w io.Writer, snap model.ChartSnapshot) {
	fmt.Fprintf(w, "session: %v\n", snap.Session)
	for _, t := range snap.Targets {
		fmt.Fprintf(w, "%6d  t%-8d len %-6d %-11v %-6v %-10v (%.2f, %.2f)",
			t.ID, t.Tick, t.TickLength, t.Behavior, t.Hand, t.Velocity, t.X, t.Y)
		if t.Owner != 0 {
			fmt.Fprintf(w, "  <- %d", t.Owner)
		}
		fmt.Fprintln(w)
	}
	for _, b := range snap.Builders {
		fmt.Fprintf(w, "builder %d active=%v generated=%d params=%+v\n", b.Anchor, b.Active, len(b.Generated), b.Params)
	}
}
