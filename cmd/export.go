package cmd

import (
	"github.com/jsphweid/cuegrid/cues"
	"github.com/jsphweid/cuegrid/grid"
	"github.com/jsphweid/cuegrid/midi"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <snapshot> <out.mid>",
	Short: "Exports a chart snapshot as MIDI cues",
	Long:  `Writes every target in a snapshot as a note, pitch taken from its grid position.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := util.ReadBinary[model.ChartSnapshot](args[0])
		if err != nil {
			return err
		}
		cs := make([]model.Cue, 0, len(snap.Targets))
		for _, r := range snap.Targets {
			cs = append(cs, cues.FromRecord(r, grid.Default.PosToPitch))
		}
		s, err := cues.ToSMF(cs)
		if err != nil {
			return err
		}
		return midi.WriteMidiFile(args[1], s)
	},
}
