package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/cuegrid/cues"
	"github.com/jsphweid/cuegrid/grid"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/midi"
	"github.com/jsphweid/cuegrid/session"
	"github.com/jsphweid/cuegrid/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	importMaxNum    int
	importHoldTicks uint64
)

func init() {
	importCmd.Flags().IntVar(&importMaxNum, "max", 0, "import at most this many files from a directory (0 for all)")
	importCmd.Flags().Uint64Var(&importHoldTicks, "hold-ticks", cues.DefaultOptions().HoldTicks, "notes at least this many ticks long become holds (0 disables)")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.mid|dir>",
	Short: "Imports cues from MIDI",
	Long: `Reads note on/off pairs from a MIDI file into a new chart and saves a snapshot.
A directory imports every .mid/.midi file under it, one snapshot each.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Import(newLogger(), args[0], importMaxNum, cues.Options{HoldTicks: importHoldTicks})
	},
}

func Import(l *logger.Logger, path string, maxNum int, opts cues.Options) error {
	paths, err := util.GatherAllMidiPaths(path, maxNum)
	if err != nil {
		return err
	}
	dir, err := util.EnsureOutputDir()
	if err != nil {
		return err
	}

	for _, p := range paths {
		s, err := importFile(l, p, opts)
		if err != nil {
			return err
		}
		out := util.GetSnapshotPath()
		if len(paths) > 1 {
			base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			out = filepath.Join(dir, base+".dat")
		}
		snap := s.Snapshot()
		if err := util.CreateBinary(out, snap); err != nil {
			return err
		}
		l.Infof("wrote %v", out)
		printReport(os.Stdout, summarize(snap))
	}
	return nil
}

func importFile(l *logger.Logger, path string, opts cues.Options) (*session.Session, error) {
	file, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "import %v", path)
	}
	cs, err := cues.FromSMF(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "import %v", path)
	}
	s := session.New(l, grid.Default)
	if _, err := s.ImportCues(cs); err != nil {
		return nil, err
	}
	return s, nil
}
