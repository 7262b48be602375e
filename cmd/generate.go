package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/grid"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/pathbuilder"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/session"
	"github.com/jsphweid/cuegrid/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	presetsPath string
	presetName  string
	save        bool

	anchorTick   uint64
	anchorLength uint64
	anchorX      float32
	anchorY      float32

	behavior string
	velocity string
	hand     string
	preset   pathbuilder.Preset
}

var genOpts generateOptions

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.presetsPath, "presets", "", "YAML presets file")
	f.StringVar(&genOpts.presetName, "preset", "", "preset to use from --presets")
	f.BoolVar(&genOpts.save, "save", false, "write the chart snapshot to the output dir")

	f.Uint64Var(&genOpts.anchorTick, "tick", 0, "anchor time in ticks")
	f.Uint64Var(&genOpts.anchorLength, "length", constants.TicksPerBeat*constants.BeatsPerMeasure, "anchor length in ticks")
	f.Float32Var(&genOpts.anchorX, "x", 0, "anchor x")
	f.Float32Var(&genOpts.anchorY, "y", 0, "anchor y")

	def := pathbuilder.DefaultParams()
	f.StringVar(&genOpts.behavior, "behavior", def.Behavior.String(), "behavior of generated targets")
	f.StringVar(&genOpts.velocity, "velocity", def.Velocity.String(), "velocity of generated targets")
	f.StringVar(&genOpts.hand, "hand", def.Hand.String(), "hand of generated targets")
	f.Uint64Var(&genOpts.preset.IntervalTicks, "interval", def.Interval.Tick, "ticks between steps")
	f.Uint64Var(&genOpts.preset.Division, "division", 0, "note division between steps (16 for sixteenths) instead of --interval")
	f.Float64Var(&genOpts.preset.InitialAngle, "initial-angle", def.InitialAngle, "heading of the first step in degrees")
	f.Float64Var(&genOpts.preset.Angle, "angle", def.Angle, "constant heading offset in degrees")
	f.Float64Var(&genOpts.preset.AngleIncrement, "angle-increment", def.AngleIncrement, "turn per step in degrees")
	f.Float64Var(&genOpts.preset.StepDistance, "step-distance", def.StepDistance, "length of the first step")
	f.Float64Var(&genOpts.preset.StepIncrement, "step-increment", def.StepIncrement, "growth of each step")
	f.IntVar(&genOpts.preset.Steps, "steps", 0, "fixed number of steps (0 fills the anchor length)")

	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a target path",
	Long:  `Places an anchor and prints the targets a path builder generates from it, configured by flags or a preset.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("division") && !cmd.Flags().Changed("interval") {
			genOpts.preset.IntervalTicks = 0
		}
		preset, err := genOpts.resolve()
		if err != nil {
			return err
		}
		s, b, err := Generate(newLogger(), preset, pathbuilder.Anchor{
			Time:   qnt.FromTicks(genOpts.anchorTick),
			Length: qnt.DurationFromTicks(genOpts.anchorLength),
			X:      genOpts.anchorX,
			Y:      genOpts.anchorY,
		})
		if err != nil {
			return err
		}
		printGenerated(os.Stdout, s, b)
		if genOpts.save {
			if _, err := util.EnsureOutputDir(); err != nil {
				return err
			}
			return util.CreateBinary(util.GetSnapshotPath(), s.Snapshot())
		}
		return nil
	},
}

func (o generateOptions) resolve() (pathbuilder.Preset, error) {
	if o.presetsPath != "" {
		f, err := os.Open(o.presetsPath)
		if err != nil {
			return pathbuilder.Preset{}, errors.Wrap(err, "could not open presets")
		}
		defer f.Close()
		presets, err := pathbuilder.LoadPresets(f)
		if err != nil {
			return pathbuilder.Preset{}, err
		}
		p, ok := pathbuilder.FindPreset(presets, o.presetName)
		if !ok {
			return pathbuilder.Preset{}, errors.Errorf("no preset named %q in %v", o.presetName, o.presetsPath)
		}
		return p, nil
	}

	p := o.preset
	var err error
	if p.Behavior, err = model.ParseBehavior(o.behavior); err != nil {
		return p, err
	}
	if p.Velocity, err = model.ParseVelocity(o.velocity); err != nil {
		return p, err
	}
	if p.Hand, err = model.ParseHand(o.hand); err != nil {
		return p, err
	}
	return p, nil
}

// Generate builds a one-anchor chart and runs the preset's path on it.
func Generate(l *logger.Logger, preset pathbuilder.Preset, anchor pathbuilder.Anchor) (*session.Session, *pathbuilder.Builder, error) {
	s := session.New(l, grid.Default)
	a := s.NewTarget()
	a.SetPosition(anchor.X, anchor.Y)
	a.SetTime(anchor.Time)
	a.SetLength(anchor.Length)
	a.SetBehavior(model.BehaviorPathBuilder)
	if err := s.InsertTarget(a); err != nil {
		return nil, nil, err
	}
	b, err := s.AttachPathBuilder(a.ID())
	if err != nil {
		return nil, nil, err
	}
	if err := b.Configure(preset.Params(), preset.Termination()); err != nil {
		return nil, nil, err
	}
	if err := b.Activate(nil); err != nil {
		return nil, nil, err
	}
	return s, b, nil
}

func printGenerated(w io.Writer, s *session.Session, b *pathbuilder.Builder) {
	fmt.Fprintf(w, "anchor %v, %v\n", b.Anchor(), b.Policy())
	for _, t := range s.Timeline().OwnedBy(b.Anchor().ID()) {
		fmt.Fprintf(w, "  %v\n", t)
	}
}
