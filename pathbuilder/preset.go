package pathbuilder

import (
	"io"

	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Preset is a named parameter set as written in a presets file. Missing keys
// keep the builder defaults. Interval is given either in ticks or as a note
// division (16 for sixteenths); ticks win when both are set.
type Preset struct {
	Name           string         `yaml:"name"`
	Behavior       model.Behavior `yaml:"behavior"`
	Velocity       model.Velocity `yaml:"velocity"`
	Hand           model.HandType `yaml:"hand"`
	IntervalTicks  uint64         `yaml:"interval_ticks"`
	Division       uint64         `yaml:"division"`
	InitialAngle   float64        `yaml:"initial_angle"`
	Angle          float64        `yaml:"angle"`
	AngleIncrement float64        `yaml:"angle_increment"`
	StepDistance   float64        `yaml:"step_distance"`
	StepIncrement  float64        `yaml:"step_increment"`
	// Steps > 0 generates a fixed count, otherwise the anchor's length is filled.
	Steps int `yaml:"steps"`
}

type presetFile struct {
	Presets []yaml.Node `yaml:"presets"`
}

func defaultPreset() Preset {
	p := DefaultParams()
	return Preset{
		Behavior:      p.Behavior,
		Velocity:      p.Velocity,
		Hand:          p.Hand,
		IntervalTicks: p.Interval.Tick,
		StepDistance:  p.StepDistance,
	}
}

// LoadPresets reads a document of the form `presets: [{name: ..., ...}]`.
func LoadPresets(r io.Reader) ([]Preset, error) {
	var f presetFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode presets")
	}
	res := make([]Preset, 0, len(f.Presets))
	for i := range f.Presets {
		p := defaultPreset()
		if err := f.Presets[i].Decode(&p); err != nil {
			return nil, errors.Wrapf(err, "preset %d", i)
		}
		if f.Presets[i].Kind == yaml.MappingNode && !hasKey(&f.Presets[i], "interval_ticks") && p.Division > 0 {
			p.IntervalTicks = 0
		}
		if err := p.Params().Validate(); err != nil {
			return nil, errors.Wrapf(err, "preset %q", p.Name)
		}
		res = append(res, p)
	}
	return res, nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// FindPreset looks a preset up by name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

func (p Preset) Params() Params {
	interval := qnt.DurationFromTicks(p.IntervalTicks)
	if p.IntervalTicks == 0 && p.Division > 0 {
		interval = qnt.Division(p.Division)
	}
	return Params{
		Behavior:       p.Behavior,
		Velocity:       p.Velocity,
		Hand:           p.Hand,
		Interval:       interval,
		InitialAngle:   p.InitialAngle,
		Angle:          p.Angle,
		AngleIncrement: p.AngleIncrement,
		StepDistance:   p.StepDistance,
		StepIncrement:  p.StepIncrement,
	}
}

func (p Preset) Termination() Termination {
	if p.Steps > 0 {
		return Count(p.Steps)
	}
	return AnchorLength()
}
