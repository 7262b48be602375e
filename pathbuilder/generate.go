package pathbuilder

import (
	"math"

	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/pkg/errors"
)

var ErrInvalidParameter = errors.New("invalid path builder parameter")

// Params drive generation. Angles are degrees, distances grid units.
type Params struct {
	Behavior       model.Behavior
	Velocity       model.Velocity
	Hand           model.HandType
	Interval       qnt.Duration
	InitialAngle   float64
	Angle          float64
	AngleIncrement float64
	StepDistance   float64
	StepIncrement  float64
}

func DefaultParams() Params {
	return Params{
		Behavior:     model.BehaviorStandard,
		Velocity:     model.VelocityStandard,
		Hand:         model.HandLeft,
		Interval:     qnt.DurationFromTicks(constants.SixteenthNoteTicks),
		StepDistance: 0.5,
	}
}

// Validate only rejects values no path can be built from. Zero or negative
// intervals and step distances are allowed.
func (p Params) Validate() error {
	switch {
	case !p.Behavior.Valid():
		return errors.Wrapf(ErrInvalidParameter, "unknown behavior %d", uint8(p.Behavior))
	case !p.Velocity.Valid():
		return errors.Wrapf(ErrInvalidParameter, "unknown velocity %d", uint8(p.Velocity))
	case !p.Hand.Valid():
		return errors.Wrapf(ErrInvalidParameter, "unknown hand %d", uint8(p.Hand))
	}
	fields := map[string]float64{
		"initial angle":   p.InitialAngle,
		"angle":           p.Angle,
		"angle increment": p.AngleIncrement,
		"step distance":   p.StepDistance,
		"step increment":  p.StepIncrement,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidParameter, "%v is %v", name, v)
		}
	}
	return nil
}

// Anchor is the part of the anchor target generation reads.
type Anchor struct {
	Time   qnt.Timestamp
	Length qnt.Duration
	X, Y   float32
}

// Step is one generated point.
type Step struct {
	Time  qnt.Timestamp
	X, Y  float32
	Angle float64
}

// Generate walks the path described by p from the anchor. Step 1 heads in
// the direction InitialAngle+Angle, every following step turns by
// AngleIncrement and grows by StepIncrement.
func Generate(p Params, anchor Anchor, policy Termination) ([]Step, error) {
	if policy == nil {
		return nil, errors.Wrap(ErrInvalidParameter, "no termination policy")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var steps []Step
	t := anchor.Time
	x, y := float64(anchor.X), float64(anchor.Y)
	heading := p.InitialAngle + p.Angle
	dist := p.StepDistance

	for i := 1; ; i++ {
		t = t.Add(p.Interval)
		if i > 1 {
			heading += p.AngleIncrement
			dist += p.StepIncrement
		}
		if !policy.Continue(i, t, anchor) {
			break
		}
		rad := heading * math.Pi / 180
		x += dist * math.Cos(rad)
		y += dist * math.Sin(rad)
		steps = append(steps, Step{Time: t, X: float32(x), Y: float32(y), Angle: heading})
	}
	return steps, nil
}
