package pathbuilder

import (
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
)

// ParamsRecord flattens parameters and a policy for saving. Policies other
// than Count and Until are saved as AnchorLength.
func ParamsRecord(p Params, policy Termination) model.PathParams {
	r := model.PathParams{
		Behavior:       p.Behavior,
		Velocity:       p.Velocity,
		Hand:           p.Hand,
		IntervalTicks:  p.Interval.Tick,
		InitialAngle:   p.InitialAngle,
		Angle:          p.Angle,
		AngleIncrement: p.AngleIncrement,
		StepDistance:   p.StepDistance,
		StepIncrement:  p.StepIncrement,
	}
	switch pol := policy.(type) {
	case count:
		r.Steps = int(pol)
	case *until:
		r.UntilTick = pol.end.Tick
	}
	return r
}

func FromRecord(r model.PathParams) (Params, Termination) {
	p := Params{
		Behavior:       r.Behavior,
		Velocity:       r.Velocity,
		Hand:           r.Hand,
		Interval:       qnt.DurationFromTicks(r.IntervalTicks),
		InitialAngle:   r.InitialAngle,
		Angle:          r.Angle,
		AngleIncrement: r.AngleIncrement,
		StepDistance:   r.StepDistance,
		StepIncrement:  r.StepIncrement,
	}
	switch {
	case r.Steps > 0:
		return p, Count(r.Steps)
	case r.UntilTick > 0:
		return p, Until(qnt.FromTicks(r.UntilTick))
	}
	return p, AnchorLength()
}

func (b *Builder) Record() model.PathBuilderRecord {
	generated := make([]uint64, 0, len(b.generated))
	for _, id := range b.generated {
		generated = append(generated, uint64(id))
	}
	return model.PathBuilderRecord{
		Anchor:    uint64(b.anchor.ID()),
		Active:    b.state != Inactive,
		Params:    ParamsRecord(b.params, b.policy),
		Generated: generated,
	}
}
