package pathbuilder

import (
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/observer"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/target"
	"github.com/jsphweid/cuegrid/timeline"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Editor is the editing collaborator generated targets are created, inserted
// and deleted through, so undo history and views see every change.
type Editor interface {
	NewTarget() *target.Target
	Lookup(id target.ID) (*target.Target, bool)
	InsertTarget(t *target.Target) error
	DeleteTarget(id target.ID) error
}

var _ timeline.Owner = (*Builder)(nil)

type State int

const (
	Inactive State = iota
	Active
	Regenerating
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Regenerating:
		return "regenerating"
	}
	return "unknown"
}

// Builder generates targets from an anchor and owns the ids it generated.
// Requests to regenerate or deactivate made while a regeneration is running
// (from a notification handler, say) are queued and run once it finishes;
// any number of regenerate requests collapse into one.
type Builder struct {
	anchor *target.Target
	params Params
	policy Termination
	editor Editor
	logger *logger.Logger

	state             State
	generated         []target.ID
	pending           bool
	deactivatePending bool
	unwatch           []func()

	OnRegenerated  observer.Registry[[]target.ID]
	OnInitialAngle observer.Registry[float64]
	OnDeactivated  observer.Registry[target.ID]
}

func New(anchor *target.Target, editor Editor, l *logger.Logger) *Builder {
	return &Builder{
		anchor: anchor,
		params: DefaultParams(),
		policy: AnchorLength(),
		editor: editor,
		logger: l.With("pathbuilder"),
	}
}

func (b *Builder) Anchor() *target.Target { return b.anchor }
func (b *Builder) Params() Params         { return b.params }
func (b *Builder) State() State           { return b.state }
func (b *Builder) Policy() Termination    { return b.policy }

func (b *Builder) Generated() []target.ID {
	return slices.Clone(b.generated)
}

// Activate starts tracking the anchor and generates. A nil policy keeps the
// current one.
func (b *Builder) Activate(policy Termination) error {
	if policy != nil {
		b.policy = policy
	}
	if b.state != Inactive {
		return b.Regenerate()
	}
	b.state = Active
	b.watchAnchor()
	b.logger.Debugf("activated for anchor %d", b.anchor.ID())
	return b.Regenerate()
}

// Deactivate deletes every generated target. It is a no-op when inactive.
func (b *Builder) Deactivate() error {
	switch b.state {
	case Inactive:
		return nil
	case Regenerating:
		b.deactivatePending = true
		return nil
	}
	remaining, err := b.deleteAll(b.generated)
	b.generated = remaining
	if err != nil {
		return err
	}
	b.unwatchAnchor()
	b.state = Inactive
	b.logger.Debugf("deactivated for anchor %d", b.anchor.ID())
	b.OnDeactivated.Notify(b.anchor.ID())
	return nil
}

// Detach forgets a generated target someone else removed.
func (b *Builder) Detach(id target.ID) {
	if i := slices.Index(b.generated, id); i >= 0 {
		b.generated = slices.Delete(b.generated, i, i+1)
	}
}

// SetPolicy swaps the termination policy and regenerates.
func (b *Builder) SetPolicy(policy Termination) error {
	if policy == nil {
		return errors.Wrap(ErrInvalidParameter, "no termination policy")
	}
	b.policy = policy
	return b.Regenerate()
}

// SetParams replaces every parameter with a single regeneration.
func (b *Builder) SetParams(p Params) error {
	return b.Configure(p, b.policy)
}

// Configure replaces parameters and policy with a single regeneration.
func (b *Builder) Configure(p Params, policy Termination) error {
	if policy == nil {
		return errors.Wrap(ErrInvalidParameter, "no termination policy")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	angleChanged := p.InitialAngle != b.params.InitialAngle
	b.params = p
	b.policy = policy
	if angleChanged {
		b.OnInitialAngle.Notify(p.InitialAngle)
	}
	return b.Regenerate()
}

// update applies change to a copy of the parameters, so a rejected value
// leaves the builder as it was.
func (b *Builder) update(change func(p *Params)) error {
	p := b.params
	change(&p)
	return b.SetParams(p)
}

func (b *Builder) SetBehavior(v model.Behavior) error {
	return b.update(func(p *Params) { p.Behavior = v })
}

func (b *Builder) SetVelocity(v model.Velocity) error {
	return b.update(func(p *Params) { p.Velocity = v })
}

func (b *Builder) SetHand(v model.HandType) error {
	return b.update(func(p *Params) { p.Hand = v })
}

func (b *Builder) SetInterval(v qnt.Duration) error {
	return b.update(func(p *Params) { p.Interval = v })
}

// SetInitialAngle notifies OnInitialAngle before regenerating when the angle
// changes.
func (b *Builder) SetInitialAngle(v float64) error {
	return b.update(func(p *Params) { p.InitialAngle = v })
}

func (b *Builder) SetAngle(v float64) error {
	return b.update(func(p *Params) { p.Angle = v })
}

func (b *Builder) SetAngleIncrement(v float64) error {
	return b.update(func(p *Params) { p.AngleIncrement = v })
}

func (b *Builder) SetStepDistance(v float64) error {
	return b.update(func(p *Params) { p.StepDistance = v })
}

func (b *Builder) SetStepIncrement(v float64) error {
	return b.update(func(p *Params) { p.StepIncrement = v })
}

// Regenerate replaces the generated set with one built from the current
// parameters. Inactive builders only keep the parameters. On error the
// previous set is left in place.
func (b *Builder) Regenerate() error {
	switch b.state {
	case Inactive:
		return nil
	case Regenerating:
		b.pending = true
		return nil
	}

	b.state = Regenerating
	var err error
	for {
		b.pending = false
		if err = b.regenerate(); err != nil || !b.pending {
			break
		}
	}
	b.pending = false
	b.state = Active

	if b.deactivatePending {
		b.deactivatePending = false
		if derr := b.Deactivate(); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func (b *Builder) anchorState() Anchor {
	return Anchor{
		Time:   b.anchor.Time(),
		Length: b.anchor.Length(),
		X:      b.anchor.X(),
		Y:      b.anchor.Y(),
	}
}

func (b *Builder) regenerate() error {
	steps, err := Generate(b.params, b.anchorState(), b.policy)
	if err != nil {
		return err
	}
	fresh := make([]*target.Target, 0, len(steps))
	for _, s := range steps {
		t := b.editor.NewTarget()
		t.SetPosition(s.X, s.Y)
		t.SetTime(s.Time)
		t.SetVelocity(b.params.Velocity)
		t.SetHand(b.params.Hand)
		t.SetBehavior(b.params.Behavior)
		t.Owner = b.anchor.ID()
		fresh = append(fresh, t)
	}

	old := slices.Clone(b.generated)
	var removed []*target.Target
	for _, id := range old {
		t, ok := b.editor.Lookup(id)
		if !ok {
			continue
		}
		if err := b.editor.DeleteTarget(id); err != nil {
			if errors.Is(err, timeline.ErrNotFound) {
				continue
			}
			b.restore(old, removed, nil)
			return errors.Wrapf(err, "regenerate anchor %d", b.anchor.ID())
		}
		removed = append(removed, t)
	}

	var inserted []*target.Target
	for _, t := range fresh {
		if err := b.editor.InsertTarget(t); err != nil {
			b.restore(old, removed, inserted)
			return errors.Wrapf(err, "regenerate anchor %d", b.anchor.ID())
		}
		inserted = append(inserted, t)
	}

	b.generated = make([]target.ID, 0, len(fresh))
	for _, t := range fresh {
		b.generated = append(b.generated, t.ID())
	}
	b.logger.Debugf("anchor %d generated %d targets", b.anchor.ID(), len(b.generated))
	b.OnRegenerated.Notify(b.Generated())
	return nil
}

// restore undoes a half finished regeneration: new targets come out, deleted
// old ones go back in.
func (b *Builder) restore(old []target.ID, removed, inserted []*target.Target) {
	for _, t := range inserted {
		if err := b.editor.DeleteTarget(t.ID()); err != nil {
			b.logger.Errorf("rollback could not delete %d: %v", t.ID(), err)
		}
	}
	for _, t := range removed {
		if err := b.editor.InsertTarget(t); err != nil {
			b.logger.Errorf("rollback could not restore %d: %v", t.ID(), err)
		}
	}
	b.generated = b.generated[:0]
	for _, id := range old {
		if _, ok := b.editor.Lookup(id); ok {
			b.generated = append(b.generated, id)
		}
	}
}

// deleteAll returns the ids it could not delete.
func (b *Builder) deleteAll(ids []target.ID) ([]target.ID, error) {
	pending := slices.Clone(ids)
	for len(pending) > 0 {
		id := pending[0]
		if err := b.editor.DeleteTarget(id); err != nil && !errors.Is(err, timeline.ErrNotFound) {
			return pending, errors.Wrapf(err, "deactivate anchor %d", b.anchor.ID())
		}
		pending = pending[1:]
	}
	return nil, nil
}

func (b *Builder) watchAnchor() {
	regen := func() {
		if err := b.Regenerate(); err != nil {
			b.logger.Errorf("anchor %d changed, regeneration failed: %v", b.anchor.ID(), err)
		}
	}
	pos := b.anchor.OnPosition.Subscribe(func(target.Position) { regen() })
	tm := b.anchor.OnTime.Subscribe(func(qnt.Timestamp) { regen() })
	ln := b.anchor.OnLength.Subscribe(func(qnt.Duration) { regen() })
	b.unwatch = []func(){
		func() { b.anchor.OnPosition.Unsubscribe(pos) },
		func() { b.anchor.OnTime.Unsubscribe(tm) },
		func() { b.anchor.OnLength.Unsubscribe(ln) },
	}
}

func (b *Builder) unwatchAnchor() {
	for _, unsubscribe := range b.unwatch {
		unsubscribe()
	}
	b.unwatch = nil
}
