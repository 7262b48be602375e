// Package session is one chart being edited: its timeline, the id source its
// targets are numbered from, the path builders attached to anchors and the
// author's current tool selection.
package session

import (
	"github.com/google/uuid"
	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/observer"
	"github.com/jsphweid/cuegrid/pathbuilder"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/target"
	"github.com/jsphweid/cuegrid/timeline"
	"github.com/pkg/errors"
)

var (
	ErrNoPathBuilder = errors.New("no path builder for target")
	ErrCannotPlace   = errors.New("selected tool does not place targets")

	// ErrGeneratedAnchor is returned for builders on generated targets; the
	// parent builder deletes those on every regeneration.
	ErrGeneratedAnchor = errors.New("generated targets cannot anchor a path builder")
)

type Session struct {
	id       string
	ids      target.IDSource
	timeline *timeline.Timeline
	mapper   target.PitchMapper
	logger   *logger.Logger

	tool     Tool
	hand     model.HandType
	behavior model.Behavior
	velocity model.Velocity
	mode     Mode

	builders map[target.ID]*pathbuilder.Builder

	// OnDeleted fires for every target leaving the timeline, generated ones
	// included.
	OnDeleted observer.Registry[*target.Target]
}

func New(l *logger.Logger, mapper target.PitchMapper) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		timeline: timeline.New(l),
		mapper:   mapper,
		logger:   l.With("session " + id[:8]),
		tool:     ToolStandard,
		hand:     model.HandLeft,
		behavior: model.BehaviorStandard,
		velocity: model.VelocityStandard,
		mode:     ModeCompose,
		builders: make(map[target.ID]*pathbuilder.Builder),
	}
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Timeline() *timeline.Timeline { return s.timeline }
func (s *Session) Tool() Tool                   { return s.tool }
func (s *Session) Hand() model.HandType         { return s.hand }
func (s *Session) Behavior() model.Behavior     { return s.behavior }
func (s *Session) Velocity() model.Velocity     { return s.velocity }
func (s *Session) Mode() Mode                   { return s.mode }

func (s *Session) NewTarget() *target.Target {
	return target.New(&s.ids)
}

func (s *Session) Lookup(id target.ID) (*target.Target, bool) {
	return s.timeline.Get(id)
}

func (s *Session) InsertTarget(t *target.Target) error {
	return s.timeline.Insert(t)
}

// DeleteTarget removes a single target without touching any builder
// attached to it. Use RemoveTarget for author edits.
func (s *Session) DeleteTarget(id target.ID) error {
	t, err := s.timeline.Remove(id)
	if err != nil {
		return err
	}
	s.OnDeleted.Notify(t)
	return nil
}

// SelectTool also picks the behavior new targets get. Melee forces the
// either hand; drag select and none keep the previous behavior.
func (s *Session) SelectTool(tool Tool) {
	if b, ok := tool.behavior(); ok || tool == ToolChainBuilder {
		s.behavior = b
	}
	if tool == ToolMelee {
		s.SelectHand(model.HandEither)
	}
	s.tool = tool
	s.logger.Debugf("tool %v, behavior %v", tool, s.behavior)
}

func (s *Session) SelectHand(h model.HandType) {
	s.hand = h
}

// ToggleHand swaps left and right. Either goes to left.
func (s *Session) ToggleHand() model.HandType {
	switch s.hand {
	case model.HandLeft:
		s.hand = model.HandRight
	default:
		s.hand = model.HandLeft
	}
	return s.hand
}

func (s *Session) SelectVelocity(v model.Velocity) {
	s.velocity = v
}

func (s *Session) SelectMode(m Mode) {
	s.mode = m
}

// PlaceTarget adds a target at the given spot using the current selection.
func (s *Session) PlaceTarget(x, y float32, ts qnt.Timestamp) (*target.Target, error) {
	if !s.tool.places() {
		return nil, errors.Wrapf(ErrCannotPlace, "tool %v", s.tool)
	}
	t := s.NewTarget()
	t.SetPosition(x, y)
	t.SetTime(ts)
	t.SetVelocity(s.velocity)
	t.SetHand(s.hand)
	t.SetBehavior(s.behavior)
	if err := s.InsertTarget(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ImportCues adds a target per cue, positioned by the session's mapper.
func (s *Session) ImportCues(cues []model.Cue) ([]*target.Target, error) {
	res := make([]*target.Target, 0, len(cues))
	for _, cue := range cues {
		t := target.FromCue(&s.ids, cue, s.mapper)
		if err := s.InsertTarget(t); err != nil {
			return res, errors.Wrapf(err, "import cue at %d", cue.Tick)
		}
		res = append(res, t)
	}
	s.logger.Infof("imported %d cues", len(res))
	return res, nil
}

// RemoveTarget deletes a target. An anchor takes its builder and everything
// the builder generated with it.
func (s *Session) RemoveTarget(id target.ID) error {
	if _, ok := s.builders[id]; ok {
		if err := s.DetachPathBuilder(id); err != nil {
			return err
		}
	}
	return s.DeleteTarget(id)
}

// AttachPathBuilder returns the builder for anchor, creating an inactive one
// when there is none yet. Targets generated by another builder can't anchor
// one.
func (s *Session) AttachPathBuilder(anchor target.ID) (*pathbuilder.Builder, error) {
	if b, ok := s.builders[anchor]; ok {
		return b, nil
	}
	t, ok := s.Lookup(anchor)
	if !ok {
		return nil, errors.Wrapf(timeline.ErrNotFound, "attach path builder to %d", anchor)
	}
	if t.Owner != target.NoID {
		return nil, errors.Wrapf(ErrGeneratedAnchor, "target %d belongs to %d", anchor, t.Owner)
	}
	b := pathbuilder.New(t, s, s.logger)
	s.builders[anchor] = b
	s.timeline.Attach(anchor, b)
	return b, nil
}

func (s *Session) PathBuilder(anchor target.ID) (*pathbuilder.Builder, error) {
	b, ok := s.builders[anchor]
	if !ok {
		return nil, errors.Wrapf(ErrNoPathBuilder, "anchor %d", anchor)
	}
	return b, nil
}

// PathBuilders lists anchors with a builder in timeline order.
func (s *Session) PathBuilders() []*pathbuilder.Builder {
	var res []*pathbuilder.Builder
	s.timeline.All().Each(func(t *target.Target) bool {
		if b, ok := s.builders[t.ID()]; ok {
			res = append(res, b)
		}
		return true
	})
	return res
}

// DetachPathBuilder deactivates the anchor's builder and forgets it. The
// anchor stays.
func (s *Session) DetachPathBuilder(anchor target.ID) error {
	b, err := s.PathBuilder(anchor)
	if err != nil {
		return err
	}
	if err := b.Deactivate(); err != nil {
		return err
	}
	delete(s.builders, anchor)
	s.timeline.Release(anchor)
	return nil
}

// NewChain places a path builder anchor one measure long and activates its
// builder with default parameters.
func (s *Session) NewChain(x, y float32, ts qnt.Timestamp) (*pathbuilder.Builder, error) {
	anchor := s.NewTarget()
	anchor.SetPosition(x, y)
	anchor.SetTime(ts)
	anchor.SetLength(qnt.DurationFromTicks(constants.TicksPerBeat * constants.BeatsPerMeasure))
	anchor.SetHand(s.hand)
	anchor.SetBehavior(model.BehaviorPathBuilder)
	if err := s.InsertTarget(anchor); err != nil {
		return nil, err
	}
	b, err := s.AttachPathBuilder(anchor.ID())
	if err != nil {
		return nil, err
	}
	if err := b.Activate(nil); err != nil {
		return nil, err
	}
	return b, nil
}
