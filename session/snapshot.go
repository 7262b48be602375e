package session

import (
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/pathbuilder"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/target"
	"github.com/pkg/errors"
)

func Record(t *target.Target) model.TargetRecord {
	return model.TargetRecord{
		ID:         uint64(t.ID()),
		X:          t.X(),
		Y:          t.Y(),
		Tick:       t.Time().Tick,
		TickLength: t.Length().Tick,
		Velocity:   t.Velocity(),
		Hand:       t.Hand(),
		Behavior:   t.Behavior(),
		Owner:      uint64(t.Owner),
	}
}

// Snapshot records every target in timeline order and every builder.
func (s *Session) Snapshot() model.ChartSnapshot {
	snap := model.ChartSnapshot{Session: s.id}
	s.timeline.All().Each(func(t *target.Target) bool {
		snap.Targets = append(snap.Targets, Record(t))
		return true
	})
	for _, b := range s.PathBuilders() {
		snap.Builders = append(snap.Builders, b.Record())
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Targets keep their ids.
// Generated targets are not read back; active builders regenerate them,
// so they come back with new ids.
func Restore(l *logger.Logger, mapper target.PitchMapper, snap model.ChartSnapshot) (*Session, error) {
	s := New(l, mapper)
	if snap.Session != "" {
		s.id = snap.Session
	}
	for _, r := range snap.Targets {
		s.ids.Reserve(target.ID(r.ID))
	}
	for _, r := range snap.Targets {
		if r.Owner != 0 {
			continue
		}
		t := target.WithID(target.ID(r.ID))
		t.SetPosition(r.X, r.Y)
		t.SetTime(qnt.FromTicks(r.Tick))
		t.SetLength(qnt.DurationFromTicks(r.TickLength))
		t.SetVelocity(r.Velocity)
		t.SetHand(r.Hand)
		t.SetBehavior(r.Behavior)
		if err := s.InsertTarget(t); err != nil {
			return nil, errors.Wrap(err, "restore snapshot")
		}
	}
	for _, r := range snap.Builders {
		b, err := s.AttachPathBuilder(target.ID(r.Anchor))
		if err != nil {
			return nil, errors.Wrap(err, "restore snapshot")
		}
		params, policy := pathbuilder.FromRecord(r.Params)
		if err := b.Configure(params, policy); err != nil {
			return nil, errors.Wrapf(err, "restore builder %d", r.Anchor)
		}
		if r.Active {
			if err := b.Activate(nil); err != nil {
				return nil, errors.Wrapf(err, "restore builder %d", r.Anchor)
			}
		}
	}
	return s, nil
}
