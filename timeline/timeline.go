// Package timeline is the ordered collection of every target in a chart. It
// owns the targets; path builders only keep ids.
package timeline

import (
	"sort"

	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/observer"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/target"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	ErrNotFound    = errors.New("target not found")
	ErrDuplicateID = errors.New("duplicate target id")
)

// Owner is told when one of its generated targets leaves the timeline.
type Owner interface {
	Detach(id target.ID)
}

type member struct {
	t     *target.Target
	seq   uint64
	time  qnt.Timestamp
	token observer.Token
}

func (m *member) less(time qnt.Timestamp, seq uint64) bool {
	if m.time != time {
		return m.time.Before(time)
	}
	return m.seq < seq
}

type Timeline struct {
	members map[target.ID]*member
	// sorted by time, then insertion sequence
	order   []*member
	nextSeq uint64
	owners  map[target.ID]Owner
	logger  *logger.Logger
}

func New(l *logger.Logger) *Timeline {
	return &Timeline{
		members: make(map[target.ID]*member),
		owners:  make(map[target.ID]Owner),
		logger:  l.With("timeline"),
	}
}

func (tl *Timeline) Len() int {
	return len(tl.order)
}

func (tl *Timeline) Get(id target.ID) (*target.Target, bool) {
	m, ok := tl.members[id]
	if !ok {
		return nil, false
	}
	return m.t, true
}

func (tl *Timeline) Insert(t *target.Target) error {
	if _, ok := tl.members[t.ID()]; ok {
		return errors.Wrapf(ErrDuplicateID, "insert %d", t.ID())
	}
	tl.nextSeq++
	m := &member{t: t, seq: tl.nextSeq, time: t.Time()}
	m.token = t.OnTime.Subscribe(func(ts qnt.Timestamp) { tl.move(m, ts) })
	tl.members[t.ID()] = m
	tl.place(m)
	tl.logger.Debugf("inserted %v", t)
	return nil
}

// Remove takes the target out of the timeline. A generated target is also
// detached from the builder that owns it.
func (tl *Timeline) Remove(id target.ID) (*target.Target, error) {
	m, ok := tl.members[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "remove %d", id)
	}
	tl.unplace(m)
	delete(tl.members, id)
	m.t.OnTime.Unsubscribe(m.token)

	if m.t.Owner != target.NoID {
		if owner, ok := tl.owners[m.t.Owner]; ok {
			owner.Detach(id)
		}
	}
	tl.logger.Debugf("removed %v", m.t)
	return m.t, nil
}

// Attach registers the builder that owns targets tagged with anchor.
func (tl *Timeline) Attach(anchor target.ID, owner Owner) {
	tl.owners[anchor] = owner
}

func (tl *Timeline) Release(anchor target.ID) {
	delete(tl.owners, anchor)
}

// OwnedBy lists the targets generated for anchor, in timeline order.
func (tl *Timeline) OwnedBy(anchor target.ID) []*target.Target {
	var res []*target.Target
	tl.All().Each(func(t *target.Target) bool {
		if t.Owner == anchor {
			res = append(res, t)
		}
		return true
	})
	return res
}

// Range is every target with time in [start, end).
func (tl *Timeline) Range(start, end qnt.Timestamp) Sequence {
	return Sequence{tl: tl, start: start, end: end, bounded: true}
}

func (tl *Timeline) All() Sequence {
	return Sequence{tl: tl}
}

func (tl *Timeline) search(time qnt.Timestamp, seq uint64) int {
	return sort.Search(len(tl.order), func(i int) bool {
		return !tl.order[i].less(time, seq)
	})
}

func (tl *Timeline) place(m *member) {
	i := tl.search(m.time, m.seq)
	tl.order = slices.Insert(tl.order, i, m)
}

func (tl *Timeline) unplace(m *member) {
	i := tl.search(m.time, m.seq)
	if i < len(tl.order) && tl.order[i] == m {
		tl.order = slices.Delete(tl.order, i, i+1)
	}
}

// move keeps the order in step with time edits. Insertion sequence is kept,
// so ties stay in insertion order.
func (tl *Timeline) move(m *member, ts qnt.Timestamp) {
	if m.time == ts {
		return
	}
	tl.unplace(m)
	m.time = ts
	tl.place(m)
}
