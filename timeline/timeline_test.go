package timeline

import (
	"math/rand"
	"testing"

	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/target"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOwner struct {
	detached []target.ID
}

func (o *recordingOwner) Detach(id target.ID) { o.detached = append(o.detached, id) }

func newAt(ids *target.IDSource, tick uint64) *target.Target {
	t := target.New(ids)
	t.SetTime(qnt.FromTicks(tick))
	return t
}

func ids(ts []*target.Target) []target.ID {
	res := make([]target.ID, 0, len(ts))
	for _, t := range ts {
		res = append(res, t.ID())
	}
	return res
}

func TestInsertDuplicate(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	a := newAt(&src, 0)
	require.NoError(t, tl.Insert(a))

	err := tl.Insert(a)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Equal(t, 1, tl.Len())
}

func TestRemove(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	a := newAt(&src, 10)
	require.NoError(t, tl.Insert(a))

	assert := assert.New(t)
	got, err := tl.Remove(a.ID())
	assert.NoError(err)
	assert.Same(a, got)
	assert.Equal(0, tl.Len())

	_, err = tl.Remove(a.ID())
	assert.True(errors.Is(err, ErrNotFound))

	_, ok := tl.Get(a.ID())
	assert.False(ok)
}

func TestOrderedByTimeThenInsertion(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	c := newAt(&src, 960)
	a := newAt(&src, 480)
	b := newAt(&src, 480)
	d := newAt(&src, 0)
	for _, x := range []*target.Target{a, c, b, d} {
		require.NoError(t, tl.Insert(x))
	}

	// a and b tie on time; a went in first
	assert.Equal(t, []target.ID{d.ID(), a.ID(), b.ID(), c.ID()}, ids(tl.All().Collect()))
}

func TestTimeEditReorders(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	a := newAt(&src, 0)
	b := newAt(&src, 100)
	c := newAt(&src, 200)
	for _, x := range []*target.Target{a, b, c} {
		require.NoError(t, tl.Insert(x))
	}

	a.SetTime(qnt.FromTicks(300))
	assert.Equal(t, []target.ID{b.ID(), c.ID(), a.ID()}, ids(tl.All().Collect()))

	// moving onto an occupied time keeps insertion order on the tie
	a.SetTime(qnt.FromTicks(100))
	assert.Equal(t, []target.ID{a.ID(), b.ID(), c.ID()}, ids(tl.All().Collect()))

	// removed targets no longer drive the order
	_, err := tl.Remove(a.ID())
	require.NoError(t, err)
	a.SetTime(qnt.FromTicks(0))
	assert.Equal(t, []target.ID{b.ID(), c.ID()}, ids(tl.All().Collect()))
}

func TestRangeMatchesFilteredAll(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		require.NoError(t, tl.Insert(newAt(&src, uint64(rng.Intn(40))*60)))
	}

	windows := [][2]uint64{{0, 0}, {0, 1}, {60, 600}, {599, 601}, {0, 100000}, {2400, 2300}}
	for _, w := range windows {
		start, end := qnt.FromTicks(w[0]), qnt.FromTicks(w[1])
		var want []target.ID
		for _, x := range tl.All().Collect() {
			if !x.Time().Before(start) && x.Time().Before(end) {
				want = append(want, x.ID())
			}
		}
		got := tl.Range(start, end).Collect()
		assert.Equal(t, want, nilIfEmpty(ids(got)), "window %v", w)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Time().Before(got[i-1].Time()))
		}
	}
}

func nilIfEmpty(in []target.ID) []target.ID {
	if len(in) == 0 {
		return nil
	}
	return in
}

func TestSequenceIsRestartable(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	for i := 0; i < 5; i++ {
		require.NoError(t, tl.Insert(newAt(&src, uint64(i)*10)))
	}
	seq := tl.Range(qnt.FromTicks(10), qnt.FromTicks(40))
	assert := assert.New(t)
	assert.Equal(3, seq.Count())
	assert.Equal(3, seq.Count())

	// views see later inserts
	require.NoError(t, tl.Insert(newAt(&src, 15)))
	assert.Equal(4, seq.Count())

	it := seq.Iter()
	assert.True(it.Next())
	assert.Equal(qnt.FromTicks(10), it.Target().Time())
}

func TestEachStopsEarly(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	for i := 0; i < 5; i++ {
		require.NoError(t, tl.Insert(newAt(&src, uint64(i))))
	}
	n := 0
	tl.All().Each(func(*target.Target) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func TestRemoveDetachesFromOwner(t *testing.T) {
	var src target.IDSource
	tl := New(logger.Discard())
	anchor := newAt(&src, 0)
	gen := newAt(&src, 120)
	gen.Owner = anchor.ID()
	plain := newAt(&src, 240)
	for _, x := range []*target.Target{anchor, gen, plain} {
		require.NoError(t, tl.Insert(x))
	}
	owner := &recordingOwner{}
	tl.Attach(anchor.ID(), owner)

	assert := assert.New(t)
	assert.Equal([]*target.Target{gen}, tl.OwnedBy(anchor.ID()))

	_, err := tl.Remove(plain.ID())
	require.NoError(t, err)
	_, err = tl.Remove(gen.ID())
	require.NoError(t, err)
	assert.Equal([]target.ID{gen.ID()}, owner.detached)
	assert.Empty(tl.OwnedBy(anchor.ID()))

	tl.Release(anchor.ID())
	other := newAt(&src, 360)
	other.Owner = anchor.ID()
	require.NoError(t, tl.Insert(other))
	_, err = tl.Remove(other.ID())
	require.NoError(t, err)
	assert.Len(owner.detached, 1)
}
