package timeline

import (
	"sort"

	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/target"
)

// Sequence is a lazy view over the timeline. Each Iter starts over from the
// current contents. Mutating the timeline while iterating is not supported.
type Sequence struct {
	tl         *Timeline
	start, end qnt.Timestamp
	bounded    bool
}

func (s Sequence) Iter() *Iterator {
	return &Iterator{seq: s, i: -1}
}

// Each stops early when fn returns false.
func (s Sequence) Each(fn func(*target.Target) bool) {
	it := s.Iter()
	for it.Next() {
		if !fn(it.Target()) {
			return
		}
	}
}

func (s Sequence) Collect() []*target.Target {
	var res []*target.Target
	s.Each(func(t *target.Target) bool {
		res = append(res, t)
		return true
	})
	return res
}

func (s Sequence) Count() int {
	n := 0
	s.Each(func(*target.Target) bool {
		n++
		return true
	})
	return n
}

type Iterator struct {
	seq  Sequence
	i    int
	done bool
}

func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	order := it.seq.tl.order
	if it.i < 0 {
		it.i = 0
		if it.seq.bounded {
			it.i = sort.Search(len(order), func(i int) bool {
				return !order[i].time.Before(it.seq.start)
			})
		}
	} else {
		it.i++
	}
	if it.i >= len(order) || (it.seq.bounded && !order[it.i].time.Before(it.seq.end)) {
		it.done = true
		return false
	}
	return true
}

func (it *Iterator) Target() *target.Target {
	return it.seq.tl.order[it.i].t
}
