package pathbuilder

import (
	"fmt"

	"github.com/jsphweid/cuegrid/qnt"
)

// Termination decides how many steps a path gets. Continue is asked about
// step i (1-based) landing at t before the step is produced; i restarts at 1
// on every generation.
type Termination interface {
	Continue(i int, t qnt.Timestamp, anchor Anchor) bool
}

type count int

// Count produces exactly n steps, even when they share a time.
func Count(n int) Termination { return count(n) }

func (c count) Continue(i int, _ qnt.Timestamp, _ Anchor) bool { return i <= int(c) }

func (c count) String() string { return fmt.Sprintf("count(%d)", int(c)) }

// advancing stops a time-bounded policy once time no longer moves forward.
type advancing struct {
	last qnt.Timestamp
}

func (a *advancing) ok(i int, t qnt.Timestamp) bool {
	if i > 1 && !t.After(a.last) {
		return false
	}
	a.last = t
	return true
}

type until struct {
	advancing
	end qnt.Timestamp
}

// Until produces steps landing before end. A zero interval yields a single
// step.
func Until(end qnt.Timestamp) Termination { return &until{end: end} }

func (u *until) Continue(i int, t qnt.Timestamp, _ Anchor) bool {
	return u.ok(i, t) && t.Before(u.end)
}

func (u *until) String() string { return fmt.Sprintf("until(%v)", u.end) }

type anchorLength struct {
	advancing
}

// AnchorLength fills the anchor's own length. It is the default for builders.
func AnchorLength() Termination { return &anchorLength{} }

func (a *anchorLength) Continue(i int, t qnt.Timestamp, anchor Anchor) bool {
	return a.ok(i, t) && t.Before(anchor.Time.Add(anchor.Length))
}

func (a *anchorLength) String() string { return "anchor-length" }
