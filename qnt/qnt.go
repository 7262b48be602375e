// Package qnt holds quantized musical time. Timestamps and durations are
// integer tick counts; floating point only appears in conversions meant for
// display.
package qnt

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/jsphweid/cuegrid/constants"
	"github.com/pkg/errors"
)

var ErrNegativeDuration = errors.New("negative duration")

// Timestamp is a tick offset from the start of a chart.
type Timestamp struct {
	Tick uint64
}

// Duration is an elapsed span in ticks.
type Duration struct {
	Tick uint64
}

func FromTicks(ticks uint64) Timestamp {
	return Timestamp{Tick: ticks}
}

func DurationFromTicks(ticks uint64) Duration {
	return Duration{Tick: ticks}
}

// Division is the length of a 1/n note, e.g. Division(16) is a sixteenth.
// Divisions that don't land on a whole tick are truncated.
func Division(n uint64) Duration {
	if n == 0 {
		return Duration{}
	}
	return Duration{Tick: constants.TicksPerBeat * constants.BeatsPerMeasure / n}
}

// BeatsToTicks rounds a beat position onto the tick grid.
func BeatsToTicks(beats float64) Timestamp {
	if beats <= 0 {
		return Timestamp{}
	}
	return Timestamp{Tick: uint64(math.Round(beats * constants.TicksPerBeat))}
}

// Add saturates at the last representable tick instead of wrapping.
func (t Timestamp) Add(d Duration) Timestamp {
	return Timestamp{Tick: addTicks(t.Tick, d.Tick)}
}

// Sub returns t - o. Callers must order the operands: o later than t fails
// with ErrNegativeDuration.
func (t Timestamp) Sub(o Timestamp) (Duration, error) {
	if o.Tick > t.Tick {
		return Duration{}, errors.Wrapf(ErrNegativeDuration, "%v - %v", t, o)
	}
	return Duration{Tick: t.Tick - o.Tick}, nil
}

func (t Timestamp) Before(o Timestamp) bool { return t.Tick < o.Tick }

func (t Timestamp) After(o Timestamp) bool { return t.Tick > o.Tick }

func (t Timestamp) Compare(o Timestamp) int {
	switch {
	case t.Tick < o.Tick:
		return -1
	case t.Tick > o.Tick:
		return 1
	}
	return 0
}

// Snap moves t to the nearest multiple of step, ties rounding up.
func (t Timestamp) Snap(step Duration) Timestamp {
	if step.Tick == 0 {
		return t
	}
	down := t.Tick - t.Tick%step.Tick
	if t.Tick-down >= step.Tick-(t.Tick-down) {
		return Timestamp{Tick: down + step.Tick}
	}
	return Timestamp{Tick: down}
}

func (t Timestamp) Beats() float64 {
	return float64(t.Tick) / constants.TicksPerBeat
}

// At converts t to wall clock time for a constant tempo.
func (t Timestamp) At(bpm float64) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Duration(float64(t.Tick) * float64(time.Minute) / (bpm * constants.TicksPerBeat))
}

func (t Timestamp) String() string {
	return fmt.Sprintf("t%d", t.Tick)
}

func (d Duration) Add(o Duration) Duration {
	return Duration{Tick: addTicks(d.Tick, o.Tick)}
}

// Mul saturates like Add.
func (d Duration) Mul(n uint64) Duration {
	hi, lo := bits.Mul64(d.Tick, n)
	if hi != 0 {
		return Duration{Tick: math.MaxUint64}
	}
	return Duration{Tick: lo}
}

func addTicks(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func (d Duration) IsZero() bool { return d.Tick == 0 }

func (d Duration) Beats() float64 {
	return float64(d.Tick) / constants.TicksPerBeat
}

func (d Duration) String() string {
	return fmt.Sprintf("d%d", d.Tick)
}
