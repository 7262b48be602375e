package qnt

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSubOrderedOperands(t *testing.T) {
	cases := [][2]uint64{{0, 0}, {1, 0}, {480, 120}, {1 << 40, 7}, {^uint64(0), 0}}
	for _, c := range cases {
		a, b := c[0], c[1]
		t.Run(fmt.Sprintf("%v-%v", a, b), func(t *testing.T) {
			assert := assert.New(t)
			d, err := FromTicks(a).Sub(FromTicks(b))
			assert.NoError(err)
			assert.Equal(DurationFromTicks(a-b), d)

			if a != b {
				_, err = FromTicks(b).Sub(FromTicks(a))
				assert.True(errors.Is(err, ErrNegativeDuration))
			}
		})
	}
}

func TestAddThenSubRoundTrips(t *testing.T) {
	assert := assert.New(t)
	start := FromTicks(1234)
	step := DurationFromTicks(480)
	end := start.Add(step.Mul(3))
	assert.Equal(uint64(1234+1440), end.Tick)

	d, err := end.Sub(start)
	assert.NoError(err)
	assert.Equal(step.Mul(3), d)
}

func TestArithmeticSaturates(t *testing.T) {
	assert := assert.New(t)
	last := FromTicks(math.MaxUint64)
	assert.Equal(last, FromTicks(math.MaxUint64-10).Add(DurationFromTicks(480)))
	assert.Equal(last, last.Add(DurationFromTicks(1)))
	assert.Equal(DurationFromTicks(math.MaxUint64), DurationFromTicks(math.MaxUint64).Add(DurationFromTicks(1)))
	assert.Equal(DurationFromTicks(math.MaxUint64), DurationFromTicks(1<<40).Mul(1<<30))
	assert.Equal(DurationFromTicks(1<<40), DurationFromTicks(1<<20).Mul(1<<20))
}

func TestDivision(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(480), Division(4).Tick)
	assert.Equal(uint64(120), Division(16).Tick)
	assert.Equal(uint64(160), Division(12).Tick)
	assert.True(Division(0).IsZero())
}

func TestBeatsRoundTrip(t *testing.T) {
	assert := assert.New(t)
	for tick := uint64(0); tick < 5000; tick += 37 {
		ts := FromTicks(tick)
		assert.Equal(ts, BeatsToTicks(ts.Beats()))
	}
	assert.Equal(FromTicks(0), BeatsToTicks(-1))
}

func TestSnap(t *testing.T) {
	assert := assert.New(t)
	step := Division(16)
	assert.Equal(FromTicks(0), FromTicks(59).Snap(step))
	assert.Equal(FromTicks(120), FromTicks(60).Snap(step))
	assert.Equal(FromTicks(240), FromTicks(240).Snap(step))
	assert.Equal(FromTicks(77), FromTicks(77).Snap(Duration{}))
}

func TestAt(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(time.Second, FromTicks(960).At(120))
	assert.Equal(time.Duration(0), FromTicks(960).At(0))
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, FromTicks(1).Compare(FromTicks(2)))
	assert.Equal(0, FromTicks(2).Compare(FromTicks(2)))
	assert.Equal(1, FromTicks(3).Compare(FromTicks(2)))
	assert.True(FromTicks(1).Before(FromTicks(2)))
	assert.True(FromTicks(3).After(FromTicks(2)))
}
