package pathbuilder

import (
	"math"
	"testing"

	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func squareParams() Params {
	p := DefaultParams()
	p.Interval = qnt.DurationFromTicks(480)
	p.InitialAngle = 0
	p.AngleIncrement = 90
	p.StepDistance = 1
	p.StepIncrement = 0
	return p
}

func TestGenerateSquare(t *testing.T) {
	steps, err := Generate(squareParams(), Anchor{}, Count(4))
	require.NoError(t, err)
	require.Len(t, steps, 4)

	wantTicks := []uint64{480, 960, 1440, 1920}
	wantPos := [][2]float32{{1, 0}, {1, 1}, {0, 1}, {0, 0}}
	wantAngle := []float64{0, 90, 180, 270}
	for i, s := range steps {
		assert.Equal(t, qnt.FromTicks(wantTicks[i]), s.Time)
		assert.InDelta(t, wantPos[i][0], s.X, eps, "step %d x", i)
		assert.InDelta(t, wantPos[i][1], s.Y, eps, "step %d y", i)
		assert.Equal(t, wantAngle[i], s.Angle)
	}
}

func TestGenerateIsRelativeToAnchor(t *testing.T) {
	anchor := Anchor{Time: qnt.FromTicks(100), X: 2, Y: -3}
	steps, err := Generate(squareParams(), anchor, Count(2))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(qnt.FromTicks(580), steps[0].Time)
	assert.InDelta(3, steps[0].X, eps)
	assert.InDelta(-3, steps[0].Y, eps)
	assert.InDelta(3, steps[1].X, eps)
	assert.InDelta(-2, steps[1].Y, eps)
}

func TestGenerateTwiceIsEqual(t *testing.T) {
	p := squareParams()
	p.AngleIncrement = 17.5
	p.StepIncrement = 0.25
	p.Angle = 45
	first, err := Generate(p, Anchor{Time: qnt.FromTicks(7)}, Count(32))
	require.NoError(t, err)
	second, err := Generate(p, Anchor{Time: qnt.FromTicks(7)}, Count(32))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAngleOffsetsHeading(t *testing.T) {
	p := squareParams()
	p.InitialAngle = 30
	p.Angle = 60
	steps, err := Generate(p, Anchor{}, Count(1))
	require.NoError(t, err)
	assert.Equal(t, 90.0, steps[0].Angle)
	assert.InDelta(t, 0, steps[0].X, eps)
	assert.InDelta(t, 1, steps[0].Y, eps)
}

func TestStepIncrementGrowsDistance(t *testing.T) {
	p := squareParams()
	p.AngleIncrement = 0
	p.StepIncrement = 1
	steps, err := Generate(p, Anchor{}, Count(3))
	require.NoError(t, err)
	// 1, then 2, then 3 along x
	assert.InDelta(t, 1, steps[0].X, eps)
	assert.InDelta(t, 3, steps[1].X, eps)
	assert.InDelta(t, 6, steps[2].X, eps)
}

func TestNegativeStepReverses(t *testing.T) {
	p := squareParams()
	p.AngleIncrement = 0
	p.StepDistance = -1
	steps, err := Generate(p, Anchor{}, Count(2))
	require.NoError(t, err)
	assert.InDelta(t, -1, steps[0].X, eps)
	assert.InDelta(t, -2, steps[1].X, eps)
}

func TestZeroInterval(t *testing.T) {
	p := squareParams()
	p.Interval = qnt.Duration{}

	stacked, err := Generate(p, Anchor{Time: qnt.FromTicks(50)}, Count(3))
	require.NoError(t, err)
	require.Len(t, stacked, 3)
	for _, s := range stacked {
		assert.Equal(t, qnt.FromTicks(50), s.Time)
	}

	bounded, err := Generate(p, Anchor{Time: qnt.FromTicks(50)}, Until(qnt.FromTicks(1000)))
	require.NoError(t, err)
	assert.Len(t, bounded, 1)

	anchored, err := Generate(p, Anchor{Time: qnt.FromTicks(50), Length: qnt.DurationFromTicks(10)}, AnchorLength())
	require.NoError(t, err)
	assert.Len(t, anchored, 1)
}

func TestUntilAndAnchorLength(t *testing.T) {
	p := DefaultParams()
	anchor := Anchor{Time: qnt.FromTicks(960), Length: qnt.DurationFromTicks(480)}

	steps, err := Generate(p, anchor, AnchorLength())
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, qnt.FromTicks(1320), steps[2].Time)

	policy := Until(qnt.FromTicks(1441))
	for i := 0; i < 2; i++ {
		steps, err = Generate(p, anchor, policy)
		require.NoError(t, err)
		assert.Len(t, steps, 4, "policy reuse %d", i)
	}
}

func TestInvalidParameters(t *testing.T) {
	_, err := Generate(DefaultParams(), Anchor{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	p := DefaultParams()
	p.AngleIncrement = math.NaN()
	_, err = Generate(p, Anchor{}, Count(1))
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	p = DefaultParams()
	p.StepDistance = math.Inf(-1)
	assert.True(t, errors.Is(p.Validate(), ErrInvalidParameter))

	p = DefaultParams()
	p.Velocity = 0
	assert.True(t, errors.Is(p.Validate(), ErrInvalidParameter))

	p = DefaultParams()
	p.Hand = model.HandEither + 1
	assert.True(t, errors.Is(p.Validate(), ErrInvalidParameter))
}
