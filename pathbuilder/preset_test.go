package pathbuilder

import (
	"strings"
	"testing"

	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetsYAML = `
presets:
  - name: square
    interval_ticks: 480
    angle_increment: 90
    step_distance: 1
    steps: 4
  - name: spiral
    behavior: chain
    velocity: chain
    hand: right
    division: 8
    angle_increment: 20
    step_increment: 0.1
  - name: defaults
`

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets(strings.NewReader(presetsYAML))
	require.NoError(t, err)
	require.Len(t, presets, 3)

	assert := assert.New(t)
	square, ok := FindPreset(presets, "square")
	require.True(t, ok)
	assert.Equal(squareParams(), square.Params())
	assert.Equal(Count(4), square.Termination())

	spiral, _ := FindPreset(presets, "spiral")
	p := spiral.Params()
	assert.Equal(model.BehaviorChain, p.Behavior)
	assert.Equal(model.VelocityChain, p.Velocity)
	assert.Equal(model.HandRight, p.Hand)
	assert.Equal(qnt.DurationFromTicks(240), p.Interval)
	assert.Equal(0.5, p.StepDistance)
	assert.Equal(0.1, p.StepIncrement)
	assert.Equal(AnchorLength(), spiral.Termination())

	defaults, _ := FindPreset(presets, "defaults")
	assert.Equal(DefaultParams(), defaults.Params())

	_, ok = FindPreset(presets, "missing")
	assert.False(ok)
}

func TestLoadPresetsRejectsUnknownEnum(t *testing.T) {
	_, err := LoadPresets(strings.NewReader("presets:\n  - name: bad\n    hand: middle\n"))
	assert.Error(t, err)
}

func TestLoadPresetsEmpty(t *testing.T) {
	presets, err := LoadPresets(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, presets)
}
