package grid

import (
	"testing"

	"github.com/jsphweid/cuegrid/model"
	"github.com/stretchr/testify/assert"
)

func TestPitchToPos(t *testing.T) {
	assert := assert.New(t)
	x, y := Default.PitchToPos(model.Cue{Pitch: 0})
	assert.Equal(float32(-5.5), x)
	assert.Equal(float32(-3), y)

	x, y = Default.PitchToPos(model.Cue{Pitch: 11 + 12*6})
	assert.Equal(float32(5.5), x)
	assert.Equal(float32(3), y)

	// beyond the grid stays on the top row
	_, y = Default.PitchToPos(model.Cue{Pitch: 127})
	assert.Equal(float32(3), y)
}

func TestRoundTrip(t *testing.T) {
	m := Mapper{CellWidth: 1.3, CellHeight: 0.9}
	for p := 0; p < Columns*Rows; p++ {
		x, y := m.PitchToPos(model.Cue{Pitch: uint8(p)})
		assert.Equal(t, uint8(p), m.PosToPitch(x, y))
	}
}
