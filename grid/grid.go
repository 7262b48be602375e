// Package grid maps cue pitches to positions on the 12 by 7 placement grid.
package grid

import "github.com/jsphweid/cuegrid/model"

const (
	Columns = 12
	Rows    = 7
)

// Mapper puts pitch p at column p%12, row p/12, centred on the origin and
// scaled by the cell size. Pitches past the last row clamp to it.
type Mapper struct {
	CellWidth, CellHeight float32
}

var Default = Mapper{CellWidth: 1, CellHeight: 1}

func (m Mapper) PitchToPos(cue model.Cue) (float32, float32) {
	col := int(cue.Pitch) % Columns
	row := int(cue.Pitch) / Columns
	if row >= Rows {
		row = Rows - 1
	}
	x := (float32(col) - float32(Columns-1)/2) * m.CellWidth
	y := (float32(row) - float32(Rows-1)/2) * m.CellHeight
	return x, y
}

// PosToPitch is the inverse for positions on cell centres.
func (m Mapper) PosToPitch(x, y float32) uint8 {
	col := round(x/m.CellWidth + float32(Columns-1)/2)
	row := round(y/m.CellHeight + float32(Rows-1)/2)
	col = clamp(col, 0, Columns-1)
	row = clamp(row, 0, Rows-1)
	return uint8(row*Columns + col)
}

func round(f float32) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
