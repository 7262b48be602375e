package model

// Cue is a target as it arrives from outside the editor. Pitch is resolved to
// a grid position by whoever builds the target.
type Cue struct {
	Pitch      uint8
	Tick       uint64
	TickLength uint64
	Velocity   Velocity
	Hand       HandType
	Behavior   Behavior
}
