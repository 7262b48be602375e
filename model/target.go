package model

import (
	"fmt"
	"strings"
)

// Velocity is the hit sound category of a target. The values are the MIDI
// velocities the game reads cues with.
type Velocity uint8

const (
	VelocityChainStart Velocity = 1
	VelocityChain      Velocity = 2
	VelocityMelee      Velocity = 3
	VelocityStandard   Velocity = 20
	VelocityPercussion Velocity = 60
	VelocitySnare      Velocity = 127
)

var velocityNames = map[Velocity]string{
	VelocityStandard:   "standard",
	VelocitySnare:      "snare",
	VelocityPercussion: "percussion",
	VelocityChainStart: "chainstart",
	VelocityChain:      "chain",
	VelocityMelee:      "melee",
}

func (v Velocity) String() string {
	if name, ok := velocityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("velocity(%d)", uint8(v))
}

func (v Velocity) Valid() bool {
	_, ok := velocityNames[v]
	return ok
}

func (v Velocity) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown velocity %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *Velocity) UnmarshalText(b []byte) error {
	parsed, err := ParseVelocity(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func ParseVelocity(s string) (Velocity, error) {
	return parseEnum(s, velocityNames, "velocity")
}

// HandType says which hand a target is meant for.
type HandType uint8

const (
	HandLeft HandType = iota
	HandRight
	HandEither
)

var handNames = map[HandType]string{
	HandLeft:   "left",
	HandRight:  "right",
	HandEither: "either",
}

func (h HandType) String() string {
	if name, ok := handNames[h]; ok {
		return name
	}
	return fmt.Sprintf("hand(%d)", uint8(h))
}

func (h HandType) Valid() bool {
	_, ok := handNames[h]
	return ok
}

func (h HandType) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("unknown hand %d", uint8(h))
	}
	return []byte(h.String()), nil
}

func (h *HandType) UnmarshalText(b []byte) error {
	parsed, err := ParseHand(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func ParseHand(s string) (HandType, error) {
	return parseEnum(s, handNames, "hand")
}

// Behavior is the gameplay category of a target.
type Behavior uint8

const (
	BehaviorStandard Behavior = iota
	BehaviorHold
	BehaviorHorizontal
	BehaviorVertical
	BehaviorChainStart
	BehaviorChain
	BehaviorMelee
	BehaviorPathBuilder
	BehaviorNone
)

var behaviorNames = map[Behavior]string{
	BehaviorStandard:    "standard",
	BehaviorHold:        "hold",
	BehaviorHorizontal:  "horizontal",
	BehaviorVertical:    "vertical",
	BehaviorChainStart:  "chainstart",
	BehaviorChain:       "chain",
	BehaviorMelee:       "melee",
	BehaviorPathBuilder: "pathbuilder",
	BehaviorNone:        "none",
}

func (b Behavior) String() string {
	if name, ok := behaviorNames[b]; ok {
		return name
	}
	return fmt.Sprintf("behavior(%d)", uint8(b))
}

func (b Behavior) Valid() bool {
	_, ok := behaviorNames[b]
	return ok
}

func (b Behavior) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("unknown behavior %d", uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *Behavior) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func ParseBehavior(s string) (Behavior, error) {
	return parseEnum(s, behaviorNames, "behavior")
}

// SupportsLength reports whether a target's length means anything for b.
func SupportsLength(b Behavior) bool {
	return b == BehaviorHold || b == BehaviorPathBuilder
}

func parseEnum[E comparable](s string, names map[E]string, kind string) (E, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range names {
		if name == want {
			return k, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("unknown %v %q", kind, s)
}
