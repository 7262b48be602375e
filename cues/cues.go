// Package cues turns Standard MIDI Files into cue records.
package cues

import (
	"sort"

	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/midi"
	"github.com/jsphweid/cuegrid/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/maps"
)

var ErrNoResolution = errors.New("midi file is not timed in metric ticks")

type Options struct {
	// Notes at least this long, in chart ticks, become holds.
	HoldTicks uint64
}

func DefaultOptions() Options {
	return Options{HoldTicks: constants.TicksPerBeat}
}

type noteKey struct {
	channel, key uint8
}

type openNote struct {
	tick     uint64
	velocity uint8
}

// FromSMF pairs note on/off events into cues, rescaling the file's
// resolution to the chart's. Notes still held when their track ends get a
// zero length.
func FromSMF(s *smf.SMF, opts Options) ([]model.Cue, error) {
	res, ok := midi.Resolution(s)
	if !ok || res == 0 {
		return nil, ErrNoResolution
	}
	scale := func(ticks uint64) uint64 {
		return (ticks*constants.TicksPerBeat + uint64(res)/2) / uint64(res)
	}

	var cues []model.Cue
	for _, events := range s.Tracks {
		var absTicks uint64
		open := make(map[noteKey][]openNote)
		for _, event := range events {
			absTicks += uint64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				k := noteKey{channel, key}
				open[k] = append(open[k], openNote{tick: absTicks, velocity: velocity})
			case event.Message.GetNoteOn(&channel, &key, &velocity),
				event.Message.GetNoteOff(&channel, &key, &velocity):
				k := noteKey{channel, key}
				stack := open[k]
				if len(stack) == 0 {
					continue
				}
				on := stack[0]
				open[k] = stack[1:]
				start := scale(on.tick)
				cues = append(cues, makeCue(channel, key, on.velocity, start, scale(absTicks)-start, opts))
			}
		}
		keys := maps.Keys(open)
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].channel != keys[j].channel {
				return keys[i].channel < keys[j].channel
			}
			return keys[i].key < keys[j].key
		})
		for _, k := range keys {
			for _, on := range open[k] {
				cues = append(cues, makeCue(k.channel, k.key, on.velocity, scale(on.tick), 0, opts))
			}
		}
	}

	sort.SliceStable(cues, func(i, j int) bool {
		if cues[i].Tick != cues[j].Tick {
			return cues[i].Tick < cues[j].Tick
		}
		if cues[i].Pitch != cues[j].Pitch {
			return cues[i].Pitch < cues[j].Pitch
		}
		return cues[i].Hand < cues[j].Hand
	})
	return cues, nil
}

func makeCue(channel, key, velocity uint8, tick, length uint64, opts Options) model.Cue {
	v := toVelocity(velocity)
	return model.Cue{
		Pitch:      key,
		Tick:       tick,
		TickLength: length,
		Velocity:   v,
		Hand:       toHand(channel),
		Behavior:   toBehavior(v, length, opts),
	}
}

func toVelocity(v uint8) model.Velocity {
	switch model.Velocity(v) {
	case model.VelocityChainStart, model.VelocityChain, model.VelocityMelee,
		model.VelocityPercussion, model.VelocitySnare:
		return model.Velocity(v)
	}
	return model.VelocityStandard
}

func toHand(channel uint8) model.HandType {
	switch channel {
	case 0:
		return model.HandRight
	case 1:
		return model.HandLeft
	}
	return model.HandEither
}

func toBehavior(v model.Velocity, length uint64, opts Options) model.Behavior {
	switch v {
	case model.VelocityChainStart:
		return model.BehaviorChainStart
	case model.VelocityChain:
		return model.BehaviorChain
	case model.VelocityMelee:
		return model.BehaviorMelee
	}
	if opts.HoldTicks > 0 && length >= opts.HoldTicks {
		return model.BehaviorHold
	}
	return model.BehaviorStandard
}
