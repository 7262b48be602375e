package cues

import (
	"sort"

	"github.com/jsphweid/cuegrid/constants"
	"github.com/jsphweid/cuegrid/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type event struct {
	tick uint64
	// order on a shared tick: closing notes, then opening ones, then the
	// closes of zero length notes
	rank int
	msg  gomidi.Message
}

// ToSMF writes cues as one track at the chart's resolution, the way FromSMF
// reads them back. Behaviors the velocity and length can't express come back
// as standard or hold.
func ToSMF(cs []model.Cue) (*smf.SMF, error) {
	events := make([]event, 0, 2*len(cs))
	for _, c := range cs {
		ch := toChannel(c.Hand)
		v := uint8(c.Velocity)
		if v == 0 {
			v = uint8(model.VelocityStandard)
		}
		offRank := 0
		if c.TickLength == 0 {
			offRank = 2
		}
		events = append(events,
			event{tick: c.Tick, rank: 1, msg: gomidi.NoteOn(ch, c.Pitch, v)},
			event{tick: c.Tick + c.TickLength, rank: offRank, msg: gomidi.NoteOff(ch, c.Pitch)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].rank < events[j].rank
	})

	var track smf.Track
	var last uint64
	for _, e := range events {
		track.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerBeat)
	if err := s.Add(track); err != nil {
		return nil, errors.Wrap(err, "could not add track")
	}
	return s, nil
}

// FromRecord turns a saved target back into a cue, pitch taken from its
// position.
func FromRecord(r model.TargetRecord, pitchAt func(x, y float32) uint8) model.Cue {
	return model.Cue{
		Pitch:      pitchAt(r.X, r.Y),
		Tick:       r.Tick,
		TickLength: r.TickLength,
		Velocity:   r.Velocity,
		Hand:       r.Hand,
		Behavior:   r.Behavior,
	}
}

func toChannel(h model.HandType) uint8 {
	switch h {
	case model.HandRight:
		return 0
	case model.HandLeft:
		return 1
	}
	return 2
}
