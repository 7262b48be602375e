package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ReadMidiFile parses a Standard MIDI File from disk.
func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	return Read(bytes.NewReader(dat))
}

// Read parses a Standard MIDI File. The smf reader can panic on malformed
// input (https://github.com/gomidi/midi/issues/20); that comes back as an
// error.
func Read(r io.Reader) (s *smf.SMF, e error) {
	defer func() {
		if rec := recover(); rec != nil {
			s, e = nil, fmt.Errorf("error parsing midi file... %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

func WriteMidiFile(filepath string, s *smf.SMF) error {
	f, err := os.Create(filepath)
	if err != nil {
		return errors.Wrap(err, "could not create midi file")
	}
	defer f.Close()
	if _, err := s.WriteTo(f); err != nil {
		return errors.Wrap(err, "could not write midi file")
	}
	return nil
}

// Resolution is the file's ticks per quarter note. Files timed in SMPTE
// frames have none.
func Resolution(s *smf.SMF) (uint16, bool) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, false
	}
	return mt.Resolution(), true
}
