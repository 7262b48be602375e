package midi

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestWriteAndReadMidiFile(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(240, gomidi.NoteOff(0, 60))
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(240)
	require.NoError(t, s.Add(tr))

	path := filepath.Join(t.TempDir(), "one.mid")
	require.NoError(t, WriteMidiFile(path, s))

	read, err := ReadMidiFile(path)
	require.NoError(t, err)
	res, ok := Resolution(read)
	assert.True(t, ok)
	assert.Equal(t, uint16(240), res)
	assert.Len(t, read.Tracks, 1)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("MThd garbage"))
	assert.Error(t, err)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
