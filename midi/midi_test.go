package midi

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/supernovae/model"
)

var notes = []model.NoteEvent{
	{Track: 0, Onset: 0, Pitch: 69, Velocity: 127, Duration: 2},
	{Track: 1, Onset: 0, Pitch: 61, Velocity: 127, Duration: 0.25},
	{Track: 0, Onset: 2, Pitch: 69, Velocity: 100, Duration: 1},
	{Track: 1, Onset: 0.25, Pitch: 64, Velocity: 90, Duration: 0.5},
}

func TestTrackMessagesReleaseBeforeRetrigger(t *testing.T) {
	msgs := trackMessages([]model.NoteEvent{notes[0], notes[2]})
	require.Len(t, msgs, 4)
	assert.Equal(t, message{tick: 0, key: 69, vel: 127}, msgs[0])
	assert.Equal(t, message{tick: 1920, off: true, key: 69}, msgs[1])
	assert.Equal(t, message{tick: 1920, key: 69, vel: 100}, msgs[2])
	assert.Equal(t, message{tick: 2880, off: true, key: 69}, msgs[3])
}

func TestWriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, notes, 74.8, 2))

	s, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	sum := Summarize(s)
	assert.Equal(t, 3, sum.Tracks)
	assert.Equal(t, TicksPerBeat, sum.TicksPerBeat)
	assert.InDelta(t, 74.8, sum.Tempo, 0.01)
	assert.Equal(t, 4, sum.Notes)
	assert.Equal(t, 3.0, sum.Beats)
	assert.Equal(t, map[uint8]int{69: 2, 61: 1, 64: 1}, sum.Pitches)

	got := Notes(s)
	require.Len(t, got, 4)
	assert.Equal(t, Note{Track: 0, Onset: 0, Pitch: 69, Velocity: 127, Duration: 2}, got[0])
	assert.Equal(t, Note{Track: 1, Onset: 0.25, Pitch: 64, Velocity: 90, Duration: 0.5}, got[2])
	assert.Equal(t, Note{Track: 0, Onset: 2, Pitch: 69, Velocity: 100, Duration: 1}, got[3])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supernovae.mid")
	require.NoError(t, WriteFile(path, notes, 120, 2))

	s, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Len(t, Notes(s), 4)
}

func TestEmptyTracks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, 120, 4))
	s, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, Summarize(s).Tracks)
	assert.Empty(t, Notes(s))
}

func TestTrackOutOfRange(t *testing.T) {
	_, err := Build([]model.NoteEvent{{Track: 2, Pitch: 60, Velocity: 1, Duration: 1}}, 120, 2)
	assert.True(t, errors.Is(err, model.ErrConsistency))
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestSilentVelocityStillSounds(t *testing.T) {
	var buf bytes.Buffer
	quiet := []model.NoteEvent{{Track: 0, Onset: 1, Pitch: 60, Velocity: 0, Duration: 0.5}}
	require.NoError(t, Write(&buf, quiet, 120, 1))

	s, err := Read(&buf)
	require.NoError(t, err)
	got := Notes(s)
	require.Len(t, got, 1)
	assert.Equal(t, Note{Track: 0, Onset: 1, Pitch: 60, Velocity: 1, Duration: 0.5}, got[0])
}
