package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/supernovae/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "supernovae.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	testNotes = []model.NoteEvent{
		{Track: 1, Bin: 0, Onset: 0, Pitch: 61, Velocity: 127, Duration: 0.25},
		{Track: 0, Bin: 0, Onset: 0, Pitch: 69, Velocity: 127, Duration: 2},
		{Track: 0, Bin: 5, Onset: 1.25, Pitch: 69, Velocity: 90, Duration: 1},
	}
	center     = time.Date(1950, 1, 1, 12, 0, 0, 0, time.UTC)
	testFrames = []model.Frame{
		{Index: 0, Bin: 0, Center: center, Label: "1950", Count: 2, Sprites: []model.Sprite{
			{Event: 0, Lon: 1, Lat: 0.5, X: 0.9, Y: 0.4, Size: 8, Color: "#ff000d", Marker: model.MarkerDiamond, Alpha: 1},
			{Event: 1, Lon: -1, Lat: 0, X: -0.9, Y: 0, Size: 4, Color: "#fffd01", Marker: model.MarkerStar, Alpha: 1},
		}},
		{Index: 1, Bin: 1, Center: center.Add(24 * time.Hour), Label: "1950", Count: 2, Sprites: []model.Sprite{}},
	}
)

func TestSaveAndQuery(t *testing.T) {
	s := openTestStore(t)

	run := &Run{Tempo: 74.8, SubBeats: 4, Beats: 516, Bins: 2064, Frames: 2072, Tracks: 2, Events: 3, Digest: "00ff"}
	require.NoError(t, s.SaveRun(run, testNotes, testFrames))
	require.Len(t, run.ID, 36)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 2064, runs[0].Bins)
	assert.Equal(t, "00ff", runs[0].Digest)

	notes, err := s.Notes(run.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.NoteEvent{testNotes[1], testNotes[0], testNotes[2]}, notes)

	f, err := s.Frame(run.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, testFrames[0].Sprites, f.Sprites)
	assert.Equal(t, "1950", f.Label)
	assert.Equal(t, 2, f.Count)
	assert.True(t, center.Equal(f.Center))

	f, err = s.Frame(run.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, f.Sprites)
}

func TestNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Run("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Notes("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	run := &Run{}
	require.NoError(t, s.SaveRun(run, nil, testFrames))
	_, err = s.Frame(run.ID, 7)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteRun(t *testing.T) {
	s := openTestStore(t)
	keep := &Run{}
	drop := &Run{}
	require.NoError(t, s.SaveRun(keep, testNotes, testFrames))
	require.NoError(t, s.SaveRun(drop, testNotes, testFrames))

	require.NoError(t, s.DeleteRun(drop.ID))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, keep.ID, runs[0].ID)

	var sprites int64
	require.NoError(t, s.DB.Model(&Sprite{}).Count(&sprites).Error)
	assert.Equal(t, int64(2), sprites)

	notes, err := s.Notes(keep.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 3)
}

func TestDeleteMissingRun(t *testing.T) {
	s := openTestStore(t)
	assert.True(t, errors.Is(s.DeleteRun("missing"), ErrNotFound))
}
