package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/supernovae/logger"
	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Run) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "supernovae.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	run := &store.Run{Tempo: 74.8, SubBeats: 4, Beats: 1, Bins: 4, Frames: 5, Tracks: 1, Events: 1}
	notes := []model.NoteEvent{{Track: 0, Bin: 2, Onset: 0.5, Pitch: 69, Velocity: 127, Duration: 0.25}}
	frames := []model.Frame{
		{Index: 0, Center: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), Label: "2000", Sprites: []model.Sprite{}},
		{Index: 2, Bin: 2, Center: time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC), Label: "2000", Count: 1, Sprites: []model.Sprite{
			{Event: 0, Size: 4, Color: "#ff000d", Marker: model.MarkerDiamond, Alpha: 1},
		}},
	}
	require.NoError(t, s.SaveRun(run, notes, frames))

	log, _ := logger.NewTestLogger()
	srv := httptest.NewServer(New(s, log))
	t.Cleanup(srv.Close)
	return srv, run
}

func get(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if v != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	}
	return res
}

func TestRuns(t *testing.T) {
	srv, run := newTestServer(t)

	var runs []store.Run
	res := get(t, srv.URL+"/runs", &runs)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	var one store.Run
	get(t, srv.URL+"/runs/"+run.ID, &one)
	assert.Equal(t, 5, one.Frames)
}

func TestNotes(t *testing.T) {
	srv, run := newTestServer(t)

	var notes []model.NoteEvent
	res := get(t, fmt.Sprintf("%s/runs/%s/notes", srv.URL, run.ID), &notes)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []model.NoteEvent{{Track: 0, Bin: 2, Onset: 0.5, Pitch: 69, Velocity: 127, Duration: 0.25}}, notes)
}

func TestFrame(t *testing.T) {
	srv, run := newTestServer(t)

	var f model.Frame
	res := get(t, fmt.Sprintf("%s/runs/%s/frames/2", srv.URL, run.ID), &f)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, f.Count)
	require.Len(t, f.Sprites, 1)
	assert.Equal(t, model.MarkerDiamond, f.Sprites[0].Marker)
}

func TestNotFound(t *testing.T) {
	srv, run := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/runs/nope", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/runs/nope/notes", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, fmt.Sprintf("%s/runs/%s/frames/1", srv.URL, run.ID), nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, fmt.Sprintf("%s/runs/%s/frames/x", srv.URL, run.ID), nil).StatusCode)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/runs", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestDeleteRun(t *testing.T) {
	srv, run := newTestServer(t)

	del := func(id string) int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/runs/"+id, nil)
		require.NoError(t, err)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		return res.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, del(run.ID))
	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/runs/"+run.ID, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, fmt.Sprintf("%s/runs/%s/frames/2", srv.URL, run.ID), nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, del(run.ID))

	var runs []store.Run
	get(t, srv.URL+"/runs", &runs)
	assert.Empty(t, runs)
}
