package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/jsphweid/supernovae/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const TicksPerBeat = 960

type message struct {
	tick uint64
	off  bool
	key  uint8
	vel  uint8
}

func ticks(beats float64) uint64 {
	return uint64(math.Round(beats * TicksPerBeat))
}

// trackMessages orders note-offs before note-ons on the same tick so a
// repeated pitch is released before it sounds again.
func trackMessages(notes []model.NoteEvent) []message {
	res := make([]message, 0, 2*len(notes))
	for _, n := range notes {
		start := ticks(n.Onset)
		res = append(res,
			message{tick: start, key: n.Pitch, vel: n.Velocity},
			message{tick: start + ticks(n.Duration), off: true, key: n.Pitch},
		)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].tick != res[j].tick {
			return res[i].tick < res[j].tick
		}
		return res[i].off && !res[j].off
	})
	return res
}

// Build lays notes out as a type 1 file: a conductor track carrying the
// tempo followed by one track per voice.
func Build(notes []model.NoteEvent, tempo float64, tracks int) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("supernovae"))
	conductor.Add(0, smf.MetaMeter(4, 4))
	conductor.Add(0, smf.MetaTempo(tempo))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("error adding conductor track: %w", err)
	}

	byTrack := make([][]model.NoteEvent, tracks)
	for _, n := range notes {
		if n.Track < 0 || n.Track >= tracks {
			return nil, fmt.Errorf("note on track %d but file has %d tracks: %w", n.Track, tracks, model.ErrConsistency)
		}
		byTrack[n.Track] = append(byTrack[n.Track], n)
	}

	for i, voice := range byTrack {
		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("note %d", i+1)))
		var last uint64
		for _, m := range trackMessages(voice) {
			delta := uint32(m.tick - last)
			last = m.tick
			if m.off {
				tr.Add(delta, midi.NoteOff(0, m.key))
			} else {
				// velocity 0 would read as a note-off
				tr.Add(delta, midi.NoteOn(0, m.key, max(m.vel, 1)))
			}
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return nil, fmt.Errorf("error adding track %d: %w", i, err)
		}
	}
	return s, nil
}

func Write(w io.Writer, notes []model.NoteEvent, tempo float64, tracks int) error {
	s, err := Build(notes, tempo, tracks)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing midi: %w", err)
	}
	return nil
}

func WriteFile(path string, notes []model.NoteEvent, tempo float64, tracks int) error {
	s, err := Build(notes, tempo, tracks)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("error writing midi file '%s': %w", path, err)
	}
	return nil
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &smf.SMF{}, fmt.Errorf("error reading midi file '%s': %w", filepath, err)
	}
	return Read(bytes.NewReader(dat))
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			s, e = &smf.SMF{}, errors.New(r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return &smf.SMF{}, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// Note is a tone recovered from a file. Track counts voices after the conductor track.
type Note struct {
	Track    int
	Onset    float64
	Pitch    uint8
	Velocity uint8
	Duration float64
}

type Summary struct {
	Tracks       int
	TicksPerBeat int
	Tempo        float64
	Notes        int
	Beats        float64
	Pitches      map[uint8]int
}

func resolution(s *smf.SMF) int {
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		return int(mt.Resolution())
	}
	return TicksPerBeat
}

// Notes pairs every note-on with the next note-off of the same key on its track.
func Notes(s *smf.SMF) []Note {
	per := float64(resolution(s))
	res := []Note{}
	for i, track := range s.Tracks {
		open := map[uint8][]int{}
		var abs uint64
		for _, ev := range track {
			abs += uint64(ev.Delta)
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				open[key] = append(open[key], len(res))
				res = append(res, Note{Track: i - 1, Onset: float64(abs) / per, Pitch: key, Velocity: vel})
			case ev.Message.GetNoteEnd(&ch, &key):
				if pending := open[key]; len(pending) > 0 {
					n := &res[pending[0]]
					n.Duration = float64(abs)/per - n.Onset
					open[key] = pending[1:]
				}
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Onset < res[j].Onset })
	return res
}

func Summarize(s *smf.SMF) Summary {
	sum := Summary{
		Tracks:       len(s.Tracks),
		TicksPerBeat: resolution(s),
		Pitches:      map[uint8]int{},
	}
	for _, track := range s.Tracks {
		for _, ev := range track {
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && sum.Tempo == 0 {
				sum.Tempo = bpm
			}
		}
	}
	for _, n := range Notes(s) {
		sum.Notes++
		sum.Pitches[n.Pitch]++
		sum.Beats = math.Max(sum.Beats, n.Onset+n.Duration)
	}
	return sum
}
