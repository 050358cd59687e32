package sonify

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jsphweid/supernovae/alloc"
	"github.com/jsphweid/supernovae/chord"
	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/timebin"
	"github.com/spaolacci/murmur3"
)

const DaysPerYear = 365.25

type InsufficientPitchRangeError struct {
	Bin       int
	Chord     string
	Available int
	Needed    int
}

func (e *InsufficientPitchRangeError) Error() string {
	return fmt.Sprintf("not enough notes to represent bin %d over chord %s: %d available, %d needed; try increasing the octave range",
		e.Bin, e.Chord, e.Available, e.Needed)
}

func (e *InsufficientPitchRangeError) Unwrap() error { return model.ErrCapacity }

type Ranker interface {
	Rank(c model.Chord) ([]uint8, error)
}

type Mapper interface {
	Duration(v float64) float64
	Attack(v float64) uint8
}

// Timing converts elapsed calendar days into beats so the whole date range
// fills the song exactly.
type Timing struct {
	Tempo    float64 // beats per minute
	Beats    int
	SpanDays float64
}

func (t Timing) SongSeconds() float64 {
	return float64(t.Beats) / t.Tempo * 60
}

func (t Timing) SecondsPerYear() float64 {
	return t.SongSeconds() / (t.SpanDays / DaysPerYear)
}

func (t Timing) Beat(days float64) float64 {
	return days / DaysPerYear * t.SecondsPerYear() * t.Tempo / 60
}

type Scheduler struct {
	Events      []model.Event
	Bins        *timebin.Bins
	Progression model.Progression
	SubBeats    int
	Ranker      Ranker
	Mapper      Mapper
	Timing      Timing
}

// Tracks is the number of voices the densest bin needs.
func (s *Scheduler) Tracks() int {
	return alloc.NotesNeeded(s.Bins.MaxMembers())
}

func (s *Scheduler) chordFor(bin int) (model.Chord, error) {
	i := bin / s.SubBeats
	if i >= len(s.Progression) {
		return nil, fmt.Errorf("bin %d maps to beat %d of a %d beat progression: %w", bin, i, len(s.Progression), model.ErrConsistency)
	}
	return s.Progression[i], nil
}

// Validate checks every populated bin has enough candidate pitches.
func (s *Scheduler) Validate() error {
	for i, members := range s.Bins.Members {
		if len(members) == 0 {
			continue
		}
		c, err := s.chordFor(i)
		if err != nil {
			return err
		}
		ranked, err := s.Ranker.Rank(c)
		if err != nil {
			return err
		}
		needed := alloc.NotesNeeded(len(members))
		if len(ranked) < needed {
			return &InsufficientPitchRangeError{
				Bin:       i,
				Chord:     chord.CreateChordKey(c),
				Available: len(ranked),
				Needed:    needed,
			}
		}
	}
	return nil
}

// Schedule emits notes ordered by onset, then track. Note j of a bin always
// goes to track j.
func (s *Scheduler) Schedule() ([]model.NoteEvent, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var notes []model.NoteEvent
	for i, members := range s.Bins.Members {
		if len(members) == 0 {
			continue
		}
		c, err := s.chordFor(i)
		if err != nil {
			return nil, err
		}
		ranked, err := s.Ranker.Rank(c)
		if err != nil {
			return nil, err
		}
		onset := s.Timing.Beat(s.Bins.Elapsed(i))
		for j, group := range alloc.Allocate(s.Events, members) {
			notes = append(notes, model.NoteEvent{
				Track:    j,
				Bin:      i,
				Onset:    onset,
				Pitch:    ranked[j],
				Velocity: s.Mapper.Attack(group.Brightness),
				Duration: s.Mapper.Duration(group.Brightness),
			})
		}
	}
	return notes, nil
}

func ByTrack(notes []model.NoteEvent) [][]model.NoteEvent {
	var res [][]model.NoteEvent
	for _, n := range notes {
		for len(res) <= n.Track {
			res = append(res, nil)
		}
		res[n.Track] = append(res[n.Track], n)
	}
	return res
}

// Digest fingerprints a note list so two runs can be compared.
func Digest(notes []model.NoteEvent) uint64 {
	h := murmur3.New64()
	buf := make([]byte, 8)
	for _, n := range notes {
		for _, v := range []uint64{
			uint64(n.Track),
			uint64(n.Bin),
			math.Float64bits(n.Onset),
			uint64(n.Pitch),
			uint64(n.Velocity),
			math.Float64bits(n.Duration),
		} {
			binary.LittleEndian.PutUint64(buf, v)
			h.Write(buf)
		}
	}
	return h.Sum64()
}
