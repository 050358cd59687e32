package chord

import (
	"fmt"
	"strings"

	"github.com/jsphweid/supernovae/model"
)

var semitones = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3, "E": 4, "Fb": 4, "E#": 5,
	"F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8, "A": 9, "A#": 10, "Bb": 10,
	"B": 11, "Cb": 11, "B#": 0,
}

func Semitone(name model.NoteName) (int, error) {
	s, ok := semitones[name]
	if !ok {
		return 0, fmt.Errorf("unknown note name '%s'", name)
	}
	return s, nil
}

// Pitch returns the MIDI number of a note name in an octave (C4 = 60).
// ok is false when the note falls outside 0..127.
func Pitch(name model.NoteName, octave int) (pitch uint8, ok bool, err error) {
	s, err := Semitone(name)
	if err != nil {
		return 0, false, err
	}
	p := 12*(octave+1) + s
	if p < 0 || p > 127 {
		return 0, false, nil
	}
	return uint8(p), true, nil
}

// CreateChordKey identifies a chord by its role-ordered note names.
func CreateChordKey(c model.Chord) string {
	return strings.Join(c, "-")
}

func Validate(c model.Chord) error {
	if len(c) < 3 || len(c) > 4 {
		return fmt.Errorf("chord '%s' needs 3 or 4 notes, has %d", CreateChordKey(c), len(c))
	}
	for _, name := range c {
		if _, err := Semitone(name); err != nil {
			return fmt.Errorf("chord '%s': %w", CreateChordKey(c), err)
		}
	}
	return nil
}
