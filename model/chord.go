package model

type NoteName = string

// Chord is root, third, fifth and an optional extra note.
type Chord []NoteName

func (c Chord) Root() NoteName  { return c[0] }
func (c Chord) Third() NoteName { return c[1] }
func (c Chord) Fifth() NoteName { return c[2] }

// Extra returns the optional fourth note, or "" when the chord is a triad.
func (c Chord) Extra() NoteName {
	if len(c) > 3 {
		return c[3]
	}
	return ""
}

// Progression holds one chord per beat.
type Progression []Chord
