package chord

import (
	"fmt"
	"testing"

	"github.com/jsphweid/supernovae/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitch(t *testing.T) {
	cases := []struct {
		name   string
		octave int
		pitch  uint8
	}{
		{"C", 4, 60},
		{"A", 4, 69},
		{"C#", 4, 61},
		{"Db", 4, 61},
		{"B", 3, 59},
		{"C", -1, 0},
		{"G", 9, 127},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%s%d", c.name, c.octave), func(t *testing.T) {
			p, ok, err := Pitch(c.name, c.octave)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, c.pitch, p)
		})
	}
}

func TestPitchOutOfMidiRange(t *testing.T) {
	_, ok, err := Pitch("G#", 9)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownNoteName(t *testing.T) {
	_, err := RankOrder(model.Chord{"A", "H", "E"}, PitchRange{2, 5}, 4)
	assert.Error(t, err)
}

func TestChordNeedsThreeOrFourNotes(t *testing.T) {
	assert.Error(t, Validate(model.Chord{"A", "E"}))
	assert.Error(t, Validate(model.Chord{"A", "C#", "E", "G", "B"}))
	assert.NoError(t, Validate(model.Chord{"A", "B", "E", "G"}))
}

func TestOctaveWalk(t *testing.T) {
	var got []int
	w := newOctaveWalk(4, 2, 8)
	for o, ok := w.Next(); ok; o, ok = w.Next() {
		got = append(got, o)
	}
	assert.Equal(t, []int{4, 5, 3, 6, 2, 7, 8}, got)
}

func TestOctaveWalkWithStartOutsideRange(t *testing.T) {
	var got []int
	w := newOctaveWalk(1, 2, 4)
	for o, ok := w.Next(); ok; o, ok = w.Next() {
		got = append(got, o)
	}
	assert.Equal(t, []int{2, 3, 4}, got)
}

func TestRankOrderAMajorStartsAtOctaveFour(t *testing.T) {
	// octaves 2..6
	ranked, err := RankOrder(model.Chord{"A", "C#", "E"}, PitchRange{BaseOctave: 2, Octaves: 5}, 4)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]uint8{69, 61, 64}, ranked[:3])  // A4, C#4, E4
	assert.Equal([]uint8{81, 73, 76}, ranked[3:6]) // A5, C#5, E5
	assert.Equal([]uint8{57, 49, 52}, ranked[6:9]) // A3, C#3, E3
	assert.Len(ranked, 15)
}

func TestRankOrderPutsExtraFirst(t *testing.T) {
	ranked, err := RankOrder(model.Chord{"A", "B", "E", "G"}, PitchRange{BaseOctave: 3, Octaves: 2}, 4)
	require.NoError(t, err)
	// G4 A4 B4 E4, G3 A3 B3 E3
	assert.Equal(t, []uint8{67, 69, 71, 64, 55, 57, 59, 52}, ranked)
}

func TestRankOrderDropsRepeatedNoteNames(t *testing.T) {
	ranked, err := RankOrder(model.Chord{"A", "C#", "E", "A"}, PitchRange{BaseOctave: 4, Octaves: 1}, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint8{69, 61, 64}, ranked)
}

func TestRankerCachesByChord(t *testing.T) {
	rk := NewRanker(PitchRange{BaseOctave: 2, Octaves: 7}, 4)
	a, err := rk.Rank(model.Chord{"A", "C#", "E"})
	require.NoError(t, err)
	b, err := rk.Rank(model.Chord{"A", "C#", "E"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, rk.cache, 1)
}

func TestRankOrderIsDeterministic(t *testing.T) {
	names := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("same arguments give the same sequence", prop.ForAll(
		func(root, third, fifth, extra, base, octaves, start int) bool {
			c := model.Chord{names[root], names[third], names[fifth]}
			if extra < len(names) {
				c = append(c, names[extra])
			}
			r := PitchRange{BaseOctave: base, Octaves: octaves}
			first, err := RankOrder(c, r, start)
			if err != nil {
				return false
			}
			second, err := RankOrder(c, r, start)
			if err != nil {
				return false
			}
			seen := map[uint8]bool{}
			for _, p := range first {
				if seen[p] {
					return false
				}
				seen[p] = true
			}
			return assert.ObjectsAreEqual(first, second)
		},
		gen.IntRange(0, 11), gen.IntRange(0, 11), gen.IntRange(0, 11), gen.IntRange(0, 15),
		gen.IntRange(0, 4), gen.IntRange(1, 6), gen.IntRange(1, 7),
	))
	properties.TestingRun(t)
}

func TestDefaultProgression(t *testing.T) {
	prog, err := Default()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(prog, 516)
	assert.Equal(model.Chord{"A", "B", "E"}, prog[0])
	assert.Equal(model.Chord{"A", "B", "E", "G"}, prog[4])
	assert.Equal(model.Chord{"A", "C#", "E"}, prog[len(prog)-1])
}

func TestProgressionSectionsRepeat(t *testing.T) {
	prog, err := ParseProgression([]byte(`
chords:
  A: [A, C#, E]
  D: [D, F#, A]
sections:
  riff:
    - {chord: A, beats: 2}
    - {chord: D, beats: 1}
  song:
    - {section: riff, times: 2}
order: [song, riff]
`))
	require.NoError(t, err)
	a := model.Chord{"A", "C#", "E"}
	d := model.Chord{"D", "F#", "A"}
	assert.Equal(t, model.Progression{a, a, d, a, a, d, a, a, d}, prog)
}

func TestProgressionRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown chord":   "chords: {}\nsections: {s: [{chord: X, beats: 1}]}\norder: [s]",
		"unknown section": "chords: {}\nsections: {}\norder: [s]",
		"zero beats":      "chords: {A: [A, C#, E]}\nsections: {s: [{chord: A}]}\norder: [s]",
		"cycle":           "chords: {}\nsections: {s: [{section: s}]}\norder: [s]",
		"empty":           "chords: {}\nsections: {}\norder: []",
		"bad chord":       "chords: {A: [A, E]}\nsections: {s: [{chord: A, beats: 1}]}\norder: [s]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProgression([]byte(doc))
			assert.Error(t, err)
		})
	}
}
