package chord

import (
	"github.com/jsphweid/supernovae/model"
)

// PitchRange spans the octaves [BaseOctave, BaseOctave+Octaves).
type PitchRange struct {
	BaseOctave int
	Octaves    int
}

func (r PitchRange) Low() int  { return r.BaseOctave }
func (r PitchRange) High() int { return r.BaseOctave + r.Octaves - 1 }

// octaveWalk yields start, start+1, start-1, start+2, start-2, ... clipped to [lo, hi].
// It ends once both directions have left the range.
type octaveWalk struct {
	start, lo, hi int
	step          int
}

func newOctaveWalk(start, lo, hi int) *octaveWalk {
	return &octaveWalk{start: start, lo: lo, hi: hi}
}

func (w *octaveWalk) Next() (int, bool) {
	for {
		d := (w.step + 1) / 2
		if w.start+d > w.hi && w.start-d < w.lo {
			return 0, false
		}
		octave := w.start + d
		if w.step%2 == 0 {
			octave = w.start - d
		}
		if w.step == 0 {
			octave = w.start
		}
		w.step++
		if octave >= w.lo && octave <= w.hi {
			return octave, true
		}
	}
}

func (r PitchRange) rankRole(name model.NoteName, startOctave int) ([]uint8, error) {
	var res []uint8
	if name == "" {
		return res, nil
	}
	walk := newOctaveWalk(startOctave, r.Low(), r.High())
	for octave, more := walk.Next(); more; octave, more = walk.Next() {
		p, ok, err := Pitch(name, octave)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, p)
		}
	}
	return res, nil
}

// RankOrder lists every chord tone in the range, closest to startOctave first,
// interleaving roles as extra, root, third, fifth.
func RankOrder(c model.Chord, r PitchRange, startOctave int) ([]uint8, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	var roles [][]uint8
	for _, name := range []model.NoteName{c.Extra(), c.Root(), c.Third(), c.Fifth()} {
		ranked, err := r.rankRole(name, startOctave)
		if err != nil {
			return nil, err
		}
		roles = append(roles, ranked)
	}

	longest := 0
	for _, ranked := range roles {
		if len(ranked) > longest {
			longest = len(ranked)
		}
	}

	seen := make(map[uint8]bool)
	var res []uint8
	for i := 0; i < longest; i++ {
		for _, ranked := range roles {
			if i >= len(ranked) || seen[ranked[i]] {
				continue
			}
			seen[ranked[i]] = true
			res = append(res, ranked[i])
		}
	}
	return res, nil
}

// Ranker memoizes RankOrder per chord; a progression repeats a handful of chords.
type Ranker struct {
	Range       PitchRange
	StartOctave int
	cache       map[string][]uint8
}

func NewRanker(r PitchRange, startOctave int) *Ranker {
	return &Ranker{Range: r, StartOctave: startOctave, cache: make(map[string][]uint8)}
}

func (rk *Ranker) Rank(c model.Chord) ([]uint8, error) {
	key := CreateChordKey(c)
	if ranked, ok := rk.cache[key]; ok {
		return ranked, nil
	}
	ranked, err := RankOrder(c, rk.Range, rk.StartOctave)
	if err != nil {
		return nil, err
	}
	rk.cache[key] = ranked
	return ranked, nil
}
