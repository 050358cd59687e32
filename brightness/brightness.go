// Package brightness maps an apparent magnitude onto note length, loudness and
// marker size. Every mapping goes through the same standardized distance, so a
// brighter event is longer, louder and larger at once.
//
// Remember: low magnitude is bright. MinNstd is the bright bound, MaxNstd the dim one.
package brightness

import (
	"math"

	"github.com/jsphweid/supernovae/util"
)

const MaxVelocity = 127

// Stats describes the whole catalog, before any date window is applied.
type Stats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func Population(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	s := Stats{Mean: util.Mean(values), Min: values[0], Max: values[0]}
	var sq float64
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sq += (v - s.Mean) * (v - s.Mean)
	}
	s.Std = math.Sqrt(sq / float64(len(values)))
	return s
}

func (s Stats) Nstd(v float64) float64 {
	if s.Std == 0 {
		return 0
	}
	return (v - s.Mean) / s.Std
}

type Options struct {
	SubBeats    int
	MaxDuration float64 // beats
	MinSize     float64 // pixels^2

	// nil means the population extrema
	MinNstd *float64
	MaxNstd *float64

	// FixedVelocity replaces the interpolated attack when set.
	FixedVelocity *uint8
}

type Mapper struct {
	Stats         Stats
	MinNstd       float64
	MaxNstd       float64
	SubBeats      int
	MaxDuration   float64
	MinSize       float64
	FixedVelocity *uint8
}

func NewMapper(stats Stats, o Options) *Mapper {
	m := &Mapper{
		Stats:         stats,
		MinNstd:       stats.Nstd(stats.Min),
		MaxNstd:       stats.Nstd(stats.Max),
		SubBeats:      o.SubBeats,
		MaxDuration:   o.MaxDuration,
		MinSize:       o.MinSize,
		FixedVelocity: o.FixedVelocity,
	}
	if o.MinNstd != nil {
		m.MinNstd = *o.MinNstd
	}
	if o.MaxNstd != nil {
		m.MaxNstd = *o.MaxNstd
	}
	return m
}

func (m *Mapper) subBeat() float64 { return 1.0 / float64(m.SubBeats) }

func (m *Mapper) MinDuration() float64 { return m.subBeat() }

// longest duration that sits on the sub-beat grid
func (m *Mapper) maxSnapped() float64 {
	sub := m.subBeat()
	return math.Max(sub, math.Floor(m.MaxDuration/sub+1e-9)*sub)
}

// Strength is 1 at the bright bound and beyond, 0 at the dim bound and beyond.
func (m *Mapper) Strength(v float64) float64 {
	span := m.MaxNstd - m.MinNstd
	if span <= 0 {
		return 1
	}
	return util.Clamp((m.MaxNstd-m.Stats.Nstd(v))/span, 0, 1)
}

// Duration is in beats, snapped to a multiple of one sub-beat.
func (m *Mapper) Duration(v float64) float64 {
	sub := m.subBeat()
	raw := util.Lerp(m.MinDuration(), m.MaxDuration, m.Strength(v))
	// ties go to the shorter value
	k := math.Ceil(raw/sub - 0.5)
	return util.Clamp(k*sub, m.MinDuration(), m.maxSnapped())
}

func (m *Mapper) Attack(v float64) uint8 {
	if m.FixedVelocity != nil {
		return *m.FixedVelocity
	}
	return uint8(math.Round(util.Lerp(0, MaxVelocity, m.Strength(v))))
}

// Size doubles the marker area for every standard deviation brighter than the dim bound.
func (m *Mapper) Size(v float64) float64 {
	lo, hi := m.MinNstd, m.MaxNstd
	if hi < lo {
		lo = hi
	}
	return m.MinSize * math.Pow(2, m.MaxNstd-util.Clamp(m.Stats.Nstd(v), lo, hi))
}

// FadeFrames is the number of frames an event stays on screen, trigger frame included.
func (m *Mapper) FadeFrames(v float64) int {
	return int(math.Round(m.Duration(v) * float64(m.SubBeats)))
}

// MaxFadeFrames bounds FadeFrames for any value.
func (m *Mapper) MaxFadeFrames() int {
	return int(math.Round(m.maxSnapped() * float64(m.SubBeats)))
}
