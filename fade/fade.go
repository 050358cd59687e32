// Package fade decides, frame by frame, which events are on screen and how
// transparent they are. An event is drawn at full opacity in the frame of its
// bin, then fades linearly to the alpha floor over the rest of its fade frames.
package fade

import (
	"fmt"

	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/sky"
	"github.com/jsphweid/supernovae/timebin"
)

const (
	DefaultMinAlpha = 0.1
	DefaultMaxAlpha = 1.0
)

type Mapper interface {
	FadeFrames(v float64) int
	Size(v float64) float64
}

func Records(events []model.Event, m Mapper) []model.FadeRecord {
	res := make([]model.FadeRecord, len(events))
	for i, e := range events {
		res[i] = model.FadeRecord{
			Frames: m.FadeFrames(e.Brightness),
			Size:   m.Size(e.Brightness),
			Style:  model.StyleFor(e.Type),
		}
	}
	return res
}

type Scheduler struct {
	Events   []model.Event
	Bins     *timebin.Bins
	Records  []model.FadeRecord
	MinAlpha float64
	MaxAlpha float64

	// MaxFrames is the longest fade of any event; frame i only looks back this far.
	MaxFrames int

	cumulative []int
}

func NewScheduler(events []model.Event, bins *timebin.Bins, m Mapper, minAlpha, maxAlpha float64) *Scheduler {
	s := &Scheduler{
		Events:    events,
		Bins:      bins,
		Records:   Records(events, m),
		MinAlpha:  minAlpha,
		MaxAlpha:  maxAlpha,
		MaxFrames: 1,
	}
	for _, r := range s.Records {
		if r.Frames > s.MaxFrames {
			s.MaxFrames = r.Frames
		}
	}
	s.cumulative = make([]int, bins.Count())
	total := 0
	for i, members := range bins.Members {
		total += len(members)
		s.cumulative[i] = total
	}
	return s
}

// Frames counts the data frames plus the trailing frames that let the last events fade out.
func (s *Scheduler) Frames() int {
	return s.Bins.Count() + s.MaxFrames
}

// Alpha for an event age frames after its trigger frame, or false once it has expired.
func (s *Scheduler) Alpha(age, frames int) (float64, bool) {
	if age < 0 || age >= frames {
		return 0, false
	}
	if age == 0 {
		return s.MaxAlpha, true
	}
	step := (s.MaxAlpha - s.MinAlpha) / float64(frames-1)
	return s.MaxAlpha - float64(age)*step, true
}

func (s *Scheduler) sprite(e model.EventIndex, alpha float64) model.Sprite {
	ev := s.Events[e]
	r := s.Records[e]
	x, y := sky.Hammer(ev.Lon, ev.Lat)
	return model.Sprite{
		Event:  e,
		Lon:    ev.Lon,
		Lat:    ev.Lat,
		X:      x,
		Y:      y,
		Size:   r.Size,
		Color:  r.Style.Color,
		Marker: r.Style.Marker,
		Alpha:  alpha,
	}
}

// Frame lists the sprites of frame i, oldest first so the newest draw on top.
// Past the last bin no new events are triggered.
func (s *Scheduler) Frame(i int) model.Frame {
	last := s.Bins.Count() - 1
	bin := i
	if bin > last {
		bin = last
	}
	f := model.Frame{
		Index:   i,
		Bin:     bin,
		Center:  s.Bins.Center(bin),
		Count:   s.cumulative[bin],
		Sprites: []model.Sprite{},
	}
	f.Label = f.Center.Format("2006")

	from := i - s.MaxFrames + 1
	if from < 0 {
		from = 0
	}
	for t := from; t <= bin; t++ {
		for _, e := range s.Bins.Members[t] {
			if alpha, ok := s.Alpha(i-t, s.Records[e].Frames); ok {
				f.Sprites = append(f.Sprites, s.sprite(e, alpha))
			}
		}
	}
	return f
}

func (s *Scheduler) All() []model.Frame {
	res := make([]model.Frame, s.Frames())
	for i := range res {
		res[i] = s.Frame(i)
	}
	return res
}

// Summary is the closing still: every event at half the alpha floor.
func (s *Scheduler) Summary() model.Frame {
	f := model.Frame{
		Index:   s.Frames(),
		Bin:     s.Bins.Count() - 1,
		Center:  s.Bins.Center(s.Bins.Count() / 2),
		Label:   fmt.Sprintf("%d–%d", s.Bins.Date0.Year(), s.Bins.DateF.Year()),
		Sprites: make([]model.Sprite, 0, len(s.Events)),
	}
	for _, members := range s.Bins.Members {
		for _, e := range members {
			f.Sprites = append(f.Sprites, s.sprite(e, s.MinAlpha*0.5))
			f.Count++
		}
	}
	return f
}
