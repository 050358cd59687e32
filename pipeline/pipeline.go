// Package pipeline runs one sonification: it bins the catalog onto the beat
// grid, schedules the notes and prepares the fade schedule for the animation.
// Both outputs share the same bins, so note k and frame k describe the same
// stretch of time.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jsphweid/supernovae/brightness"
	"github.com/jsphweid/supernovae/catalog"
	"github.com/jsphweid/supernovae/chord"
	"github.com/jsphweid/supernovae/config"
	"github.com/jsphweid/supernovae/fade"
	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/sonify"
	"github.com/jsphweid/supernovae/timebin"
	"github.com/jsphweid/supernovae/util"
)

type Stats struct {
	Events         int
	MaxPerBin      int
	MaxPerType     map[model.Classification]int
	Bins           int
	DaysPerBin     float64
	Frames         int
	Beats          int
	SubBeats       int
	Tracks         int
	SongSeconds    float64
	SecondsPerYear float64
	FPS            float64 // frames per second that keep frame k on the notes of bin k
}

type Result struct {
	Events      []model.Event
	Population  brightness.Stats
	Bins        *timebin.Bins
	Progression model.Progression
	Timing      sonify.Timing
	Notes       []model.NoteEvent
	Tracks      int
	Digest      uint64
	Fade        *fade.Scheduler
	Stats       Stats
}

func checkProgression(prog model.Progression) error {
	if len(prog) == 0 {
		return &config.ValidationError{Field: "progression", Reason: "has no beats"}
	}
	seen := map[string]bool{}
	for _, c := range prog {
		key := chord.CreateChordKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := chord.Validate(c); err != nil {
			return &config.ValidationError{Field: "progression", Reason: err.Error()}
		}
	}
	return nil
}

func maxPerType(events []model.Event, bins *timebin.Bins) map[model.Classification]int {
	res := map[model.Classification]int{}
	for _, c := range model.Classifications {
		res[c] = 0
	}
	for _, members := range bins.Members {
		counts := map[model.Classification]int{}
		for _, e := range members {
			counts[events[e].Type]++
		}
		for c, n := range counts {
			if n > res[c] {
				res[c] = n
			}
		}
	}
	return res
}

// Run schedules all catalog events inside the configured window. The
// brightness population is the whole catalog so the mapping does not shift
// with the window. Every populated bin is checked for pitch capacity before
// any note is produced.
func Run(cfg config.Config, all []model.Event, prog model.Progression, log *zap.SugaredLogger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkProgression(prog); err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("catalog is empty: %w", model.ErrConfiguration)
	}

	first, last := catalog.Span(all)
	date0, datef, err := cfg.Window(first, last)
	if err != nil {
		return nil, err
	}
	events := catalog.Window(all, date0, datef)

	expected := len(prog) * cfg.SubBeats
	width := timebin.Days(date0, datef) / float64(expected)
	bins, err := timebin.Bin(events, date0, datef, width, expected)
	if err != nil {
		return nil, err
	}
	log.Infow("binned events",
		"start", date0.Format(config.DateLayout),
		"end", datef.Format(config.DateLayout),
		"events", len(events),
		"bins", bins.Count(),
		"days_per_bin", width)

	lo, hi, err := cfg.NstdBounds()
	if err != nil {
		return nil, err
	}
	population := brightness.Population(catalog.Brightness(all))
	mapper := brightness.NewMapper(population, brightness.Options{
		SubBeats:      cfg.SubBeats,
		MaxDuration:   cfg.MaxDuration,
		MinSize:       cfg.MinSize,
		MinNstd:       lo,
		MaxNstd:       hi,
		FixedVelocity: cfg.FixedVelocity(),
	})
	if (lo != nil || hi != nil) && mapper.MinNstd >= mapper.MaxNstd {
		return nil, &config.ValidationError{
			Field:  "min nstd",
			Reason: fmt.Sprintf("%v is not below max nstd %v once the population bounds are applied", mapper.MinNstd, mapper.MaxNstd),
		}
	}
	log.Debugw("brightness population",
		"mean", population.Mean,
		"std", population.Std,
		"min_nstd", mapper.MinNstd,
		"max_nstd", mapper.MaxNstd,
		"max_fade_frames", mapper.MaxFadeFrames())

	timing := sonify.Timing{Tempo: cfg.Tempo, Beats: len(prog), SpanDays: bins.Span()}
	scheduler := &sonify.Scheduler{
		Events:      events,
		Bins:        bins,
		Progression: prog,
		SubBeats:    cfg.SubBeats,
		Ranker:      chord.NewRanker(chord.PitchRange{BaseOctave: cfg.BaseOctave, Octaves: cfg.OctaveRange}, cfg.StartOctave),
		Mapper:      mapper,
		Timing:      timing,
	}
	notes, err := scheduler.Schedule()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Events:      events,
		Population:  population,
		Bins:        bins,
		Progression: prog,
		Timing:      timing,
		Notes:       notes,
		Tracks:      scheduler.Tracks(),
		Digest:      sonify.Digest(notes),
		Fade:        fade.NewScheduler(events, bins, mapper, cfg.MinAlpha, cfg.MaxAlpha),
	}
	res.Stats = Stats{
		Events:         len(events),
		MaxPerBin:      bins.MaxMembers(),
		MaxPerType:     maxPerType(events, bins),
		Bins:           bins.Count(),
		DaysPerBin:     width,
		Frames:         res.Fade.Frames(),
		Beats:          len(prog),
		SubBeats:       cfg.SubBeats,
		Tracks:         res.Tracks,
		SongSeconds:    timing.SongSeconds(),
		SecondsPerYear: timing.SecondsPerYear(),
	}
	// one frame per bin, so the video keeps pace with the sub-beat grid
	res.Stats.FPS = cfg.Tempo / 60 * float64(cfg.SubBeats)

	log.Infow("scheduled notes",
		"notes", len(notes),
		"tracks", res.Tracks,
		"max_per_bin", res.Stats.MaxPerBin,
		"frames", res.Stats.Frames,
		"fps", res.Stats.FPS,
		"digest", fmt.Sprintf("%016x", res.Digest))
	for _, c := range util.SortedKeys(res.Stats.MaxPerType) {
		log.Debugw("most events of a type in one bin", "type", c, "count", res.Stats.MaxPerType[c])
	}
	return res, nil
}

// Frames renders every animation frame followed by the summary still.
func (r *Result) Frames() []model.Frame {
	return append(r.Fade.All(), r.Fade.Summary())
}
