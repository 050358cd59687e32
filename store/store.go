// Package store keeps finished runs in a sqlite file so the frame feed can
// serve them without recomputing the schedule.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jsphweid/supernovae/model"
)

var ErrNotFound = errors.New("not found")

type Run struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Tempo     float64   `json:"tempo"`
	SubBeats  int       `json:"sub_beats"`
	Beats     int       `json:"beats"`
	Bins      int       `json:"bins"`
	Frames    int       `json:"frames"`
	Tracks    int       `json:"tracks"`
	Events    int       `json:"events"`
	Digest    string    `json:"digest"`
}

type Note struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	RunID    string `gorm:"type:varchar(36);index:idx_note_run"`
	Track    int
	Bin      int
	Onset    float64
	Pitch    int
	Velocity int
	Duration float64
}

type Frame struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	RunID   string `gorm:"type:varchar(36);uniqueIndex:idx_frame_run,priority:1"`
	Index   int    `gorm:"column:frame_index;uniqueIndex:idx_frame_run,priority:2"`
	Bin     int
	Center  time.Time
	Label   string
	Count   int
	Sprites []Sprite
}

type Sprite struct {
	ID      uint `gorm:"primaryKey;autoIncrement"`
	FrameID uint `gorm:"index:idx_sprite_frame"`
	Event   int
	Lon     float64
	Lat     float64
	X       float64
	Y       float64
	Size    float64
	Color   string
	Marker  string
	Alpha   float64
}

type Store struct {
	DB *gorm.DB
}

// Open returns a migrated sqlite database, creating the file if necessary.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating db dir '%s': %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}, &Note{}, &Frame{}, &Sprite{}); err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", path, err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func noteRow(runID string, n model.NoteEvent) Note {
	return Note{
		RunID:    runID,
		Track:    n.Track,
		Bin:      n.Bin,
		Onset:    n.Onset,
		Pitch:    int(n.Pitch),
		Velocity: int(n.Velocity),
		Duration: n.Duration,
	}
}

func frameRow(runID string, f model.Frame) Frame {
	row := Frame{
		RunID:   runID,
		Index:   f.Index,
		Bin:     f.Bin,
		Center:  f.Center,
		Label:   f.Label,
		Count:   f.Count,
		Sprites: make([]Sprite, len(f.Sprites)),
	}
	for i, sp := range f.Sprites {
		row.Sprites[i] = Sprite{
			Event:  sp.Event,
			Lon:    sp.Lon,
			Lat:    sp.Lat,
			X:      sp.X,
			Y:      sp.Y,
			Size:   sp.Size,
			Color:  sp.Color,
			Marker: string(sp.Marker),
			Alpha:  sp.Alpha,
		}
	}
	return row
}

// SaveRun stores a run with its notes and frames in one transaction. A run
// without an ID is given a fresh one.
func (s *Store) SaveRun(run *Run, notes []model.NoteEvent, frames []model.Frame) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("error creating run '%s': %w", run.ID, err)
		}
		rows := make([]Note, len(notes))
		for i, n := range notes {
			rows[i] = noteRow(run.ID, n)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("error inserting notes for run '%s': %w", run.ID, err)
			}
		}
		for _, f := range frames {
			row := frameRow(run.ID, f)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("error inserting frame %d for run '%s': %w", f.Index, run.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	if err := s.DB.Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	return runs, nil
}

func (s *Store) Run(id string) (*Run, error) {
	var run Run
	err := s.DB.Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run '%s': %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding run '%s': %w", id, err)
	}
	return &run, nil
}

func (s *Store) Notes(runID string) ([]model.NoteEvent, error) {
	if _, err := s.Run(runID); err != nil {
		return nil, err
	}
	var rows []Note
	if err := s.DB.Where("run_id = ?", runID).Order("onset, track").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing notes for run '%s': %w", runID, err)
	}
	res := make([]model.NoteEvent, len(rows))
	for i, r := range rows {
		res[i] = model.NoteEvent{
			Track:    r.Track,
			Bin:      r.Bin,
			Onset:    r.Onset,
			Pitch:    uint8(r.Pitch),
			Velocity: uint8(r.Velocity),
			Duration: r.Duration,
		}
	}
	return res, nil
}

func (s *Store) Frame(runID string, index int) (model.Frame, error) {
	var row Frame
	err := s.DB.
		Preload("Sprites", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("run_id = ? AND frame_index = ?", runID, index).
		First(&row).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Frame{}, fmt.Errorf("frame %d of run '%s': %w", index, runID, ErrNotFound)
	}
	if err != nil {
		return model.Frame{}, fmt.Errorf("error finding frame %d of run '%s': %w", index, runID, err)
	}
	f := model.Frame{
		Index:   row.Index,
		Bin:     row.Bin,
		Center:  row.Center.UTC(),
		Label:   row.Label,
		Count:   row.Count,
		Sprites: make([]model.Sprite, len(row.Sprites)),
	}
	for i, sp := range row.Sprites {
		f.Sprites[i] = model.Sprite{
			Event:  sp.Event,
			Lon:    sp.Lon,
			Lat:    sp.Lat,
			X:      sp.X,
			Y:      sp.Y,
			Size:   sp.Size,
			Color:  sp.Color,
			Marker: model.Marker(sp.Marker),
			Alpha:  sp.Alpha,
		}
	}
	return f, nil
}

// DeleteRun removes a run with its notes, frames and sprites.
func (s *Store) DeleteRun(id string) error {
	if _, err := s.Run(id); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		frames := tx.Model(&Frame{}).Select("id").Where("run_id = ?", id)
		if err := tx.Where("frame_id IN (?)", frames).Delete(&Sprite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&Frame{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&Note{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Run{}).Error
	})
}
