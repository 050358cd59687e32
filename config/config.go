package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jsphweid/supernovae/model"
)

// DateLayout is the layout of Start and End.
const DateLayout = "2006-01-02"

// MinYear is the earliest start the catalog supports.
const MinYear = 1900

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return model.ErrConfiguration }

// Config is read from SUPERNOVAE_* variables; command line flags override it.
type Config struct {
	Catalog     string `default:"data/supernovae.csv"`
	Progression string // empty: the embedded song
	OutDir      string `split_words:"true" default:"out"`
	Database    string // empty: <OutDir>/supernovae.db
	Addr        string `default:":8080"`
	LogLevel    string `split_words:"true" default:"info"`

	SubBeats    int     `split_words:"true" default:"4"`
	Tempo       float64 `default:"74.80"`
	MaxDuration float64 `split_words:"true" default:"2"`

	Start string `default:"1950-01-01"`
	End   string // empty: the last discovery

	// empty: population extrema
	MinNstd string `split_words:"true"`
	MaxNstd string `split_words:"true"`

	BaseOctave  int `split_words:"true" default:"2"`
	OctaveRange int `split_words:"true" default:"7"`
	StartOctave int `split_words:"true" default:"4"`

	ConstantAttack bool `split_words:"true" default:"true"`
	Velocity       int  `default:"127"`

	MinSize  float64 `split_words:"true" default:"4.0"`
	MinAlpha float64 `split_words:"true" default:"0.1"`
	MaxAlpha float64 `split_words:"true" default:"1.0"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("supernovae", &cfg); err != nil {
		return cfg, fmt.Errorf("%v: %w", err, model.ErrConfiguration)
	}
	return cfg, nil
}

func (c Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.OutDir, "supernovae.db")
}

func parseBound(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("'%s' is not a number", s)}
	}
	return &v, nil
}

// NstdBounds returns the brightness bound overrides; nil means infer from the population.
func (c Config) NstdBounds() (*float64, *float64, error) {
	lo, err := parseBound("min nstd", c.MinNstd)
	if err != nil {
		return nil, nil, err
	}
	hi, err := parseBound("max nstd", c.MaxNstd)
	if err != nil {
		return nil, nil, err
	}
	if lo != nil && hi != nil && *lo >= *hi {
		return nil, nil, &ValidationError{Field: "min nstd", Reason: fmt.Sprintf("%v is not below max nstd %v", *lo, *hi)}
	}
	return lo, hi, nil
}

func (c Config) Validate() error {
	switch {
	case c.SubBeats < 1:
		return &ValidationError{Field: "sub beats", Reason: "must be at least 1"}
	case c.Tempo <= 0:
		return &ValidationError{Field: "tempo", Reason: "must be positive"}
	case c.MaxDuration < 1/float64(c.SubBeats):
		return &ValidationError{Field: "max duration", Reason: fmt.Sprintf("must be at least one sub beat (%v)", 1/float64(c.SubBeats))}
	case c.OctaveRange < 1:
		return &ValidationError{Field: "octave range", Reason: "must be at least 1"}
	case c.BaseOctave < -1 || c.BaseOctave+c.OctaveRange > 10:
		return &ValidationError{Field: "octave range", Reason: fmt.Sprintf("octaves %d to %d leave the midi range", c.BaseOctave, c.BaseOctave+c.OctaveRange-1)}
	case c.Velocity < 1 || c.Velocity > 127:
		return &ValidationError{Field: "velocity", Reason: "must be within 1..127"}
	case c.MinSize <= 0:
		return &ValidationError{Field: "min size", Reason: "must be positive"}
	case c.MaxAlpha <= 0 || c.MaxAlpha > 1:
		return &ValidationError{Field: "max alpha", Reason: "must be within (0, 1]"}
	case c.MinAlpha < 0 || c.MinAlpha >= c.MaxAlpha:
		return &ValidationError{Field: "min alpha", Reason: "must be within [0, max alpha)"}
	}
	if _, _, err := c.NstdBounds(); err != nil {
		return err
	}
	if c.Start != "" {
		if _, err := parseDate("start", c.Start); err != nil {
			return err
		}
	}
	if c.End != "" {
		if _, err := parseDate("end", c.End); err != nil {
			return err
		}
	}
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return t, &ValidationError{Field: field, Reason: fmt.Sprintf("'%s' is not yyyy-mm-dd", s)}
	}
	return t, nil
}

// Window resolves [date0, datef] against the catalog's first and last discovery.
func (c Config) Window(first, last time.Time) (time.Time, time.Time, error) {
	date0, datef := first, last
	var err error
	if c.Start != "" {
		if date0, err = parseDate("start", c.Start); err != nil {
			return date0, datef, err
		}
	}
	if c.End != "" {
		if datef, err = parseDate("end", c.End); err != nil {
			return date0, datef, err
		}
	}
	if date0.Year() < MinYear {
		return date0, datef, &ValidationError{Field: "start", Reason: fmt.Sprintf("%s is before %d", date0.Format(DateLayout), MinYear)}
	}
	if !datef.After(date0) {
		return date0, datef, &ValidationError{Field: "end", Reason: fmt.Sprintf("%s is not after start %s", datef.Format(DateLayout), date0.Format(DateLayout))}
	}
	return date0, datef, nil
}

func (c Config) FixedVelocity() *uint8 {
	if !c.ConstantAttack {
		return nil
	}
	v := uint8(c.Velocity)
	return &v
}
