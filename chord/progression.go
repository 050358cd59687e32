package chord

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/jsphweid/supernovae/model"
	"gopkg.in/yaml.v3"
)

//go:embed champagne.yaml
var champagne []byte

// Step is either a chord held for some beats, or a repeat of another section.
type Step struct {
	Chord   string `yaml:"chord,omitempty"`
	Beats   int    `yaml:"beats,omitempty"`
	Section string `yaml:"section,omitempty"`
	Times   int    `yaml:"times,omitempty"`
}

type Song struct {
	Name     string                 `yaml:"name"`
	Chords   map[string]model.Chord `yaml:"chords"`
	Sections map[string][]Step      `yaml:"sections"`
	Order    []string               `yaml:"order"`
}

func Default() (model.Progression, error) {
	return ParseProgression(champagne)
}

// LoadProgression reads a song file, or the embedded default when path is empty.
func LoadProgression(path string) (model.Progression, error) {
	if path == "" {
		return Default()
	}
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading progression '%s': %w", path, err)
	}
	return ParseProgression(dat)
}

func ParseProgression(dat []byte) (model.Progression, error) {
	var song Song
	if err := yaml.Unmarshal(dat, &song); err != nil {
		return nil, fmt.Errorf("error parsing progression: %w", err)
	}
	return song.Flatten()
}

// Flatten expands the song into one chord per beat.
func (s Song) Flatten() (model.Progression, error) {
	for name, c := range s.Chords {
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("chord '%s': %w", name, err)
		}
	}
	var res model.Progression
	for _, name := range s.Order {
		beats, err := s.expand(name, map[string]bool{})
		if err != nil {
			return nil, err
		}
		res = append(res, beats...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("progression '%s' has no beats", s.Name)
	}
	return res, nil
}

func (s Song) expand(section string, visiting map[string]bool) (model.Progression, error) {
	steps, ok := s.Sections[section]
	if !ok {
		return nil, fmt.Errorf("unknown section '%s'", section)
	}
	if visiting[section] {
		return nil, fmt.Errorf("section '%s' repeats itself", section)
	}
	visiting[section] = true
	defer delete(visiting, section)

	var res model.Progression
	for _, step := range steps {
		if step.Section != "" {
			times := step.Times
			if times == 0 {
				times = 1
			}
			inner, err := s.expand(step.Section, visiting)
			if err != nil {
				return nil, err
			}
			for i := 0; i < times; i++ {
				res = append(res, inner...)
			}
			continue
		}
		c, ok := s.Chords[step.Chord]
		if !ok {
			return nil, fmt.Errorf("section '%s' uses unknown chord '%s'", section, step.Chord)
		}
		if step.Beats < 1 {
			return nil, fmt.Errorf("section '%s' holds chord '%s' for %d beats", section, step.Chord, step.Beats)
		}
		for i := 0; i < step.Beats; i++ {
			res = append(res, c)
		}
	}
	return res, nil
}
