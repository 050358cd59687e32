// Package catalog loads the cleaned supernova table. Rows are
// date,mmax,l,b,type with dates as yyyy/mm/dd (or yyyy-mm-dd) and sky
// angles in radians. The table must already be sorted by date.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jsphweid/supernovae/model"
)

var columns = []string{"date", "mmax", "l", "b", "type"}

var dateLayouts = []string{"2006/01/02", "2006-01-02", "2006/1/2"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date '%s'", s)
}

func LoadFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening catalog '%s': %w", path, err)
	}
	defer f.Close()
	events, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog '%s': %w", path, err)
	}
	return events, nil
}

func Load(r io.Reader) ([]model.Event, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column '%s'", c)
		}
	}

	events := []model.Event{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if n := len(events); n > 0 && e.Date.Before(events[n-1].Date) {
			return nil, fmt.Errorf("line %d: %s is earlier than the previous row: %w",
				line, e.Date.Format("2006-01-02"), model.ErrConsistency)
		}
		events = append(events, e)
	}
	return events, nil
}

func parseRow(row []string, index map[string]int) (model.Event, error) {
	var e model.Event
	var err error
	if e.Date, err = parseDate(row[index["date"]]); err != nil {
		return e, err
	}
	floats := []struct {
		column string
		dst    *float64
	}{
		{"mmax", &e.Brightness},
		{"l", &e.Lon},
		{"b", &e.Lat},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[index[f.column]]), 64)
		if err != nil {
			return e, fmt.Errorf("bad %s: %w", f.column, err)
		}
		*f.dst = v
	}
	e.Type = model.Classify(strings.TrimSpace(row[index["type"]]))
	return e, nil
}

// Window keeps the events with date0 <= t <= datef.
func Window(events []model.Event, date0, datef time.Time) []model.Event {
	res := []model.Event{}
	for _, e := range events {
		if e.Date.Before(date0) || e.Date.After(datef) {
			continue
		}
		res = append(res, e)
	}
	return res
}

func Brightness(events []model.Event) []float64 {
	res := make([]float64, len(events))
	for i, e := range events {
		res[i] = e.Brightness
	}
	return res
}

// Span is the first and last discovery date; both are zero for an empty catalog.
func Span(events []model.Event) (time.Time, time.Time) {
	if len(events) == 0 {
		return time.Time{}, time.Time{}
	}
	return events[0].Date, events[len(events)-1].Date
}
