package timebin

import (
	"fmt"
	"math"
	"time"

	"github.com/jsphweid/supernovae/model"
)

const Day = 24 * time.Hour

// a bin count within this many bins of an integer is treated as that integer
const countTolerance = 1e-9

type BinCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *BinCountMismatchError) Error() string {
	return fmt.Sprintf("number of time bins (%d) differs from the number of expected frames (%d)", e.Actual, e.Expected)
}

func (e *BinCountMismatchError) Unwrap() error { return model.ErrConsistency }

// Bins partitions [Date0, DateF] into equal width intervals. Bin i holds the
// events with Date0+i*Width <= t < Date0+(i+1)*Width; the final bin also holds t == DateF.
type Bins struct {
	Date0   time.Time
	DateF   time.Time
	Width   float64 // days
	Edges   []time.Time
	Members [][]model.EventIndex
}

// Days is the fractional number of days from a to b.
func Days(a, b time.Time) float64 {
	return float64(b.Sub(a)) / float64(Day)
}

func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(math.Round(days * float64(Day))))
}

// Bin groups time sorted events into width-day bins starting at date0.
// The realized bin count must equal expected.
func Bin(events []model.Event, date0, datef time.Time, width float64, expected int) (*Bins, error) {
	span := Days(date0, datef)
	if width <= 0 || span <= 0 {
		return nil, &BinCountMismatchError{Expected: expected, Actual: 0}
	}
	n := int(math.Floor(span/width + countTolerance))
	if n != expected {
		return nil, &BinCountMismatchError{Expected: expected, Actual: n}
	}

	b := &Bins{
		Date0:   date0,
		DateF:   datef,
		Width:   width,
		Edges:   make([]time.Time, n+1),
		Members: make([][]model.EventIndex, n),
	}
	for i := 0; i < n; i++ {
		b.Edges[i] = addDays(date0, float64(i)*width)
	}
	b.Edges[n] = addDays(date0, float64(n)*width)
	if math.Abs(float64(n)*width-span) <= countTolerance*span {
		b.Edges[n] = datef
	}

	// single pass: both events and edges are sorted
	j := 0
	for i := 0; i < n; i++ {
		left, right := b.Edges[i], b.Edges[i+1]
		isLast := i == n-1
		members := []model.EventIndex{}
		for j < len(events) {
			t := events[j].Date
			if t.After(right) || (t.Equal(right) && !isLast) {
				break
			}
			if !t.Before(left) {
				members = append(members, j)
			}
			j++
		}
		b.Members[i] = members
	}
	return b, nil
}

func (b *Bins) Count() int { return len(b.Members) }

// Elapsed is the number of days from Date0 to the left edge of bin i.
func (b *Bins) Elapsed(i int) float64 {
	return float64(i) * b.Width
}

func (b *Bins) Center(i int) time.Time {
	return b.Edges[i].Add(b.Edges[i+1].Sub(b.Edges[i]) / 2)
}

func (b *Bins) Span() float64 {
	return Days(b.Date0, b.DateF)
}

func (b *Bins) MaxMembers() int {
	max := 0
	for _, m := range b.Members {
		if len(m) > max {
			max = len(m)
		}
	}
	return max
}
