// Package alloc decides how many notes a bin of simultaneous events gets.
//
//	1st note = event  #1      (1 event)
//	2nd note = events #2-3    (2 events)
//	3rd note = events #4-7    (4 events)
//	4th note = events #8-15   (8 events)
//
// The last note takes every remaining event, so nothing is dropped.
package alloc

import (
	"sort"

	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/util"
)

// NotesNeeded is the smallest k with 2^k - 1 >= n.
func NotesNeeded(n int) int {
	k := 0
	for capacity := 0; capacity < n; capacity = capacity*2 + 1 {
		k++
	}
	return k
}

// groupStart is the index of the first event represented by note j.
func groupStart(j int) int {
	return (1 << j) - 1
}

// GroupForNote slices the brightness sorted members for note j of total.
func GroupForNote(sorted []model.EventIndex, j, total int) []model.EventIndex {
	start := groupStart(j)
	end := groupStart(j + 1)
	if j == total-1 || end > len(sorted) {
		end = len(sorted)
	}
	if start > end {
		start = end
	}
	return sorted[start:end]
}

type Group struct {
	Members []model.EventIndex
	// Brightness is the mean over Members.
	Brightness float64
}

// ByBrightness orders members brightest (lowest value) first; ties keep catalog order.
func ByBrightness(events []model.Event, members []model.EventIndex) []model.EventIndex {
	sorted := append([]model.EventIndex(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return events[sorted[i]].Brightness < events[sorted[j]].Brightness
	})
	return sorted
}

func Allocate(events []model.Event, members []model.EventIndex) []Group {
	total := NotesNeeded(len(members))
	sorted := ByBrightness(events, members)
	groups := make([]Group, 0, total)
	for j := 0; j < total; j++ {
		idx := GroupForNote(sorted, j, total)
		values := make([]float64, len(idx))
		for k, e := range idx {
			values[k] = events[e].Brightness
		}
		groups = append(groups, Group{Members: idx, Brightness: util.Mean(values)})
	}
	return groups
}
