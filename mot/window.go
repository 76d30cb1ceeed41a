package mot

import (
	"iter"
	"sort"
	"time"
)

// Window is a half-open time slice [Start, End) of the detection table.
// Positions refer to rows of the table the window was cut from, so the window always observes
// current (possibly already relabeled) tracking IDs.
type Window struct {
	Start     time.Time
	End       time.Time
	Positions []int
}

// Empty returns true when no detections fall into the window
func (w Window) Empty() bool {
	return len(w.Positions) == 0
}

// Windows returns lazy sequence of consecutive non-overlapping windows of given duration covering
// the whole timestamp range of the table. Each range over the sequence starts from scratch.
func Windows(table *Table, windowTime time.Duration) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if windowTime <= 0 {
			return
		}
		minTime, maxTime, ok := table.TimeRange()
		if !ok {
			return
		}

		// Row positions ordered by time, ties keep table order
		byTime := make([]int, len(table.Rows))
		for i := range byTime {
			byTime[i] = i
		}
		sort.SliceStable(byTime, func(i, j int) bool {
			return table.Rows[byTime[i]].Timestamp.Before(table.Rows[byTime[j]].Timestamp)
		})

		cursor := 0
		for t := minTime; !t.After(maxTime); t = t.Add(windowTime) {
			end := t.Add(windowTime)
			from := cursor
			for cursor < len(byTime) && table.Rows[byTime[cursor]].Timestamp.Before(end) {
				cursor++
			}
			positions := make([]int, cursor-from)
			copy(positions, byTime[from:cursor])
			if !yield(Window{Start: t, End: end, Positions: positions}) {
				return
			}
		}
	}
}
