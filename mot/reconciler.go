package mot

import (
	"slices"
	"time"

	"github.com/LdDl/mot-cleaner/config"
)

// Merge is a proposal to relabel every detection of Donor with Canonical tracking ID
type Merge struct {
	Donor     int
	Canonical int
}

// ReconcileStats sums up what reconciliation did
type ReconcileStats struct {
	Windows      int
	EmptyWindows int
	Proposed     int
	Applied      int
	Rejected     int
	// Redundant counts proposals which became no-ops after earlier merges of the same window
	Redundant int
}

// Reconciler fixes identity fragmentation: it merges tracking IDs of detections overlapping each other within a time window.
// Reconciler owns the table it was created with: it is the only writer of tracking IDs until Reconcile returns.
type Reconciler struct {
	table *Table
	// Duration of a single window
	windowTime time.Duration
	// IoU threshold. Detections with IoU strictly greater than it are grouped together
	maxOverlap float64
	// Row positions of each live tracking ID
	positions map[int][]int
}

// NewDefaultReconciler creates a default instance of Reconciler.
// Default values: windowTime=10s, maxOverlap=0.7
func NewDefaultReconciler(table *Table) *Reconciler {
	return NewReconciler(table, config.DefaultWindowTime, config.DefaultMaxOverlap)
}

// NewReconciler creates a new instance of Reconciler with specified parameters.
func NewReconciler(table *Table, windowTime time.Duration, maxOverlap float64) *Reconciler {
	positions := make(map[int][]int)
	for i := range table.Rows {
		id := table.Rows[i].TrackingID
		positions[id] = append(positions[id], i)
	}
	return &Reconciler{
		table:      table,
		windowTime: windowTime,
		maxOverlap: maxOverlap,
		positions:  positions,
	}
}

// Table returns the table being reconciled
func (rc *Reconciler) Table() *Table {
	return rc.table
}

// Reconcile processes windows one after another. Merges accepted in a window are applied to the whole
// table before the next window is evaluated, so later windows always see the live tracking IDs.
func (rc *Reconciler) Reconcile() ReconcileStats {
	stats := ReconcileStats{}
	for window := range Windows(rc.table, rc.windowTime) {
		stats.Windows++
		if window.Empty() {
			stats.EmptyWindows++
			continue
		}
		merges := rc.ProposeMerges(window)
		stats.Proposed += len(merges)

		// IDs merged away in this window, donor -> canonical
		aliases := make(map[int]int)
		for _, merge := range merges {
			donor := resolveAlias(aliases, merge.Donor)
			canonical := resolveAlias(aliases, merge.Canonical)
			if donor == canonical {
				stats.Redundant++
				continue
			}
			// Smallest identifier always survives
			if donor < canonical {
				donor, canonical = canonical, donor
			}
			if !rc.ApplyMerge(donor, canonical) {
				stats.Rejected++
				continue
			}
			aliases[donor] = canonical
			stats.Applied++
		}
	}
	return stats
}

// ProposeMerges greedily groups detections of the window by overlap.
// The reference of each group is the remaining detection with the smallest tracking ID; every other ID
// overlapping it is proposed to be merged into the smallest ID of the group. Table is not modified.
func (rc *Reconciler) ProposeMerges(window Window) []Merge {
	if window.Empty() {
		return nil
	}
	rows := rc.table.Rows

	pq := make(idHeap, 0, len(window.Positions))
	for _, pos := range window.Positions {
		pq = append(pq, idEntry{
			position:   pos,
			trackingID: rows[pos].TrackingID,
			frame:      rows[pos].Frame,
		})
	}
	pq.Init()

	processed := make(map[int]struct{}, len(window.Positions))
	merges := make([]Merge, 0)
	seen := make(map[Merge]struct{})
	for pq.Len() > 0 {
		ref := pq.Pop()
		// Already consumed by a previous group
		if _, ok := processed[ref.position]; ok {
			continue
		}
		reference := &rows[ref.position]

		group := make([]int, 0)
		for _, pos := range window.Positions {
			if _, ok := processed[pos]; ok {
				continue
			}
			if DetectionIoU(reference, &rows[pos]) > rc.maxOverlap {
				group = append(group, pos)
			}
		}
		// Reference is consumed even when it does not pass threshold against itself (maxOverlap = 1 or degenerate box)
		processed[ref.position] = struct{}{}
		if len(group) == 0 {
			continue
		}

		ids := make([]int, 0, len(group))
		for _, pos := range group {
			processed[pos] = struct{}{}
			ids = append(ids, rows[pos].TrackingID)
		}
		slices.Sort(ids)
		ids = slices.Compact(ids)
		canonical := ids[0]
		for _, id := range ids[1:] {
			merge := Merge{Donor: id, Canonical: canonical}
			if _, ok := seen[merge]; ok {
				continue
			}
			seen[merge] = struct{}{}
			merges = append(merges, merge)
		}
	}
	return merges
}

// ApplyMerge relabels every detection of donor with canonical tracking ID.
// The merge is rejected (and table is left untouched) when the merged track would have two detections in the same frame.
// Returns true if merge has been applied.
func (rc *Reconciler) ApplyMerge(donor, canonical int) bool {
	if donor == canonical {
		return false
	}
	donorRows, ok := rc.positions[donor]
	if !ok || len(donorRows) == 0 {
		return false
	}
	canonicalRows, ok := rc.positions[canonical]
	if !ok || len(canonicalRows) == 0 {
		return false
	}

	frames := make(map[int]struct{}, len(donorRows)+len(canonicalRows))
	for _, group := range [][]int{canonicalRows, donorRows} {
		for _, pos := range group {
			frame := rc.table.Rows[pos].Frame
			if _, ok := frames[frame]; ok {
				return false
			}
			frames[frame] = struct{}{}
		}
	}

	for _, pos := range donorRows {
		rc.table.Rows[pos].TrackingID = canonical
	}
	rc.positions[canonical] = append(canonicalRows, donorRows...)
	delete(rc.positions, donor)
	return true
}

// resolveAlias follows chain of merges made earlier in the same window
func resolveAlias(aliases map[int]int, id int) int {
	for {
		next, ok := aliases[id]
		if !ok {
			return id
		}
		id = next
	}
}
