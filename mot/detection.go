package mot

import (
	"slices"
	"time"
)

// BBox is an axis-aligned bounding box in pixel coordinates.
// Valid boxes satisfy XMin < XMax and YMin < YMax, but degenerate ones are tolerated.
type BBox struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// Area returns box area. Degenerate boxes have zero area
func (box BBox) Area() int {
	w := box.XMax - box.XMin
	h := box.YMax - box.YMin
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Rect converts box into floating point rectangle (top-left corner + size)
func (box BBox) Rect() Rectangle {
	return Rectangle{
		X:      float64(box.XMin),
		Y:      float64(box.YMin),
		Width:  float64(box.XMax - box.XMin),
		Height: float64(box.YMax - box.YMin),
	}
}

// Detection is a single row of tracker output.
// Only TrackingID is changed by reconciliation, Index is recomputed once at the very end.
type Detection struct {
	SourceVideo string
	StoreID     string
	CameraID    int
	Index       int
	TrackingID  int
	Frame       int
	Timestamp   time.Time
	Confidence  float64
	BBox
	// Interpolated marks rows synthesized by gap filling. It is not part of the table schema
	Interpolated bool
}

// Table is the in-memory detection table shared between pipeline stages.
type Table struct {
	Rows []Detection
	// HasSourceVideo is true when the input carried the optional source_video column
	HasSourceVideo bool
}

// NewTable creates table over given rows
func NewTable(rows []Detection, hasSourceVideo bool) *Table {
	return &Table{
		Rows:           rows,
		HasSourceVideo: hasSourceVideo,
	}
}

// Len returns number of rows
func (table *Table) Len() int {
	return len(table.Rows)
}

// Clone returns deep copy of the table
func (table *Table) Clone() *Table {
	rows := make([]Detection, len(table.Rows))
	copy(rows, table.Rows)
	return &Table{
		Rows:           rows,
		HasSourceVideo: table.HasSourceVideo,
	}
}

// TimeRange returns minimum and maximum timestamps. ok is false for empty table
func (table *Table) TimeRange() (minTime, maxTime time.Time, ok bool) {
	if len(table.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minTime = table.Rows[0].Timestamp
	maxTime = table.Rows[0].Timestamp
	for i := 1; i < len(table.Rows); i++ {
		ts := table.Rows[i].Timestamp
		if ts.Before(minTime) {
			minTime = ts
		}
		if ts.After(maxTime) {
			maxTime = ts
		}
	}
	return minTime, maxTime, true
}

// TrackingIDs returns distinct tracking identifiers in ascending order
func (table *Table) TrackingIDs() []int {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for i := range table.Rows {
		id := table.Rows[i].TrackingID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
