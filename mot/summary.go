package mot

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// TrackLengthStats describes distribution of track lengths (in detections)
type TrackLengthStats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// NewTrackLengthStats computes length statistics over the tracks of the table
func NewTrackLengthStats(table *Table) TrackLengthStats {
	tracks := GroupTracks(table)
	if len(tracks) == 0 {
		return TrackLengthStats{}
	}
	lengths := make([]float64, len(tracks))
	for i := range tracks {
		lengths[i] = float64(tracks[i].Len())
	}
	slices.Sort(lengths)
	res := TrackLengthStats{
		Count:  len(lengths),
		Min:    lengths[0],
		Max:    lengths[len(lengths)-1],
		Mean:   stat.Mean(lengths, nil),
		Median: stat.Quantile(0.5, stat.Empirical, lengths, nil),
	}
	// Sample deviation is undefined for a single track
	if len(lengths) > 1 {
		res.StdDev = stat.StdDev(lengths, nil)
	}
	return res
}

func (s TrackLengthStats) String() string {
	return fmt.Sprintf("tracks=%d min=%.0f max=%.0f mean=%.2f median=%.1f stddev=%.2f", s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
}

// Summary is the report of a single pipeline run
type Summary struct {
	InputRows   int
	OutputRows  int
	Reconcile   ReconcileStats
	Interpolate InterpolateStats
	// Track lengths before reconciliation and after interpolation
	Before TrackLengthStats
	After  TrackLengthStats
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"rows: %d -> %d (+%d interpolated); windows: %d (%d empty); merges: proposed=%d applied=%d rejected=%d redundant=%d; before: [%s]; after: [%s]",
		s.InputRows, s.OutputRows, s.Interpolate.Synthesized,
		s.Reconcile.Windows, s.Reconcile.EmptyWindows,
		s.Reconcile.Proposed, s.Reconcile.Applied, s.Reconcile.Rejected, s.Reconcile.Redundant,
		s.Before, s.After,
	)
}
