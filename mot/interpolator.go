package mot

import (
	"context"
	"runtime"
	"sort"

	"github.com/LdDl/mot-cleaner/config"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// InterpolateStats sums up what gap filling did
type InterpolateStats struct {
	Tracks       int
	FilledTracks int
	Synthesized  int
}

// Interpolator fills temporal gaps of every track: each frame missing between first and last
// detection of a track gets a synthesized detection.
type Interpolator struct {
	// Frame rate used to derive timestamps of synthesized detections
	fps int
	// Strategy for boxes of synthesized detections
	mode config.FillMode
	// Max number of tracks processed concurrently
	workers int
}

// NewDefaultInterpolator creates a default instance of Interpolator.
// Default values: fps=30, mode=forward, workers=number of CPUs
func NewDefaultInterpolator() *Interpolator {
	return NewInterpolator(config.DefaultFPS, config.DefaultFillMode, runtime.NumCPU())
}

// NewInterpolator creates a new instance of Interpolator with specified parameters.
func NewInterpolator(fps int, mode config.FillMode, workers int) *Interpolator {
	if workers <= 0 {
		workers = 1
	}
	return &Interpolator{
		fps:     fps,
		mode:    mode,
		workers: workers,
	}
}

// Interpolate returns new table with gaps of every track filled.
// Tracks are filled independently; the result is ordered by frame (ties keep track order) and reindexed from 1.
func (ip *Interpolator) Interpolate(ctx context.Context, table *Table) (*Table, InterpolateStats, error) {
	tracks := GroupTracks(table)
	stats := InterpolateStats{
		Tracks: len(tracks),
	}

	filled := make([][]Detection, len(tracks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ip.workers)
	for i := range tracks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := ip.FillTrack(tracks[i])
			if err != nil {
				return errors.Wrapf(err, "Can't fill track %d", tracks[i].TrackingID)
			}
			filled[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	total := 0
	for i := range filled {
		total += len(filled[i])
		if added := len(filled[i]) - tracks[i].Len(); added > 0 {
			stats.FilledTracks++
			stats.Synthesized += added
		}
	}
	rows := make([]Detection, 0, total)
	for i := range filled {
		rows = append(rows, filled[i]...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Frame < rows[j].Frame
	})
	for i := range rows {
		rows[i].Index = i + 1
	}
	return NewTable(rows, table.HasSourceVideo), stats, nil
}

// FillTrack returns detections of the track with every missing frame filled, ordered by frame.
// Track without gaps is returned as is.
func (ip *Interpolator) FillTrack(track Track) ([]Detection, error) {
	if len(track.MissingFrames()) == 0 {
		rows := make([]Detection, len(track.Detections))
		copy(rows, track.Detections)
		return rows, nil
	}
	switch ip.mode {
	case config.FillKalman:
		return ip.kalmanFill(track)
	default:
		return ip.forwardFill(track), nil
	}
}

// forwardFill copies the most recent observed detection into every missing frame
func (ip *Interpolator) forwardFill(track Track) []Detection {
	rows := make([]Detection, 0, len(track.Detections))
	for i := range track.Detections {
		if i > 0 {
			prev := &track.Detections[i-1]
			for frame := prev.Frame + 1; frame < track.Detections[i].Frame; frame++ {
				rows = append(rows, ip.synthesize(prev, frame, prev.BBox))
			}
		}
		rows = append(rows, track.Detections[i])
	}
	return rows
}

// synthesize builds detection for missing frame from the preceding observed one.
// Only frame, timestamp and (for non-forward modes) box differ from the source.
func (ip *Interpolator) synthesize(source *Detection, frame int, box BBox) Detection {
	det := *source
	det.Frame = frame
	det.Timestamp = FrameTimestamp(VideoStart(source, ip.fps), frame, ip.fps)
	det.BBox = box
	det.Interpolated = true
	return det
}
