package mot

import (
	"sort"
)

// Track is the sequence of detections sharing one tracking ID, ordered by frame
type Track struct {
	TrackingID int
	Detections []Detection
}

// GroupTracks splits table into tracks.
// Tracks are ordered by their first appearance in the frame-ordered table;
// detections inside a track are ordered by frame, ties keep table order.
func GroupTracks(table *Table) []Track {
	byFrame := make([]int, len(table.Rows))
	for i := range byFrame {
		byFrame[i] = i
	}
	sort.SliceStable(byFrame, func(i, j int) bool {
		return table.Rows[byFrame[i]].Frame < table.Rows[byFrame[j]].Frame
	})

	order := make(map[int]int)
	tracks := make([]Track, 0)
	for _, pos := range byFrame {
		det := table.Rows[pos]
		idx, ok := order[det.TrackingID]
		if !ok {
			idx = len(tracks)
			order[det.TrackingID] = idx
			tracks = append(tracks, Track{TrackingID: det.TrackingID})
		}
		tracks[idx].Detections = append(tracks[idx].Detections, det)
	}
	return tracks
}

// Len returns number of detections in track
func (track Track) Len() int {
	return len(track.Detections)
}

// Span returns first and last frame of the track
func (track Track) Span() (start, end int) {
	if len(track.Detections) == 0 {
		return 0, -1
	}
	return track.Detections[0].Frame, track.Detections[len(track.Detections)-1].Frame
}

// MissingFrames returns frames inside track's span without any detection
func (track Track) MissingFrames() []int {
	missing := make([]int, 0)
	for i := 1; i < len(track.Detections); i++ {
		prev := track.Detections[i-1].Frame
		for frame := prev + 1; frame < track.Detections[i].Frame; frame++ {
			missing = append(missing, frame)
		}
	}
	return missing
}

// HasFrameCollision returns true if two detections of the track share a frame
func (track Track) HasFrameCollision() bool {
	for i := 1; i < len(track.Detections); i++ {
		if track.Detections[i].Frame == track.Detections[i-1].Frame {
			return true
		}
	}
	return false
}
