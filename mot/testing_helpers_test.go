package mot

import (
	"os"
	"testing"
	"time"

	"github.com/LdDl/mot-cleaner/internal/monitoring"
)

const (
	eps = 0.00001
)

// Start of the video every test detection belongs to
var testVideoStart = time.Date(2020, 10, 2, 19, 17, 40, 0, time.UTC)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// newDetection builds detection of the test video at 30 fps
func newDetection(trackingID, frame int, box BBox) Detection {
	return Detection{
		SourceVideo: "Store_10.50.60.47_2_20201002191740_20201002191804_1602193437830.mp4",
		StoreID:     "10.50.60.47",
		CameraID:    2,
		TrackingID:  trackingID,
		Frame:       frame,
		Timestamp:   FrameTimestamp(testVideoStart, frame, 30),
		Confidence:  0.9,
		BBox:        box,
	}
}

// trackFrames returns frames of every track keyed by tracking ID
func trackFrames(table *Table) map[int][]int {
	res := make(map[int][]int)
	for _, track := range GroupTracks(table) {
		frames := make([]int, len(track.Detections))
		for i := range track.Detections {
			frames[i] = track.Detections[i].Frame
		}
		res[track.TrackingID] = frames
	}
	return res
}
