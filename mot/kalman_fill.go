package mot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// boxFilter follows a single track with 8-D Kalman filter for full bounding box dynamics.
// State vector: [cx, cy, w, h, vx, vy, vw, vh] - center position, size, and velocities.
// One step of the filter is one frame.
type boxFilter struct {
	tracker *kalman_filter.KalmanBBox
}

func newBoxFilter(initial BBox) *boxFilter {
	rect := initial.Rect()
	center := rect.Center()

	// Kalman filter props
	// No control input: the object is expected to keep its own velocity through the gap
	uCx := 0.0
	uCy := 0.0
	uW := 0.0
	uH := 0.0
	stdDevA := 2.0
	stdDevMCx := 0.1
	stdDevMCy := 0.1
	stdDevMW := 0.1
	stdDevMH := 0.1
	dt := 1.0
	kf := kalman_filter.NewKalmanBBox(
		dt, uCx, uCy, uW, uH,
		stdDevA, stdDevMCx, stdDevMCy, stdDevMW, stdDevMH,
		kalman_filter.WithStateBBox(center.X, center.Y, rect.Width, rect.Height),
	)
	return &boxFilter{
		tracker: kf,
	}
}

// predict executes Kalman filter prediction step and returns predicted box
func (bf *boxFilter) predict() Rectangle {
	bf.tracker.Predict()
	cx, cy, w, h := bf.tracker.GetState()
	return NewRectFromCenter(cx, cy, w, h)
}

// update executes Kalman filter update step with observed box
func (bf *boxFilter) update(observed BBox) error {
	rect := observed.Rect()
	center := rect.Center()
	err := bf.tracker.Update(center.X, center.Y, rect.Width, rect.Height)
	if err != nil {
		return errors.Wrap(err, "Can't update box filter")
	}
	return nil
}

// kalmanFill fills gaps of the track with boxes predicted by Kalman filter.
// Every attribute but the box is still forward filled from the last observed detection.
func (ip *Interpolator) kalmanFill(track Track) ([]Detection, error) {
	rows := make([]Detection, 0, len(track.Detections))
	if len(track.Detections) == 0 {
		return rows, nil
	}
	first := track.Detections[0]
	bf := newBoxFilter(first.BBox)
	rows = append(rows, first)
	for i := 1; i < len(track.Detections); i++ {
		prev := &track.Detections[i-1]
		current := track.Detections[i]
		for frame := prev.Frame + 1; frame < current.Frame; frame++ {
			predicted := bf.predict()
			rows = append(rows, ip.synthesize(prev, frame, predicted.BBox()))
		}
		if current.Frame != prev.Frame {
			bf.predict()
		}
		err := bf.update(current.BBox)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", current.Frame)
		}
		rows = append(rows, current)
	}
	return rows, nil
}
