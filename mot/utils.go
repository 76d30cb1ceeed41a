package mot

// IoU calculates Intersection over Union between two bounding boxes.
// Zero union (both boxes degenerate) gives 0.0 instead of NaN.
func IoU(b1, b2 BBox) float64 {
	xA := maxInt(b1.XMin, b2.XMin)
	yA := maxInt(b1.YMin, b2.YMin)
	xB := minInt(b1.XMax, b2.XMax)
	yB := minInt(b1.YMax, b2.YMax)

	interArea := maxInt(0, xB-xA) * maxInt(0, yB-yA)
	if interArea == 0 {
		return 0.0
	}

	unionArea := b1.Area() + b2.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}
	return float64(interArea) / float64(unionArea)
}

// DetectionIoU is IoU of two detections with the same-frame exclusion:
// two boxes in the same frame with different tracking IDs are simultaneous distinct objects, so overlap is always 0.0 for them.
func DetectionIoU(d1, d2 *Detection) float64 {
	if d1.Frame == d2.Frame && d1.TrackingID != d2.TrackingID {
		return 0.0
	}
	return IoU(d1.BBox, d2.BBox)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
