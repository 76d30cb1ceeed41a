package mot

import (
	"math"
)

// Rectangle is floating point box: top-left corner plus size.
// Used where box geometry is estimated rather than observed (e.g. Kalman predictions)
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRectFromCenter creates rectangle from its center and size
func NewRectFromCenter(cx, cy, width, height float64) Rectangle {
	return Rectangle{
		X:      cx - width/2.0,
		Y:      cy - height/2.0,
		Width:  width,
		Height: height,
	}
}

// Center returns rectangle's center
func (rect Rectangle) Center() Point {
	return Point{
		X: rect.X + rect.Width/2.0,
		Y: rect.Y + rect.Height/2.0,
	}
}

// BBox rounds rectangle to pixel grid. Sides are kept at least one pixel long
func (rect Rectangle) BBox() BBox {
	xMin := int(math.Round(rect.X))
	yMin := int(math.Round(rect.Y))
	xMax := int(math.Round(rect.X + rect.Width))
	yMax := int(math.Round(rect.Y + rect.Height))
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= yMin {
		yMax = yMin + 1
	}
	return BBox{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
}

type Point struct {
	X float64
	Y float64
}
