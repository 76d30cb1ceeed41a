package mot

import (
	"time"
)

// ColumnKind is semantic type of table column
type ColumnKind uint16

const (
	// KindInteger is for whole numbers (ids, frames, pixel coordinates)
	KindInteger ColumnKind = iota
	// KindFloat is for real numbers (confidence)
	KindFloat
	// KindString is for free text (store and video identifiers)
	KindString
	// KindTimestamp is for absolute date/time
	KindTimestamp
)

func (kind ColumnKind) String() string {
	switch kind {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Column describes a single column of the detection table
type Column struct {
	Name     string
	Kind     ColumnKind
	Required bool
}

// Column names
const (
	ColumnSourceVideo = "source_video"
	ColumnStoreID     = "store_id"
	ColumnCameraID    = "camera_id"
	ColumnIndex       = "index"
	ColumnTrackingID  = "tracking_id"
	ColumnFrame       = "frame"
	ColumnTimestamp   = "timestamp"
	ColumnConfidence  = "confidence"
	ColumnXMin        = "x_min"
	ColumnYMin        = "y_min"
	ColumnXMax        = "x_max"
	ColumnYMax        = "y_max"
)

// Schema is the ordered column layout shared by every reader and writer of the detection table.
var Schema = []Column{
	{Name: ColumnSourceVideo, Kind: KindString, Required: false},
	{Name: ColumnStoreID, Kind: KindString, Required: true},
	{Name: ColumnCameraID, Kind: KindInteger, Required: true},
	{Name: ColumnIndex, Kind: KindInteger, Required: true},
	{Name: ColumnTrackingID, Kind: KindInteger, Required: true},
	{Name: ColumnFrame, Kind: KindInteger, Required: true},
	{Name: ColumnTimestamp, Kind: KindTimestamp, Required: true},
	{Name: ColumnConfidence, Kind: KindFloat, Required: true},
	{Name: ColumnXMin, Kind: KindInteger, Required: true},
	{Name: ColumnYMin, Kind: KindInteger, Required: true},
	{Name: ColumnXMax, Kind: KindInteger, Required: true},
	{Name: ColumnYMax, Kind: KindInteger, Required: true},
}

// OutputColumns returns schema columns which should be written for the table.
// The optional source_video column is kept only if the input had it.
func (table *Table) OutputColumns() []Column {
	columns := make([]Column, 0, len(Schema))
	for _, col := range Schema {
		if col.Name == ColumnSourceVideo && !table.HasSourceVideo {
			continue
		}
		columns = append(columns, col)
	}
	return columns
}

// IntColumn returns pointer to integer field backing the column or nil if column is not integer
func (det *Detection) IntColumn(name string) *int {
	switch name {
	case ColumnCameraID:
		return &det.CameraID
	case ColumnIndex:
		return &det.Index
	case ColumnTrackingID:
		return &det.TrackingID
	case ColumnFrame:
		return &det.Frame
	case ColumnXMin:
		return &det.XMin
	case ColumnYMin:
		return &det.YMin
	case ColumnXMax:
		return &det.XMax
	case ColumnYMax:
		return &det.YMax
	}
	return nil
}

// FloatColumn returns pointer to float field backing the column or nil if column is not float
func (det *Detection) FloatColumn(name string) *float64 {
	if name == ColumnConfidence {
		return &det.Confidence
	}
	return nil
}

// StringColumn returns pointer to string field backing the column or nil if column is not string
func (det *Detection) StringColumn(name string) *string {
	switch name {
	case ColumnSourceVideo:
		return &det.SourceVideo
	case ColumnStoreID:
		return &det.StoreID
	}
	return nil
}

// TimeColumn returns pointer to time field backing the column or nil if column is not timestamp
func (det *Detection) TimeColumn(name string) *time.Time {
	if name == ColumnTimestamp {
		return &det.Timestamp
	}
	return nil
}
