package csvio

import (
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/mot-cleaner/mot"
	"github.com/pkg/errors"
)

// TimeLayout is layout of written timestamps. Fractional seconds are printed only when present
const TimeLayout = "2006-01-02 15:04:05.999999999"

// Accepted layouts of timestamp cells, tried in order
var timeLayouts = []string{
	TimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// ParseTime parses timestamp cell
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("can't parse '%s' as date/time", value)
}

// parseCell stores cell value into the detection field backing the column
func parseCell(det *mot.Detection, col mot.Column, value string) error {
	switch col.Kind {
	case mot.KindInteger:
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			// Tracker may print integer columns as floats (e.g. "12.0")
			f, ferr := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if ferr != nil || f != float64(int(f)) {
				return errors.Wrap(err, "integer expected")
			}
			v = int(f)
		}
		*det.IntColumn(col.Name) = v
	case mot.KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return errors.Wrap(err, "float expected")
		}
		*det.FloatColumn(col.Name) = v
	case mot.KindString:
		*det.StringColumn(col.Name) = value
	case mot.KindTimestamp:
		v, err := ParseTime(value)
		if err != nil {
			return err
		}
		*det.TimeColumn(col.Name) = v
	default:
		return errors.Errorf("unsupported column kind %s", col.Kind)
	}
	return nil
}

// formatCell renders the detection field backing the column
func formatCell(det *mot.Detection, col mot.Column) string {
	switch col.Kind {
	case mot.KindInteger:
		return strconv.Itoa(*det.IntColumn(col.Name))
	case mot.KindFloat:
		return strconv.FormatFloat(*det.FloatColumn(col.Name), 'f', -1, 64)
	case mot.KindString:
		return *det.StringColumn(col.Name)
	case mot.KindTimestamp:
		return det.TimeColumn(col.Name).Format(TimeLayout)
	default:
		return ""
	}
}
