package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/LdDl/mot-cleaner/mot"
	"github.com/pkg/errors"
)

var (
	// ErrMissingColumn is returned when input has no column required by mot.Schema
	ErrMissingColumn = errors.New("missing required column")
)

// Columns which may be left blank when source_video carries them in its name
var videoDerived = map[string]struct{}{
	mot.ColumnStoreID:  {},
	mot.ColumnCameraID: {},
}

// ReadFile loads detection table from CSV file
func ReadFile(path string) (*mot.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open input")
	}
	defer file.Close()
	table, err := Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read '%s'", path)
	}
	return table, nil
}

// Read parses CSV with header row into detection table.
// Every required column of mot.Schema must be present; unknown columns are ignored.
func Read(r io.Reader) (*mot.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "Can't read header")
	}
	columnIdx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		columnIdx[name] = i
	}
	for _, col := range mot.Schema {
		if _, ok := columnIdx[col.Name]; col.Required && !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "'%s'", col.Name)
		}
	}
	_, hasSourceVideo := columnIdx[mot.ColumnSourceVideo]

	rows := make([]mot.Detection, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "Can't read record")
		}
		line++
		det, err := parseRecord(record, columnIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, det)
	}
	return mot.NewTable(rows, hasSourceVideo), nil
}

func parseRecord(record []string, columnIdx map[string]int) (mot.Detection, error) {
	det := mot.Detection{}
	blank := make([]string, 0)
	for _, col := range mot.Schema {
		idx, ok := columnIdx[col.Name]
		if !ok {
			continue
		}
		value := record[idx]
		if _, derived := videoDerived[col.Name]; derived && strings.TrimSpace(value) == "" {
			blank = append(blank, col.Name)
			continue
		}
		err := parseCell(&det, col, value)
		if err != nil {
			return det, errors.Wrapf(err, "column '%s'", col.Name)
		}
	}
	if len(blank) > 0 {
		if det.SourceVideo == "" {
			return det, errors.Errorf("column '%s' is empty and there is no source_video to derive it from", blank[0])
		}
		info, err := mot.ParseVideoName(det.SourceVideo)
		if err != nil {
			return det, errors.Wrapf(err, "column '%s' is empty", blank[0])
		}
		for _, name := range blank {
			switch name {
			case mot.ColumnStoreID:
				det.StoreID = info.StoreID
			case mot.ColumnCameraID:
				det.CameraID = info.CameraID
			}
		}
	}
	if det.Frame < 0 {
		return det, errors.Errorf("negative frame %d", det.Frame)
	}
	return det, nil
}
