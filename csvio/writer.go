package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LdDl/mot-cleaner/mot"
	"github.com/pkg/errors"
)

// DefaultOutputPath returns output path next to the input: "dir/name.csv" -> "dir/name_output.csv"
func DefaultOutputPath(inputPath string) string {
	dir, file := filepath.Split(inputPath)
	ext := filepath.Ext(file)
	return filepath.Join(dir, strings.TrimSuffix(file, ext)+"_output"+ext)
}

// WriteFile saves detection table into CSV file
func WriteFile(path string, table *mot.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "Can't create output")
	}
	err = Write(file, table)
	if err != nil {
		file.Close()
		return errors.Wrapf(err, "Can't write '%s'", path)
	}
	return file.Close()
}

// Write serializes table in mot.Schema column order. Bookkeeping fields outside of the schema are not written
func Write(w io.Writer, table *mot.Table) error {
	writer := csv.NewWriter(w)
	columns := table.OutputColumns()

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	err := writer.Write(header)
	if err != nil {
		return err
	}

	record := make([]string, len(columns))
	for i := range table.Rows {
		for j, col := range columns {
			record[j] = formatCell(&table.Rows[i], col)
		}
		err = writer.Write(record)
		if err != nil {
			return errors.Wrapf(err, "row %d", i+1)
		}
	}
	writer.Flush()
	return writer.Error()
}
