package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// CSV marshals rows, a slice of structs with `csv` tags, into a CSV file.
func CSV(baseName string, rows interface{}) (File, error) {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return File{}, fmt.Errorf("marshal csv: %w", err)
	}
	return newFile(baseName, FormatCSV, data), nil
}
