package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is a single worksheet with a styled header row.
type Sheet struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]interface{}
}

func Excel(baseName string, sheet Sheet) (File, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	index, err := f.NewSheet(name)
	if err != nil {
		return File{}, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if name != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return File{}, fmt.Errorf("delete default sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return File{}, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if sheet.Title != "" {
		if err := f.SetCellValue(name, "A1", sheet.Title); err != nil {
			return File{}, err
		}
		row = 3
	}

	for col, header := range sheet.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return File{}, err
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return File{}, err
		}
	}
	if len(sheet.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(sheet.Headers), row)
		if err := f.SetCellStyle(name, first, last, headerStyle); err != nil {
			return File{}, err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(sheet.Headers))
		if err := f.SetColWidth(name, "A", lastCol, 18); err != nil {
			return File{}, err
		}
	}

	for i, values := range sheet.Rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1+i)
			if err != nil {
				return File{}, err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return File{}, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return File{}, fmt.Errorf("write xlsx: %w", err)
	}
	return newFile(baseName, FormatExcel, buf.Bytes()), nil
}
