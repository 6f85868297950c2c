// Package export renders tabular data and documents as downloadable files.
package export

import (
	"errors"
	"fmt"
	"strings"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts the format names used in export URLs.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// File is a rendered export ready to be written to a response.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func newFile(base string, format Format, data []byte) File {
	return File{
		Name:        base + "." + string(format),
		ContentType: format.ContentType(),
		Data:        data,
	}
}
