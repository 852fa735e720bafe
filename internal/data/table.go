package data

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"energy-dataset/internal/canon"
)

var (
	ErrUnsupportedFormat = errors.New("data: unsupported file format")
	ErrNoHeader          = errors.New("data: source has no header row")
)

// Table is a tabular source file held in memory: one header row and the
// data records below it.
type Table struct {
	Header  []string
	Records [][]string
}

// Len is the number of data records, header excluded.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Row returns record i keyed by header name. Short records leave the
// missing trailing columns out of the map.
func (t *Table) Row(i int) canon.Row {
	rec := t.Records[i]
	row := make(canon.Row, len(t.Header))
	for c, name := range t.Header {
		if c >= len(rec) {
			break
		}
		row[name] = rec[c]
	}
	return row
}

// Column returns the position of name in the header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func newTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return &Table{Header: header, Records: rows[1:]}, nil
}

// Format is a supported source file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// FormatOf derives the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Open reads path with the reader matching its extension.
func Open(path string) (*Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return ReadXLSX(path, "")
	case FormatJSON:
		return ReadJSON(path)
	default:
		return ReadCSV(path)
	}
}
