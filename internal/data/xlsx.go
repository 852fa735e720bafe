package data

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads one sheet of a workbook. An empty sheet name selects the
// first sheet. The first row of the sheet is the header.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoHeader)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	t, err := newTable(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return t, nil
}
