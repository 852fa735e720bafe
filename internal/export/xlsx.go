package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"energy-dataset/internal/model"
)

// SheetName is the worksheet intervals are written to.
const SheetName = "intervals"

// WriteXLSX writes a single-sheet workbook with the Header row on top.
// Timestamps are text cells, values are numeric cells.
func WriteXLSX(w io.Writer, intervals []model.Interval) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := Header()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &cells); err != nil {
		return err
	}

	for i, iv := range intervals {
		times, values := record(i, iv)
		row := make([]any, 0, len(times)+len(values))
		for _, t := range times {
			row = append(row, t)
		}
		for _, v := range values {
			row = append(row, v)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
