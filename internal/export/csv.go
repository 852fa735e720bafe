package export

import (
	"encoding/csv"
	"io"

	"energy-dataset/internal/model"
)

// WriteCSV writes one row per interval below the Header row.
func WriteCSV(w io.Writer, intervals []model.Interval) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for i, iv := range intervals {
		times, values := record(i, iv)
		row := make([]string, 0, len(times)+len(values))
		row = append(row, times...)
		for _, v := range values {
			row = append(row, fmtFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
