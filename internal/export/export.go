package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"energy-dataset/internal/metrics"
	"energy-dataset/internal/model"
)

// Header is the column layout shared by every export format.
func Header() []string {
	header := []string{
		"index",
		"interval_start_local",
		"interval_end_local",
		"interval_start_utc",
		"interval_end_utc",
	}
	for _, f := range model.EnergyFields {
		header = append(header, string(model.CategoryProduction)+"_"+string(f))
	}
	for _, f := range model.EnergyFields {
		header = append(header, string(model.CategoryPower)+"_"+string(f))
	}
	for _, f := range model.LoadFields {
		header = append(header, string(model.CategoryConsumption)+"_"+string(f))
	}
	return header
}

// record flattens one interval in Header order. Values are returned as
// float64 so that each format can render them natively.
func record(i int, iv model.Interval) ([]string, []float64) {
	times := []string{
		strconv.Itoa(i),
		fmtTime(iv.Start()),
		fmtTime(iv.End()),
		fmtTime(iv.Start().UTC()),
		fmtTime(iv.End().UTC()),
	}
	values := make([]float64, 0, 2*len(model.EnergyFields)+len(model.LoadFields))
	values = append(values, iv.Production.Values()...)
	values = append(values, iv.Power.Values()...)
	values = append(values, iv.Consumption.Load, iv.Consumption.Residual)
	return times, values
}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf derives the export format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", filepath.Ext(path))
	}
}

// WriteFile writes intervals to path in the format given by its extension,
// creating the parent directory.
func WriteFile(path string, intervals []model.Interval) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	started := time.Now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveExport(string(format), result, time.Since(started))
	}()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, format, intervals)
}

// Write renders intervals to w.
func Write(w io.Writer, format Format, intervals []model.Interval) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, intervals)
	case FormatXLSX:
		return WriteXLSX(w, intervals)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
