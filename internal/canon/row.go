package canon

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"energy-dataset/internal/model"
)

// TimestampColumn holds the interval start as Unix seconds in every provider file.
const TimestampColumn = "unix_seconds"

// Row is one raw source record keyed by header name.
type Row map[string]string

// Float parses column as a float64. Empty cells count as missing.
func (r Row) Float(column string) (float64, error) {
	raw, ok := r[column]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0, fmt.Errorf("%w: %q is empty", ErrMissingColumn, column)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedValue, column, err)
	}
	return v, nil
}

// Start parses the timestamp column and converts it into loc.
func (r Row) Start(loc *time.Location) (time.Time, error) {
	raw, ok := r[TimestampColumn]
	if !ok || strings.TrimSpace(raw) == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMissingColumn, TimestampColumn)
	}
	raw = strings.TrimSpace(raw)
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// some exports write the timestamp as a float ("1456841700.0")
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrMalformedValue, TimestampColumn, err)
		}
		// float64 holds int64 exactly only inside [-2^63, 2^63)
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return time.Time{}, fmt.Errorf("%w: %q: %q out of range", ErrMalformedValue, TimestampColumn, raw)
		}
		sec = int64(f)
	}
	return time.Unix(sec, 0).In(loc), nil
}

// Defect describes a value the canonicalizer could not read.
type Defect struct {
	Provider string
	Column   string
	Err      error
}

func (d Defect) Error() string {
	return fmt.Sprintf("%s: %v", d.Provider, d.Err)
}

func (d Defect) Unwrap() error { return d.Err }

// Reporter receives defects. It must not retain the Row.
type Reporter func(Defect)

// Func turns one raw row into an Interval. It never fails: unreadable values
// stay 0 and are passed to the Reporter.
type Func func(Row) model.Interval

// reader collects defects while one row is read.
type reader struct {
	provider string
	row      Row
	report   Reporter
}

func (rd reader) value(column string) float64 {
	v, err := rd.row.Float(column)
	if err != nil {
		rd.defect(column, err)
		return 0
	}
	return v
}

// sum adds columns. If any of them is unreadable the result is 0.
func (rd reader) sum(columns ...string) float64 {
	total := 0.0
	ok := true
	for _, c := range columns {
		v, err := rd.row.Float(c)
		if err != nil {
			rd.defect(c, err)
			ok = false
			continue
		}
		total += v
	}
	if !ok {
		return 0
	}
	return total
}

func (rd reader) defect(column string, err error) {
	if rd.report != nil {
		rd.report(Defect{Provider: rd.provider, Column: column, Err: err})
	}
}

func (rd reader) start(loc *time.Location) time.Time {
	t, err := rd.row.Start(loc)
	if err != nil {
		rd.defect(TimestampColumn, err)
		return time.Unix(0, 0).In(loc)
	}
	return t
}
