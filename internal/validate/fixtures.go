package validate

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LocalTimeLayout is the layout of local_time in case files.
const LocalTimeLayout = "2006-01-02 15:04"

// caseFile is the on-disk shape of a case fixture (YAML).
//
// Example:
//
//	collection: smard
//	cases:
//	  - description: Solar value
//	    local_time: "2016-03-01 15:15"
//	    category: production
//	    field: pv
//	    expected: 1156.25
//	    scale: 1000000
type caseFile struct {
	Collection string      `yaml:"collection"`
	Cases      []caseEntry `yaml:"cases"`
}

type caseEntry struct {
	Description string   `yaml:"description"`
	Collection  string   `yaml:"collection"`
	UnixSeconds *int64   `yaml:"unix_seconds"`
	LocalTime   string   `yaml:"local_time"`
	Category    string   `yaml:"category"`
	Field       string   `yaml:"field"`
	Expected    *float64 `yaml:"expected"`
	// Scale multiplies Expected, so "1156.25 * 1_000_000" can be written the
	// way the canonicalizer computes it.
	Scale *float64 `yaml:"scale"`
}

// LoadCases reads a case fixture file. local_time values are interpreted in
// loc. collection is used for cases when the file names none.
func LoadCases(path, collection string, loc *time.Location) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := ParseCases(raw, collection, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// ParseCases decodes a case fixture document.
func ParseCases(raw []byte, collection string, loc *time.Location) ([]Case, error) {
	if loc == nil {
		loc = time.Local
	}
	var f caseFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f.Collection == "" {
		f.Collection = collection
	}
	out := make([]Case, 0, len(f.Cases))
	for i, e := range f.Cases {
		tc, err := e.toCase(f.Collection, loc)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		out = append(out, tc)
	}
	return out, nil
}

func (e caseEntry) toCase(defaultCollection string, loc *time.Location) (Case, error) {
	collection := e.Collection
	if collection == "" {
		collection = defaultCollection
	}

	var ts int64
	switch {
	case e.UnixSeconds != nil && strings.TrimSpace(e.LocalTime) != "":
		return Case{}, errors.New("set either unix_seconds or local_time, not both")
	case e.UnixSeconds != nil:
		ts = *e.UnixSeconds
	case strings.TrimSpace(e.LocalTime) != "":
		t, err := time.ParseInLocation(LocalTimeLayout, strings.TrimSpace(e.LocalTime), loc)
		if err != nil {
			return Case{}, fmt.Errorf("local_time: %w", err)
		}
		ts = t.Unix()
	default:
		return Case{}, errors.New("unix_seconds or local_time is required")
	}

	tc, err := NewCase(e.Description, ts, collection, e.Category, e.Field, 0)
	if err != nil {
		return Case{}, err
	}
	tc.Expected = nil
	if e.Expected != nil {
		expected := *e.Expected
		if e.Scale != nil {
			expected *= *e.Scale
		}
		tc.Expected = &expected
	}
	return tc, nil
}
