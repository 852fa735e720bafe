package validate

import (
	"errors"
	"fmt"
	"math"

	"energy-dataset/internal/model"
)

// Source is the read side of a collection the validator needs.
type Source interface {
	ByTimestamp(unixSeconds int64) (model.Interval, error)
}

// Resolver maps a collection name to its Source.
type Resolver interface {
	Source(name string) (Source, error)
}

// Case is a declarative assertion: the value addressed by Selector in the
// interval starting at Timestamp must equal Expected exactly.
type Case struct {
	Description string         `json:"description"`
	Timestamp   int64          `json:"timestamp"`
	Collection  string         `json:"collection"`
	Selector    model.Selector `json:"selector"`
	Expected    *float64       `json:"expected_value"`
}

// NewCase builds a case and rejects unknown category/field paths.
func NewCase(description string, unixSeconds int64, collection, category, field string, expected float64) (Case, error) {
	sel, err := model.ParseSelector(category, field)
	if err != nil {
		return Case{}, fmt.Errorf("case %q: %w", description, err)
	}
	if collection == "" {
		return Case{}, fmt.Errorf("case %q: collection is required", description)
	}
	return Case{
		Description: description,
		Timestamp:   unixSeconds,
		Collection:  collection,
		Selector:    sel,
		Expected:    &expected,
	}, nil
}

// Result is the outcome of one evaluated case.
type Result struct {
	Description string   `json:"description"`
	Timestamp   int64    `json:"timestamp"`
	Collection  string   `json:"collection"`
	Path        string   `json:"path"`
	Expected    *float64 `json:"expected_value"`
	Actual      *float64 `json:"actual_value"`
	Passed      bool     `json:"result"`
}

// Validator evaluates cases against collections resolved by name.
type Validator struct {
	resolver Resolver
}

func New(resolver Resolver) (*Validator, error) {
	if resolver == nil {
		return nil, errors.New("validate: nil resolver")
	}
	return &Validator{resolver: resolver}, nil
}

// Evaluate runs one case.
//
// Lookup failures (unknown collection, no interval at the timestamp) are
// returned as errors: they point at a loading defect, not at a wrong value.
// A value mismatch, a missing expected value or an unreadable actual value
// yields a Result with Passed == false and a nil error.
//
// Comparison is exact. Fixture values must be produced with the same
// arithmetic as the canonicalizer or they will not match.
func (v *Validator) Evaluate(tc Case) (Result, error) {
	src, err := v.resolver.Source(tc.Collection)
	if err != nil {
		return Result{}, fmt.Errorf("case %q: %w", tc.Description, err)
	}
	iv, err := src.ByTimestamp(tc.Timestamp)
	if err != nil {
		return Result{}, fmt.Errorf("case %q: %w", tc.Description, err)
	}

	res := Result{
		Description: tc.Description,
		Timestamp:   tc.Timestamp,
		Collection:  tc.Collection,
		Path:        tc.Selector.String(),
		Expected:    tc.Expected,
	}
	if actual, ok := tc.Selector.Value(iv); ok {
		res.Actual = &actual
	}
	if res.Expected == nil || res.Actual == nil || math.IsNaN(*res.Actual) {
		return res, nil
	}
	res.Passed = *res.Expected == *res.Actual
	return res, nil
}

// Run evaluates cases in order. It stops at the first error and returns the
// results gathered so far alongside it.
func (v *Validator) Run(cases []Case) ([]Result, error) {
	out := make([]Result, 0, len(cases))
	for _, tc := range cases {
		res, err := v.Evaluate(tc)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Summary counts results.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
