package loader

import (
	"time"

	"energy-dataset/internal/validate"
)

// Report summarises the load and validation of one dataset.
type Report struct {
	Dataset string `json:"dataset"`
	Path    string `json:"path"`
	// Skipped is set when the dataset was registered but not loaded.
	Skipped   string        `json:"skipped,omitempty"`
	Rows      int           `json:"rows"`
	Defects   int           `json:"defects"`
	Dropped   int           `json:"dropped"` // rows without a readable timestamp
	Duration  time.Duration `json:"duration_ns"`
	AvgPerRow time.Duration `json:"avg_per_row_ns"`
	First     time.Time     `json:"first"`
	Last      time.Time     `json:"last"`

	Results    []validate.Result `json:"results,omitempty"`
	Validation validate.Summary  `json:"validation"`
	// Errors holds the cases that could not be evaluated when
	// validation.continue_on_error is set.
	Errors []CaseError `json:"errors,omitempty"`
}

// CaseError is a validation case whose lookup failed.
type CaseError struct {
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
	Path        string `json:"path"`
	Err         string `json:"error"`
}

// Loaded reports whether the dataset file was read.
func (r Report) Loaded() bool { return r.Skipped == "" }

// Unsuccessful counts the cases that failed or could not be evaluated.
func (r Report) Unsuccessful() int { return r.Validation.Failed + len(r.Errors) }
