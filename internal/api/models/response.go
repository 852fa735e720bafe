package models

import (
	"time"

	"energy-dataset/internal/analysis"
	"energy-dataset/internal/model"
	"energy-dataset/internal/validate"
)

// CollectionInfo describes one registered collection.
type CollectionInfo struct {
	Name    string     `json:"name"`
	Rows    int        `json:"rows"`
	Cases   int        `json:"cases"`
	Loaded  bool       `json:"loaded"`
	Skipped string     `json:"skipped,omitempty"`
	First   *time.Time `json:"first,omitempty"`
	Last    *time.Time `json:"last,omitempty"`
}

// CollectionDetail adds the last load report to CollectionInfo.
type CollectionDetail struct {
	CollectionInfo
	Path       string           `json:"path"`
	Defects    int              `json:"defects"`
	Dropped    int              `json:"dropped"`
	LoadTimeMS float64          `json:"load_time_ms"`
	AvgRowUS   float64          `json:"avg_row_us"`
	Validation validate.Summary `json:"validation"`
	// ValidationErrors counts cases the last load could not evaluate.
	ValidationErrors int `json:"validation_errors"`
}

// Interval is the JSON form of model.Interval.
type Interval struct {
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Production      model.EnergyMix `json:"production"`
	Power           model.EnergyMix `json:"power"`
	Consumption     model.LoadMix   `json:"consumption"`
	TotalRenewables float64         `json:"total_renewables"`
	TotalFossils    float64         `json:"total_fossils"`
}

func NewInterval(iv model.Interval) Interval {
	return Interval{
		Start:           iv.Start(),
		End:             iv.End(),
		Production:      iv.Production,
		Power:           iv.Power,
		Consumption:     iv.Consumption,
		TotalRenewables: iv.Production.TotalRenewables(),
		TotalFossils:    iv.Production.TotalFossils(),
	}
}

// IntervalsResponse is returned by the range and year endpoints.
type IntervalsResponse struct {
	Collection string     `json:"collection"`
	Count      int        `json:"count"`
	Intervals  []Interval `json:"intervals"`
}

// CaseOutcome is one validation case; Error is set when the case could not
// be evaluated (e.g. no interval at its timestamp).
type CaseOutcome struct {
	validate.Result
	Error string `json:"error,omitempty"`
}

// ValidationResponse is returned by GET /api/v1/collections/:name/validation.
type ValidationResponse struct {
	Collection string           `json:"collection"`
	Summary    validate.Summary `json:"summary"`
	Errors     int              `json:"errors"`
	Cases      []CaseOutcome    `json:"cases"`
}

// StatsResponse is returned by GET /api/v1/collections/:name/stats. Either
// Field or Sources is set, depending on whether a field was requested.
type StatsResponse struct {
	Collection     string                  `json:"collection"`
	Intervals      int                     `json:"intervals"`
	RenewableShare float64                 `json:"renewable_share"`
	Field          *analysis.FieldStats    `json:"field,omitempty"`
	Sources        []analysis.RankedSource `json:"sources,omitempty"`
}

// ReloadResponse is returned by POST /api/v1/reload.
type ReloadResponse struct {
	Collections []CollectionInfo `json:"collections"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
