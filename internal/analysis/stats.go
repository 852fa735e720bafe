package analysis

import (
	"math"
	"sort"
	"time"

	"energy-dataset/internal/model"
)

// FieldStats summarises one selected value over a run of intervals.
type FieldStats struct {
	Path string `json:"path"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Count int `json:"count"`

	Sum  float64 `json:"sum"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

// Compute returns the statistics of sel over intervals, which are expected
// in chronological order. An empty input yields a zero FieldStats.
func Compute(intervals []model.Interval, sel model.Selector) FieldStats {
	s := FieldStats{Path: sel.String()}
	if len(intervals) == 0 {
		return s
	}
	s.Start = intervals[0].Start()
	s.End = intervals[len(intervals)-1].End()

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(intervals))
	for _, iv := range intervals {
		v, ok := sel.Value(iv)
		if !ok || math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
		s.Sum += v
		minv = math.Min(minv, v)
		maxv = math.Max(maxv, v)
	}
	s.Count = len(vals)
	if s.Count == 0 {
		return s
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = s.Sum / float64(s.Count)
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95 - s.P05
	return s
}

// RenewableShare is total renewable production over total production
// (renewables, fossils and nuclear) across intervals. It is 0 when nothing
// was produced.
func RenewableShare(intervals []model.Interval) float64 {
	var renewable, total float64
	for _, iv := range intervals {
		p := iv.Production
		renewable += p.TotalRenewables()
		total += p.TotalRenewables() + p.TotalFossils() + p.Nuclear
	}
	if total == 0 {
		return 0
	}
	return renewable / total
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
