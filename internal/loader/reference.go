package loader

import (
	"time"

	"energy-dataset/internal/validate"
)

// ReferenceCollection is the dataset that gets ReferenceCases when its
// configuration names no cases file.
const ReferenceCollection = "smard"

// ReferenceCases are known values of the SMARD export, checked after every load.
func ReferenceCases(collection string, loc *time.Location) ([]validate.Case, error) {
	refs := []struct {
		desc            string
		at              time.Time
		category, field string
		expected        float64
	}{
		{"Solar value", time.Date(2016, 3, 1, 15, 15, 0, 0, loc), "production", "pv", 1156.25 * 1_000_000},
		{"Load value", time.Date(2022, 8, 31, 3, 45, 0, 0, loc), "consumption", "load", 10300.5 * 1_000_000},
		{"Wind onshore", time.Date(2022, 8, 31, 3, 45, 0, 0, loc), "production", "wind_onshore", 1769.75 * 1_000_000},
	}
	out := make([]validate.Case, 0, len(refs))
	for _, r := range refs {
		tc, err := validate.NewCase(r.desc, r.at.Unix(), collection, r.category, r.field, r.expected)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}
