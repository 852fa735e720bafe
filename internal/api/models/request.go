package models

// RangeQuery holds the query string of GET /api/v1/collections/:name/intervals.
// Start and End accept RFC 3339, "2006-01-02 15:04" in the server time zone,
// or Unix seconds.
type RangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
	// Divide scales every returned interval, e.g. 1000000 for MWh / MW.
	Divide float64 `form:"divide,omitempty"`
	Limit  int     `form:"limit,omitempty"` // 0 = all
}

// IntervalQuery holds the optional query string of the point and year endpoints.
type IntervalQuery struct {
	Divide float64 `form:"divide,omitempty"`
}

// StatsQuery holds the query string of GET /api/v1/collections/:name/stats.
// Field is "category.field"; without it every production source is ranked.
// Start and End are optional and default to the whole collection.
type StatsQuery struct {
	Field string `form:"field,omitempty"`
	Start string `form:"start,omitempty"`
	End   string `form:"end,omitempty"`
}
