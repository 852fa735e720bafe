package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"energy-dataset/internal/api/models"
	"energy-dataset/internal/loader"
	"energy-dataset/internal/model"
	"energy-dataset/internal/series"
)

// LocalTimeLayout is accepted for start/end alongside RFC 3339 and Unix seconds.
const LocalTimeLayout = "2006-01-02 15:04"

// DataSource is the part of loader.Manager the handlers read from.
type DataSource interface {
	Data(ctx context.Context) (*series.Registry, error)
	Reload(ctx context.Context) (*series.Registry, error)
	Reports() []loader.Report
	Location() *time.Location
}

// CollectionHandler serves read-only queries against the loaded collections.
type CollectionHandler struct {
	source DataSource
}

func NewCollectionHandler(source DataSource) *CollectionHandler {
	return &CollectionHandler{source: source}
}

// ListCollections handles GET /api/v1/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	reg, err := h.source.Data(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", err.Error())
		return
	}
	infos := h.infos(reg)
	c.JSON(http.StatusOK, gin.H{"collections": infos, "count": len(infos)})
}

// GetCollection handles GET /api/v1/collections/:name
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	col, ok := h.collection(c)
	if !ok {
		return
	}
	detail := models.CollectionDetail{CollectionInfo: info(col)}
	if rep, found := h.report(col.Name()); found {
		detail.Loaded = rep.Loaded()
		detail.Skipped = rep.Skipped
		detail.Path = rep.Path
		detail.Defects = rep.Defects
		detail.Dropped = rep.Dropped
		detail.LoadTimeMS = float64(rep.Duration) / float64(time.Millisecond)
		detail.AvgRowUS = float64(rep.AvgPerRow) / float64(time.Microsecond)
		detail.Validation = rep.Validation
		detail.ValidationErrors = len(rep.Errors)
	}
	c.JSON(http.StatusOK, detail)
}

// QueryRange handles GET /api/v1/collections/:name/intervals?start=&end=
func (h *CollectionHandler) QueryRange(c *gin.Context) {
	var q models.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	loc := h.source.Location()
	from, err := parseInstant(q.Start, loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_START", err.Error())
		return
	}
	to, err := parseInstant(q.End, loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_END", err.Error())
		return
	}
	col, ok := h.collection(c)
	if !ok {
		return
	}
	ivs := col.Range(from, to)
	if q.Limit > 0 && q.Limit < len(ivs) {
		ivs = ivs[:q.Limit]
	}
	h.respondIntervals(c, col.Name(), ivs, q.Divide)
}

// GetInterval handles GET /api/v1/collections/:name/intervals/:unix
func (h *CollectionHandler) GetInterval(c *gin.Context) {
	unix, err := strconv.ParseInt(c.Param("unix"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_TIMESTAMP", "timestamp must be Unix seconds")
		return
	}
	var q models.IntervalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	col, ok := h.collection(c)
	if !ok {
		return
	}
	iv, err := col.ByTimestamp(unix)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	if q.Divide != 0 {
		if iv, err = iv.Scale(model.OpDiv, q.Divide); err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_OPERATION", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, models.NewInterval(iv))
}

// GetYear handles GET /api/v1/collections/:name/years/:year
func (h *CollectionHandler) GetYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		abortWithError(c, http.StatusBadRequest, "INVALID_YEAR", fmt.Sprintf("invalid year %q", c.Param("year")))
		return
	}
	var q models.IntervalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	col, ok := h.collection(c)
	if !ok {
		return
	}
	h.respondIntervals(c, col.Name(), col.Year(year), q.Divide)
}

// Reload handles POST /api/v1/reload
func (h *CollectionHandler) Reload(c *gin.Context) {
	reg, err := h.source.Reload(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "RELOAD_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.ReloadResponse{Collections: h.infos(reg)})
}

func (h *CollectionHandler) respondIntervals(c *gin.Context, name string, ivs []model.Interval, divide float64) {
	out := make([]models.Interval, 0, len(ivs))
	for _, iv := range ivs {
		if divide != 0 {
			iv = iv.Div(divide)
		}
		out = append(out, models.NewInterval(iv))
	}
	c.JSON(http.StatusOK, models.IntervalsResponse{Collection: name, Count: len(out), Intervals: out})
}

// collection resolves the :name parameter, writing the error response itself.
func (h *CollectionHandler) collection(c *gin.Context) (*series.Collection, bool) {
	_, col, ok := h.lookup(c)
	return col, ok
}

// lookup is collection that also returns the registry the collection was
// resolved from, so later reads see the same load even across a reload.
func (h *CollectionHandler) lookup(c *gin.Context) (*series.Registry, *series.Collection, bool) {
	reg, err := h.source.Data(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", err.Error())
		return nil, nil, false
	}
	col, err := reg.Collection(c.Param("name"))
	if err != nil {
		respondLookupError(c, err)
		return nil, nil, false
	}
	return reg, col, true
}

func (h *CollectionHandler) report(name string) (loader.Report, bool) {
	for _, r := range h.source.Reports() {
		if r.Dataset == name {
			return r, true
		}
	}
	return loader.Report{}, false
}

func (h *CollectionHandler) infos(reg *series.Registry) []models.CollectionInfo {
	out := make([]models.CollectionInfo, 0)
	for _, col := range reg.Collections() {
		ci := info(col)
		if rep, ok := h.report(col.Name()); ok {
			ci.Loaded = rep.Loaded()
			ci.Skipped = rep.Skipped
		}
		out = append(out, ci)
	}
	return out
}

func info(col *series.Collection) models.CollectionInfo {
	ci := models.CollectionInfo{
		Name:   col.Name(),
		Rows:   col.Len(),
		Cases:  len(col.Cases()),
		Loaded: col.Len() > 0,
	}
	if first, ok := col.TryByPosition(0); ok {
		t := first.Start()
		ci.First = &t
	}
	if last, ok := col.TryByPosition(col.Len() - 1); ok {
		t := last.Start()
		ci.Last = &t
	}
	return ci
}

// parseInstant accepts Unix seconds, RFC 3339, or LocalTimeLayout in loc.
func parseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(LocalTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q", s)
	}
	return t, nil
}
