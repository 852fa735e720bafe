package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"energy-dataset/internal/analysis"
	"energy-dataset/internal/api/models"
	"energy-dataset/internal/model"
)

// Stats handles GET /api/v1/collections/:name/stats
func (h *CollectionHandler) Stats(c *gin.Context) {
	var q models.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var sel *model.Selector
	if q.Field != "" {
		category, field, _ := strings.Cut(q.Field, ".")
		s, err := model.ParseSelector(category, field)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_FIELD", err.Error())
			return
		}
		sel = &s
	}
	if (q.Start == "") != (q.End == "") {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "start and end must be given together")
		return
	}

	col, ok := h.collection(c)
	if !ok {
		return
	}

	ivs := col.All()
	if q.Start != "" {
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
		ivs = col.Range(from, to)
	}

	resp := models.StatsResponse{
		Collection:     col.Name(),
		Intervals:      len(ivs),
		RenewableShare: analysis.RenewableShare(ivs),
	}
	if sel != nil {
		s := analysis.Compute(ivs, *sel)
		resp.Field = &s
	} else {
		resp.Sources = analysis.RankSources(ivs)
	}
	c.JSON(http.StatusOK, resp)
}
