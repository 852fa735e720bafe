package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-dataset/internal/api/models"
	"energy-dataset/internal/validate"
)

// Validate handles GET /api/v1/collections/:name/validation
//
// Every case of the collection is evaluated against the current data. Cases
// that cannot be evaluated are reported with their error instead of
// aborting the request.
func (h *CollectionHandler) Validate(c *gin.Context) {
	reg, col, ok := h.lookup(c)
	if !ok {
		return
	}
	v, err := validate.New(reg)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	resp := models.ValidationResponse{Collection: col.Name(), Cases: make([]models.CaseOutcome, 0)}
	var evaluated []validate.Result
	for _, tc := range col.Cases() {
		res, err := v.Evaluate(tc)
		if err != nil {
			resp.Errors++
			resp.Cases = append(resp.Cases, models.CaseOutcome{
				Result: validate.Result{
					Description: tc.Description,
					Timestamp:   tc.Timestamp,
					Collection:  tc.Collection,
					Path:        tc.Selector.String(),
					Expected:    tc.Expected,
				},
				Error: err.Error(),
			})
			continue
		}
		evaluated = append(evaluated, res)
		resp.Cases = append(resp.Cases, models.CaseOutcome{Result: res})
	}
	resp.Summary = validate.Summarize(evaluated)
	c.JSON(http.StatusOK, resp)
}
