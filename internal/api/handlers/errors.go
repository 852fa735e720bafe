package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-dataset/internal/api/models"
	"energy-dataset/internal/series"
)

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondLookupError maps collection errors onto HTTP statuses.
func respondLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, series.ErrUnknownCollection):
		abortWithError(c, http.StatusNotFound, "UNKNOWN_COLLECTION", err.Error())
	case errors.Is(err, series.ErrNoData):
		abortWithError(c, http.StatusNotFound, "NO_DATA", err.Error())
	case errors.Is(err, series.ErrOutOfRange):
		abortWithError(c, http.StatusBadRequest, "OUT_OF_RANGE", err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
