// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"topptaxi/internal/modules/catalog"
	"topptaxi/internal/modules/quote"
	"topptaxi/internal/modules/tariff"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, quote.ErrNoFixedRoute):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrDuplicateRoute), errors.Is(err, catalog.ErrPlaceInUse):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, tariff.ErrPersistence):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
