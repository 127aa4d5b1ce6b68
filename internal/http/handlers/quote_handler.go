// README: Quote handler; the price-calculation endpoint.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"topptaxi/internal/modules/quote"
)

type QuoteHandler struct {
	quote *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quote: svc}
}

type quoteReq struct {
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	OriginPlaceID      string `json:"origin_place_id"`
	DestinationPlaceID string `json:"destination_place_id"`
	// Passengers arrives as text from the booking form; anything that is
	// not a number means "unspecified".
	Passengers string `json:"passengers"`
	FixedRoute bool   `json:"fixed_price"`
}

func (h *QuoteHandler) Calculate(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.quote.Calculate(c.Request.Context(), quote.Request{
		Origin:             strings.TrimSpace(req.Origin),
		Destination:        strings.TrimSpace(req.Destination),
		OriginPlaceID:      strings.TrimSpace(req.OriginPlaceID),
		DestinationPlaceID: strings.TrimSpace(req.DestinationPlaceID),
		Passengers:         parsePassengers(req.Passengers),
		FixedRoute:         req.FixedRoute,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// parsePassengers is lenient: malformed or negative input means zero.
func parsePassengers(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
