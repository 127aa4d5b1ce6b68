// README: Catalog handlers; places and fixed-price routes CRUD.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"topptaxi/internal/modules/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

func (h *CatalogHandler) ListPlaces(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"places": h.catalog.Places(c.Request.Context())})
}

// ListRoutes serves the bidirectional read model.
func (h *CatalogHandler) ListRoutes(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"routes": h.catalog.Routes(c.Request.Context())})
}

type addPlaceReq struct {
	Title   string `json:"title"`
	Address string `json:"address"`
	PlaceID string `json:"place_id"`
	Aliases string `json:"aliases"`
}

func (h *CatalogHandler) AddPlace(c *gin.Context) {
	var req addPlaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.catalog.AddPlace(c.Request.Context(), catalog.AddPlaceCommand{
		Title:   req.Title,
		Address: req.Address,
		PlaceID: req.PlaceID,
		Aliases: req.Aliases,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

func (h *CatalogHandler) DeletePlace(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing place id")
		return
	}
	if err := h.catalog.DeletePlace(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "deleted"})
}

type priceBandReq struct {
	Label          string `json:"label"`
	Min            int    `json:"min"`
	Max            *int   `json:"max"`
	Total          *int64 `json:"total"`
	PricePerPerson *int64 `json:"price_per_person"`
}

type addRouteReq struct {
	FromTitle     string         `json:"from"`
	ToTitle       string         `json:"to"`
	FromAddress   string         `json:"from_address"`
	ToAddress     string         `json:"to_address"`
	FromPlaceID   string         `json:"from_place_id"`
	ToPlaceID     string         `json:"to_place_id"`
	Title         string         `json:"title"`
	CreateReverse bool           `json:"create_reverse"`
	Prices        []priceBandReq `json:"prices"`
}

func (h *CatalogHandler) AddRoute(c *gin.Context) {
	var req addRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	bands := make([]catalog.PriceBand, 0, len(req.Prices))
	for _, p := range req.Prices {
		band, err := bandFromRequest(p)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		bands = append(bands, band)
	}

	res, err := h.catalog.AddRoute(c.Request.Context(), catalog.AddRouteCommand{
		FromTitle:     req.FromTitle,
		ToTitle:       req.ToTitle,
		FromAddress:   req.FromAddress,
		ToAddress:     req.ToAddress,
		FromPlaceID:   req.FromPlaceID,
		ToPlaceID:     req.ToPlaceID,
		Title:         req.Title,
		Bands:         bands,
		CreateReverse: req.CreateReverse,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

func (h *CatalogHandler) DeleteRoute(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing route id")
		return
	}
	routes, prices, err := h.catalog.DeleteRoute(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"route_rows": routes, "price_rows": prices})
}

// bandFromRequest enforces the exactly-one-of-total-or-per-person rule
// before anything reaches the store, so a rejected form loses nothing.
func bandFromRequest(p priceBandReq) (catalog.PriceBand, error) {
	band := catalog.PriceBand{Label: p.Label, Min: p.Min, Max: p.Max}
	switch {
	case p.Total != nil && p.PricePerPerson != nil:
		return catalog.PriceBand{}, errBothAmounts(p.Label)
	case p.Total != nil:
		band.Amount = catalog.Amount{Mode: catalog.AmountTotal, Value: *p.Total}
	case p.PricePerPerson != nil:
		band.Amount = catalog.Amount{Mode: catalog.AmountPerPerson, Value: *p.PricePerPerson}
	}
	// A band with neither amount is caught by service validation.
	return band, nil
}

func errBothAmounts(label string) error {
	return fmt.Errorf("%w: price band %q must have either a total or a per-person price, not both",
		catalog.ErrValidation, label)
}
