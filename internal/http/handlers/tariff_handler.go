// README: Tariff handlers; read derived schedules, replace standard rates.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"topptaxi/internal/modules/tariff"
)

type TariffHandler struct {
	tariffs *tariff.Service
}

func NewTariffHandler(svc *tariff.Service) *TariffHandler {
	return &TariffHandler{tariffs: svc}
}

type scheduleResp struct {
	Class string      `json:"class"`
	Label string      `json:"label"`
	Rate  tariff.Rate `json:"rate"`
}

func (h *TariffHandler) List(c *gin.Context) {
	schedules := h.tariffs.Schedules()
	out := make([]scheduleResp, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, scheduleResp{Class: string(s.Class), Label: s.Label, Rate: s.Rate})
	}
	writeJSON(c, http.StatusOK, gin.H{"tariffs": out})
}

type updateTariffsReq struct {
	Small tariff.Rate `json:"small"`
	Large tariff.Rate `json:"large"`
}

// Update replaces the standard rates; the discount schedules follow on the
// next read.
func (h *TariffHandler) Update(c *gin.Context) {
	var req updateTariffsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.tariffs.Update(req.Small, req.Large); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "saved"})
}
