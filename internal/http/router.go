// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"topptaxi/internal/http/handlers"
	"topptaxi/internal/http/middleware"
	"topptaxi/internal/modules/catalog"
	"topptaxi/internal/modules/quote"
	"topptaxi/internal/modules/tariff"
)

func NewRouter(
	quoteService *quote.Service,
	tariffService *tariff.Service,
	catalogService *catalog.Service,
	log *zap.Logger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	quoteHandler := handlers.NewQuoteHandler(quoteService)
	r.POST("/api/quote", quoteHandler.Calculate)

	tariffHandler := handlers.NewTariffHandler(tariffService)
	r.GET("/api/tariffs", tariffHandler.List)
	r.PUT("/api/tariffs", tariffHandler.Update)

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	r.GET("/api/places", catalogHandler.ListPlaces)
	r.POST("/api/places", catalogHandler.AddPlace)
	r.DELETE("/api/places/:id", catalogHandler.DeletePlace)
	r.GET("/api/routes", catalogHandler.ListRoutes)
	r.POST("/api/routes", catalogHandler.AddRoute)
	r.DELETE("/api/routes/:id", catalogHandler.DeleteRoute)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
