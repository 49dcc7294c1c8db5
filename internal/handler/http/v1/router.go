package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует маршруты API; запись требует API-ключ, если ключи заданы
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	markers := api.Group("/markers")
	{
		markers.GET("", h.listMarkers)

		write := markers.Group("")
		if len(h.cfg.APIKeys) > 0 {
			write.Use(MarkerWriteAuth(h.cfg.APIKeys, h.logger))
		}
		write.POST("", h.reportPollution)
		write.PUT("/:id/clean", h.cleanMarker)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
