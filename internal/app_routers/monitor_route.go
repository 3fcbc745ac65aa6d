package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/de-code-ninja/qurio-backend/internal/configuration"
	"github.com/de-code-ninja/qurio-backend/internal/handler"
	"github.com/de-code-ninja/qurio-backend/internal/hub"
)

// MonitorRouters sets up monitoring API routes
func MonitorRouters(router *gin.Engine, container *configuration.Container) {
	monitorService := hub.NewMonitorService(container.Hub)
	monitorHandler := handler.NewMonitorHandler(monitorService)

	monitorGroup := router.Group("/api/monitor")
	{
		monitorGroup.GET("/stats", monitorHandler.GetHubStats)
	}
}
