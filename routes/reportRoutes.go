package routes

import (
	"mangrove-be/controllers"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the report routes. limiter guards submissions only.
func ReportRoutes(api *gin.RouterGroup, rc *controllers.ReportController, limiter gin.HandlerFunc) {
	reports := api.Group("/reports")
	{
		reports.POST("", limiter, rc.CreateReport)
		reports.GET("", rc.GetAllReports)
		reports.GET("/:id", rc.GetReport)
		reports.PUT("/:id", rc.UpdateReport)
		reports.GET("/:id/audit", rc.GetReportAuditLogs)
	}
}
