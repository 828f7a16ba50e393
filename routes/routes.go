package routes

import (
	"net/http"

	"mangrove-be/controllers"

	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers mounted under /api.
type Handlers struct {
	Users   *controllers.UserController
	Reports *controllers.ReportController
	Uploads *controllers.UploadController

	// ReportLimiter runs before report submission. Nil disables it.
	ReportLimiter gin.HandlerFunc

	// UploadDir is served under /uploads when photos are kept on disk.
	UploadDir string
}

// Setup registers every route on r.
func Setup(r *gin.Engine, h Handlers) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if h.UploadDir != "" {
		r.Static("/uploads", h.UploadDir)
	}

	limiter := h.ReportLimiter
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}

	api := r.Group("/api")
	UserRoutes(api, h.Users)
	ReportRoutes(api, h.Reports, limiter)
	UploadRoutes(api, h.Uploads)
}
