package routes

import (
	"mangrove-be/controllers"

	"github.com/gin-gonic/gin"
)

// UploadRoutes sets up photo upload. /upload is kept for older clients.
func UploadRoutes(api *gin.RouterGroup, uc *controllers.UploadController) {
	api.POST("/uploads", uc.UploadPhoto)
	api.POST("/upload", uc.UploadPhoto)
}
