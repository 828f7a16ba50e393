package routes

import (
	"mangrove-be/controllers"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the user routes
func UserRoutes(api *gin.RouterGroup, uc *controllers.UserController) {
	users := api.Group("/users")
	{
		users.POST("", uc.RegisterUser)
		users.GET("/:id", uc.GetUser)
	}
}
