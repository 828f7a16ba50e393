package controllers

import (
	"net/http"

	"mangrove-be/models"
	"mangrove-be/services"

	"github.com/gin-gonic/gin"
)

// UserController serves user registration and lookup.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// RegisterUser handles user registration
func (uc *UserController) RegisterUser(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required,max=100"`
		Email string `json:"email" binding:"omitempty,email"`
		Phone string `json:"phone" binding:"omitempty,max=30"`
		Role  string `json:"role" binding:"omitempty,oneof=community NGO admin"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, invalidInput(err))
		return
	}

	user, err := uc.users.Register(c.Request.Context(), services.RegisterUserInput{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Role:  models.UserRole(input.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// GetUser retrieves a user by ID
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "user")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
