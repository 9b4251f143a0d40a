package controller

import (
	"net/http"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/api/service"

	"github.com/gin-gonic/gin"
)

// AuthController handles login.
type AuthController struct {
	authService service.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login accepts credentials from a JSON body, a form or the query string.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, models.LoginResponse{User: user.ToResponse(), Token: token})
}
