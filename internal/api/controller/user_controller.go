package controller

import (
	"net/http"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/api/service"

	"github.com/gin-gonic/gin"
)

// UserController handles user-related HTTP requests.
type UserController struct {
	authService service.AuthService
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(authService service.AuthService, userService service.UserService) *UserController {
	return &UserController{
		authService: authService,
		userService: userService,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := uc.authService.Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.CreatedResponse(c, user.ToResponse())
}

// Get returns the user named in the path.
func (uc *UserController) Get(c *gin.Context) {
	user, err := uc.userService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, user.ToResponse())
}

// Update replaces the profile of the user named in the path. A rename also
// returns a token for the new username.
func (uc *UserController) Update(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := uc.userService.Update(c.Request.Context(), c.Param("username"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.UpdateUserResponse{UserResponse: user.ToResponse()}
	if user.Username != c.Param("username") {
		resp.Token, err = uc.authService.IssueToken(c.Request.Context(), user.Username)
		if err != nil {
			writeError(c, err)
			return
		}
	}
	response.SuccessResponse(c, resp)
}

// Delete deregisters the user named in the path.
func (uc *UserController) Delete(c *gin.Context) {
	username := c.Param("username")
	if err := uc.userService.Delete(c.Request.Context(), username); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"message": username + " was deleted."})
}

// AddFavorite adds a movie id to the user's favorites.
func (uc *UserController) AddFavorite(c *gin.Context) {
	user, err := uc.userService.AddFavorite(c.Request.Context(), c.Param("username"), c.Param("movieId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, user.ToResponse())
}

// RemoveFavorite removes a movie id from the user's favorites.
func (uc *UserController) RemoveFavorite(c *gin.Context) {
	user, err := uc.userService.RemoveFavorite(c.Request.Context(), c.Param("username"), c.Param("movieId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, user.ToResponse())
}
