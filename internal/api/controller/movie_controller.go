package controller

import (
	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/api/service"

	"github.com/gin-gonic/gin"
)

// MovieController serves the read-only catalog.
type MovieController struct {
	movieService service.MovieService
}

// NewMovieController creates a new MovieController.
func NewMovieController(movieService service.MovieService) *MovieController {
	return &MovieController{movieService: movieService}
}

func (mc *MovieController) List(c *gin.Context) {
	movies, err := mc.movieService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, movies)
}

func (mc *MovieController) GetByTitle(c *gin.Context) {
	movie, err := mc.movieService.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, movie)
}

func (mc *MovieController) Genre(c *gin.Context) {
	genre, err := mc.movieService.GetGenre(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, genre)
}

func (mc *MovieController) Director(c *gin.Context) {
	director, err := mc.movieService.GetDirector(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessResponse(c, director)
}
