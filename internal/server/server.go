package server

import (
	"net/http"
	"slices"
	"time"

	"ctchen222/movie-catalog/internal/api/controller"
	"ctchen222/movie-catalog/internal/api/middleware"
	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/api/service"
	"ctchen222/movie-catalog/internal/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const welcomeMessage = "Welcome to the movie catalog! Log in and browse /movies."

// Dependencies are the components the HTTP layer is built from.
type Dependencies struct {
	AuthService service.AuthService
	Limiter     ratelimit.Limiter

	Auth   *controller.AuthController
	Users  *controller.UserController
	Movies *controller.MovieController

	CORSOrigins []string
}

type Server struct {
	engine *gin.Engine
}

func NewServer(deps Dependencies) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(), cors.New(corsConfig(deps.CORSOrigins)))

	s := &Server{engine: engine}
	s.registerRoutes(deps)
	return s
}

// Engine exposes the gin engine as the http.Handler of the server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes(deps Dependencies) {
	r := s.engine

	r.GET("/", func(c *gin.Context) {
		response.SuccessResponseContent(c, welcomeMessage)
	})
	r.GET("/health", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})

	limited := middleware.RateLimit(deps.Limiter)
	r.POST("/login", limited, deps.Auth.Login)
	r.POST("/users", limited, deps.Users.Register)

	authed := r.Group("/", middleware.RequireAuth(deps.AuthService))

	movies := authed.Group("/movies")
	movies.GET("", deps.Movies.List)
	movies.GET("/:title", deps.Movies.GetByTitle)
	movies.GET("/genres/:name", deps.Movies.Genre)
	movies.GET("/directors/:name", deps.Movies.Director)

	users := authed.Group("/users/:username", middleware.RequireSelf("username"))
	users.GET("", deps.Users.Get)
	users.PUT("", deps.Users.Update)
	users.DELETE("", deps.Users.Delete)
	users.POST("/movies/:movieId", deps.Users.AddFavorite)
	users.PUT("/movies/:movieId", deps.Users.RemoveFavorite)
	users.DELETE("/movies/:movieId", deps.Users.RemoveFavorite)
	users.DELETE("/:movieId", deps.Users.RemoveFavorite)
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"}
	config.ExposeHeaders = []string{"Content-Length"}
	config.MaxAge = 12 * time.Hour
	return config
}
