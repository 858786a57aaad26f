package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ayasqualli/bookshelf/internal/api/controller"
	"github.com/ayasqualli/bookshelf/internal/api/middleware"
)

// Server owns the gin engine and the route table.
type Server struct {
	engine *gin.Engine
}

// NewServer wires the controllers into a gin engine. Protected routes sit
// behind the auth middleware; the browsing surface stays open.
func NewServer(auth *middleware.Auth, users *controller.UserController, bks *controller.BookController, favorites *controller.FavoriteController) *Server {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	// Public surface.
	engine.GET("/", auth.OptionalUser(), favorites.Home)
	engine.GET("/home", auth.OptionalUser(), favorites.Home)
	engine.GET("/search", bks.Search)
	engine.POST("/search", bks.Search)
	engine.GET("/book/:id", bks.GetByID)
	engine.POST("/register", users.Register)
	engine.POST("/login", users.Login)
	engine.GET("/logout", users.Logout)
	engine.POST("/logout", users.Logout)

	// Authenticated surface.
	engine.POST("/search_profile", auth.RequireUser(), bks.SearchProfile)
	engine.POST("/favorite/:id", auth.RequireUser(), favorites.Add)
	engine.DELETE("/remove_favorite/:id", auth.RequireUser(), favorites.Remove)
	engine.GET("/profile", auth.RequireUser(), favorites.Profile)

	return &Server{engine: engine}
}

// Engine exposes the underlying gin engine for http.Server and tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
