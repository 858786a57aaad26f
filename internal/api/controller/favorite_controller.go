package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ayasqualli/bookshelf/internal/api/middleware"
	"github.com/ayasqualli/bookshelf/internal/api/models"
	"github.com/ayasqualli/bookshelf/internal/api/repository"
	"github.com/ayasqualli/bookshelf/internal/api/response"
	"github.com/ayasqualli/bookshelf/internal/api/service"
	"github.com/ayasqualli/bookshelf/internal/books"
)

// FavoriteController handles the user's shelf: add, remove, profile, home.
type FavoriteController struct {
	favoriteService service.FavoriteService
}

// NewFavoriteController creates a new FavoriteController.
func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{favoriteService: favoriteService}
}

// Add favorites the book with the given catalog id for the current user.
func (fc *FavoriteController) Add(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	favorite, err := fc.favoriteService.Add(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, books.ErrNotFound):
			response.ErrorResponse(c, http.StatusNotFound, "book not found")
		case errors.Is(err, books.ErrExternalService):
			response.ErrorResponse(c, http.StatusBadGateway, "book catalog unavailable")
		default:
			slog.Error("failed to add favorite", "error", err)
			response.ErrorResponse(c, http.StatusInternalServerError, "failed to add favorite")
		}
		return
	}

	response.SuccessResponse(c, favorite)
}

// Remove deletes a favorite owned by the current user. A missing favorite
// and someone else's favorite answer identically.
func (fc *FavoriteController) Remove(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	favoriteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "invalid favorite id")
		return
	}

	if err := fc.favoriteService.Remove(c.Request.Context(), favoriteID, userID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		slog.Error("failed to remove favorite", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	response.SuccessResponse(c, gin.H{"message": "favorite removed"})
}

// Profile returns the current user's name and favorites.
func (fc *FavoriteController) Profile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := fc.favoriteService.Profile(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	response.SuccessResponse(c, profile)
}

// Home lists favorites for a logged-in visitor and an empty shelf for an
// anonymous one.
func (fc *FavoriteController) Home(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.SuccessResponse(c, gin.H{"favorites": []models.Favorite{}})
		return
	}

	profile, err := fc.favoriteService.Profile(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to load home", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to load home")
		return
	}

	response.SuccessResponse(c, gin.H{"favorites": profile.Favorites})
}
