package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayasqualli/bookshelf/internal/api/models"
	"github.com/ayasqualli/bookshelf/internal/api/response"
	"github.com/ayasqualli/bookshelf/internal/api/service"
	"github.com/ayasqualli/bookshelf/internal/books"
)

// BookController handles catalog search and lookup endpoints.
type BookController struct {
	bookService service.BookService
}

// NewBookController creates a new BookController.
func NewBookController(bookService service.BookService) *BookController {
	return &BookController{bookService: bookService}
}

// Search handles the public browsing search. A catalog outage degrades to an
// empty list on this channel so the page still renders.
func (bc *BookController) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.PostForm("query")
	}

	results, err := bc.bookService.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, books.ErrExternalService) {
			slog.Warn("catalog search degraded to empty result", "query", query, "error", err)
			response.SuccessResponse(c, gin.H{"items": []books.Book{}})
			return
		}
		response.ErrorResponse(c, http.StatusInternalServerError, "search failed")
		return
	}

	response.SuccessResponse(c, gin.H{"items": results})
}

// GetByID handles the book detail endpoint.
func (bc *BookController) GetByID(c *gin.Context) {
	book, err := bc.bookService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, books.ErrNotFound):
			response.ErrorResponse(c, http.StatusNotFound, "book not found")
		case errors.Is(err, books.ErrExternalService):
			response.ErrorResponse(c, http.StatusBadGateway, "book catalog unavailable")
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, "lookup failed")
		}
		return
	}

	response.SuccessResponse(c, book)
}

// SearchProfile is the authenticated JSON search. Unlike the browsing
// channel, a catalog failure surfaces here as 502.
func (bc *BookController) SearchProfile(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	results, err := bc.bookService.Search(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, books.ErrExternalService) {
			response.ErrorResponse(c, http.StatusBadGateway, "book catalog unavailable")
			return
		}
		response.ErrorResponse(c, http.StatusInternalServerError, "search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": results})
}
