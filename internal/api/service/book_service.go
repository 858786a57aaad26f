package service

import (
	"context"

	"github.com/ayasqualli/bookshelf/internal/books"
)

// BookService exposes catalog lookups to the controllers.
type BookService interface {
	Search(ctx context.Context, query string) ([]books.Book, error)
	GetByID(ctx context.Context, id string) (books.Book, error)
}

type bookService struct {
	catalog books.Client
}

// NewBookService creates a new BookService.
func NewBookService(catalog books.Client) BookService {
	return &bookService{catalog: catalog}
}

func (s *bookService) Search(ctx context.Context, query string) ([]books.Book, error) {
	return s.catalog.Search(ctx, query)
}

func (s *bookService) GetByID(ctx context.Context, id string) (books.Book, error) {
	return s.catalog.GetByID(ctx, id)
}
