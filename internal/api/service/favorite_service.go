package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ayasqualli/bookshelf/internal/api/models"
	"github.com/ayasqualli/bookshelf/internal/api/repository"
	"github.com/ayasqualli/bookshelf/internal/books"
)

// ErrUnknownUser means a session pointed at a user id that no longer exists.
var ErrUnknownUser = errors.New("unknown user")

// FavoriteService defines the business logic around a user's shelf.
type FavoriteService interface {
	Add(ctx context.Context, userID int64, bookID string) (*models.Favorite, error)
	Remove(ctx context.Context, favoriteID, userID int64) error
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	userRepo     repository.UserRepository
	catalog      books.Client
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, userRepo repository.UserRepository, catalog books.Client) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		userRepo:     userRepo,
		catalog:      catalog,
	}
}

// Add fetches the full record from the catalog and stores it on the user's
// shelf. books.ErrNotFound propagates when the id is unknown.
func (s *favoriteService) Add(ctx context.Context, userID int64, bookID string) (*models.Favorite, error) {
	book, err := s.catalog.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	favorite := &models.Favorite{
		UserID:      userID,
		BookID:      bookID,
		Title:       book.Title,
		Authors:     strings.Join(book.Authors, ", "),
		Description: book.Description,
		Thumbnail:   book.Thumbnail,
	}
	return s.favoriteRepo.Add(ctx, favorite)
}

// Remove deletes a favorite scoped to the requesting user.
func (s *favoriteService) Remove(ctx context.Context, favoriteID, userID int64) error {
	return s.favoriteRepo.Remove(ctx, favoriteID, userID)
}

// Profile returns the user's name together with everything on their shelf.
func (s *favoriteService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		Username:  user.Username,
		Favorites: favorites,
	}, nil
}
