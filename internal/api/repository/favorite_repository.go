package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ayasqualli/bookshelf/internal/api/models"
)

// ErrFavoriteNotFound covers both "no such favorite" and "not yours". The
// two cases are deliberately not distinguished so removal attempts can't
// probe for other users' favorites.
var ErrFavoriteNotFound = errors.New("favorite not found or not authorized")

// FavoriteRepository defines the interface for favorite data operations.
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	Remove(ctx context.Context, favoriteID, userID int64) error
}

type sqliteFavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository creates a new SQLite-based FavoriteRepository.
func NewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &sqliteFavoriteRepository{db: db}
}

// Add inserts a favorite unconditionally. Favoriting the same book twice
// creates two rows; there is no dedup.
func (r *sqliteFavoriteRepository) Add(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error) {
	query := `INSERT INTO favorites (user_id, book_id, title, authors, description, thumbnail)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		favorite.UserID, favorite.BookID, favorite.Title,
		favorite.Authors, favorite.Description, favorite.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new favorite id: %w", err)
	}
	favorite.ID = id
	return favorite, nil
}

// ListByUser returns all favorites owned by userID in insertion order.
func (r *sqliteFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	query := `SELECT id, user_id, book_id, title, authors, description, thumbnail
		FROM favorites WHERE user_id = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// Remove deletes the favorite only when it is owned by userID. The ownership
// check and the delete are a single statement, so there is no window where
// another user's row could be removed.
func (r *sqliteFavoriteRepository) Remove(ctx context.Context, favoriteID, userID int64) error {
	query := `DELETE FROM favorites WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, favoriteID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
