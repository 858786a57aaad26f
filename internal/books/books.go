package books

import "errors"

var (
	// ErrNotFound means the catalog has no volume with the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrExternalService means the catalog was unreachable or answered with
	// a non-success status. Callers decide whether to surface it or degrade
	// to an empty result.
	ErrExternalService = errors.New("book catalog unavailable")
)

// Book is a normalized record from the external catalog.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
}

// volume mirrors the subset of the Google Books payload we read. Every field
// is optional; absent fields decode to zero values.
type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title       string   `json:"title"`
		Authors     []string `json:"authors"`
		Description string   `json:"description"`
		ImageLinks  struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (v volume) toBook() Book {
	return Book{
		ID:          v.ID,
		Title:       v.VolumeInfo.Title,
		Authors:     v.VolumeInfo.Authors,
		Description: v.VolumeInfo.Description,
		Thumbnail:   v.VolumeInfo.ImageLinks.Thumbnail,
	}
}
