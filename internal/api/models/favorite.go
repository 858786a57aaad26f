package models

// Favorite is a book a user saved to their shelf. Authors is stored
// comma-joined, the way the catalog client hands it over.
type Favorite struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"user_id"`
	BookID      string `db:"book_id" json:"book_id"`
	Title       string `db:"title" json:"title"`
	Authors     string `db:"authors" json:"authors"`
	Description string `db:"description" json:"description"`
	Thumbnail   string `db:"thumbnail" json:"thumbnail"`
}

// Profile bundles a user's name with their favorites for the profile page.
type Profile struct {
	Username  string     `json:"username"`
	Favorites []Favorite `json:"favorites"`
}

// SearchRequest is the JSON body of the authenticated search endpoint.
type SearchRequest struct {
	Query string `json:"query"`
}
