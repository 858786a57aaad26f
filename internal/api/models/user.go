package models

// User represents a user in the database.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// RegisterRequest defines the structure for a user registration request.
// Confirmation must match the password.
type RegisterRequest struct {
	Username     string `json:"username" form:"username" binding:"required,min=1,max=40"`
	Password     string `json:"password" form:"password" binding:"required,min=1,max=120"`
	Confirmation string `json:"confirmation" form:"confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
