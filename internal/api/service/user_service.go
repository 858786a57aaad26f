package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayasqualli/bookshelf/internal/api/models"
	"github.com/ayasqualli/bookshelf/internal/api/repository"
)

var (
	// ErrValidation covers bad registration input: empty username or
	// password, or a confirmation that doesn't match.
	ErrValidation = errors.New("invalid registration input")
	// ErrInvalidCredentials deliberately doesn't say which field was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register validates the request and creates the user. The returned user is
// ready to be logged in by the caller.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" || req.Password != req.Confirmation {
		return nil, ErrValidation
	}

	// Friendly pre-check; the UNIQUE constraint still backstops races.
	existingUser, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, repository.ErrDuplicateUsername
	}

	return s.userRepo.CreateUser(ctx, username, req.Password)
}

// Login verifies the credentials and returns the user on success. Unknown
// username and wrong password collapse into the same error.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
