package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayasqualli/bookshelf/internal/api/models"
	apirepository "github.com/ayasqualli/bookshelf/internal/api/repository"
	"github.com/ayasqualli/bookshelf/internal/api/response"
	"github.com/ayasqualli/bookshelf/internal/api/service"
	"github.com/ayasqualli/bookshelf/internal/repository"
)

// UserController handles registration, login and logout.
type UserController struct {
	userService  service.UserService
	sessions     repository.SessionRepository
	cookieName   string
	cookieMaxAge int
}

// NewUserController creates a new UserController. ttl bounds the session
// cookie lifetime; the server-side session carries the same TTL.
func NewUserController(userService service.UserService, sessions repository.SessionRepository, cookieName string, ttl time.Duration) *UserController {
	return &UserController{
		userService:  userService,
		sessions:     sessions,
		cookieName:   cookieName,
		cookieMaxAge: int(ttl.Seconds()),
	}
}

// Register handles the user registration endpoint. A successful registration
// immediately logs the new user in.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, apirepository.ErrDuplicateUsername):
			response.ErrorResponse(c, http.StatusConflict, err.Error())
		default:
			slog.Error("registration failed", "error", err)
			response.ErrorResponse(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	if !uc.establishSession(c, user.ID) {
		return
	}
	response.SuccessResponse(c, gin.H{"id": user.ID, "username": user.Username})
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			return
		}
		slog.Error("login failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "login failed")
		return
	}

	if !uc.establishSession(c, user.ID) {
		return
	}
	response.SuccessResponse(c, gin.H{"id": user.ID, "username": user.Username})
}

// Logout clears the session, server side and cookie both. Logging out
// without a session is fine.
func (uc *UserController) Logout(c *gin.Context) {
	if token, err := c.Cookie(uc.cookieName); err == nil && token != "" {
		if err := uc.sessions.Delete(c.Request.Context(), token); err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}
	c.SetCookie(uc.cookieName, "", -1, "/", "", false, true)
	response.SuccessResponse(c, gin.H{"message": "logged out"})
}

// establishSession mints a session token and hands it to the client as an
// http-only cookie. Any previous identity on this client is replaced.
func (uc *UserController) establishSession(c *gin.Context, userID int64) bool {
	token, err := uc.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to create session")
		return false
	}
	c.SetCookie(uc.cookieName, token, uc.cookieMaxAge, "/", "", false, true)
	return true
}
