package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager) *AuthController {
	return &AuthController{service: service, sessions: sessions}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := ac.service.Register(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := ac.sessions.CreateSession(c.Request, account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": account.Username})
}

// Login handles POST /api/auth/login. Unknown usernames and wrong
// passwords both come back as 401; the distinction stays server-side.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := ac.service.Authenticate(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrUnknownAccount), errors.Is(err, auth.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := ac.sessions.CreateSession(c.Request, account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": account.Username})
}

// Logout handles POST /api/auth/logout.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
