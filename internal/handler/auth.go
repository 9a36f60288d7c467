package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/domain"
	"flock/internal/middleware"
	"flock/internal/service"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the HTTP request body for registration.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PhoneNumber     string `json:"phoneNumber"`
	ProfilePhotoURL string `json:"profilePhotoUrl"`
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is a signed token with the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PhoneNumber:     req.PhoneNumber,
		ProfilePhotoURL: req.ProfilePhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AuthResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

// principal returns the caller on routes behind RequireAuth.
func principal(c *gin.Context) domain.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
