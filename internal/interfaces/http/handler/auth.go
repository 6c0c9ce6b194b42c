package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/returnhub/backend/internal/infrastructure/auth"
)

// AuthHandler issues and refreshes the bearer tokens the protected
// endpoints require
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	operators  *auth.OperatorRegistry
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtService *auth.JWTService, operators *auth.OperatorRegistry) *AuthHandler {
	return &AuthHandler{jwtService: jwtService, operators: operators}
}

// LoginRequest is the operator login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
}

// Login authenticates an operator and issues an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operator, err := h.operators.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.Unauthorized(c, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.issueToken(c, auth.GenerateTokenInput{
		UserID:   operator.ID,
		Username: operator.Username,
		Role:     operator.Role,
	})
}

// Refresh exchanges a still-valid bearer token for a fresh one
func (h *AuthHandler) Refresh(c *gin.Context) {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, prefix) {
		h.Unauthorized(c, "Bearer token required")
		return
	}

	claims, err := h.jwtService.ValidateToken(strings.TrimPrefix(header, prefix))
	if err != nil {
		h.Unauthorized(c, "Token is not valid")
		return
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Token is not valid")
		return
	}

	h.issueToken(c, auth.GenerateTokenInput{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	})
}

func (h *AuthHandler) issueToken(c *gin.Context, input auth.GenerateTokenInput) {
	token, expiresAt, err := h.jwtService.GenerateToken(input)
	if err != nil {
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    input.Username,
		Role:        input.Role,
	})
}
