package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/fernbooks/bookkeeping_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// authHandler issues bearer tokens for the single-operator deployment.
type authHandler struct {
	cfg *config.Config
}

func newAuthHandler(cfg *config.Config) *authHandler {
	return &authHandler{cfg: cfg}
}

// registerAuthRoutes registers the public token endpoint.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config) {
	h := newAuthHandler(cfg)

	auth := r.Group("/auth")
	{
		auth.POST("/token", h.issueToken)
	}
}

type tokenRequest struct {
	UserID string `json:"userID" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// issueToken godoc
// @Summary Issue a bearer token
// @Description Exchanges the shared operator secret for a signed JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body tokenRequest true "Operator credentials"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/token [post]
func (h *authHandler) issueToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for issueToken", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if req.Secret != h.cfg.JWTSecret {
		logger.Warn("Token request with invalid secret", slog.String("user_id", req.UserID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.cfg.JWTExpiryDuration)
	claims := jwt.RegisteredClaims{
		Subject:   req.UserID,
		Issuer:    h.cfg.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Info("Token issued", slog.String("user_id", req.UserID))
	c.JSON(http.StatusOK, tokenResponse{Token: signed, ExpiresAt: expiresAt})
}
