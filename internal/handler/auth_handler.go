package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error)
	Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.TokenPair, error)
	Revoke(ctx context.Context, refresh string) error
}

// AuthHandler wires the token endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Obtain a token pair
// @Description Authenticate by username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /token/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Description Exchange a refresh token for a new token pair. The presented token is revoked.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /token/refresh/ [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Revoke godoc
// @Summary Revoke a refresh token
// @Tags Authentication
// @Accept json
// @Param payload body dto.RevokeTokenRequest true "Refresh token"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /token/revoke/ [post]
func (h *AuthHandler) Revoke(c *gin.Context) {
	var req dto.RevokeTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		response.Error(c, appErrors.Field("refresh", "is required"))
		return
	}
	if err := h.service.Revoke(c.Request.Context(), req.Refresh); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
