package http

import (
	"errors"
	"net/http"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/units"
	"creatorpay/services/auth/internal/repo/cache"
	"creatorpay/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type NonceRequest struct {
	Address string `json:"address" binding:"required"`
}

type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, units.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, eth.ErrBadSignature), errors.Is(err, cache.ErrNonceNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Nonce godoc
// @Summary      Request login challenge
// @Description  Returns a one-time message for the wallet to sign with personal_sign
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body NonceRequest true "Wallet address"
// @Success      200  {object}  entity.Challenge
// @Failure      400  {object}  map[string]string
// @Router       /auth/nonce [post]
func (h *AuthHandler) Nonce(c *gin.Context) {
	var req NonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.authUseCase.Nonce(c.Request.Context(), req.Address)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// Login godoc
// @Summary      Log in with a wallet signature
// @Description  Verifies the signed challenge and issues a JWT whose role reflects contract state
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Address and signature"
// @Success      200  {object}  entity.Session
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authUseCase.Login(c.Request.Context(), req.Address, req.Signature)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Account
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.authUseCase.Me(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}
