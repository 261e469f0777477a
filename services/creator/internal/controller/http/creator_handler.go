package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/models"
	"creatorpay/pkg/units"
	"creatorpay/services/creator/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreatorHandler struct {
	creatorUseCase usecase.CreatorUseCase
}

func NewCreatorHandler(creatorUseCase usecase.CreatorUseCase) *CreatorHandler {
	return &CreatorHandler{
		creatorUseCase: creatorUseCase,
	}
}

type RegisterRequest struct {
	Fee           string `json:"fee" binding:"required"`
	PlatformShare int    `json:"platform_share" binding:"required"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type NameResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	HasName bool   `json:"has_name"`
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, units.ErrInvalidAddress),
		errors.Is(err, units.ErrInvalidAmount),
		errors.Is(err, models.ErrFeeTooLow),
		errors.Is(err, models.ErrInvalidShare),
		errors.Is(err, usecase.ErrNameTooLong),
		errors.Is(err, usecase.ErrNoFunds):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, eth.ErrNoContract):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func currentUser(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID.(string), true
}

// GetDashboard godoc
// @Summary      Creator dashboard
// @Description  Registration status, fee, platform share, earnings and subscriber count of the caller
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Dashboard
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /creator/dashboard [get]
func (h *CreatorHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.creatorUseCase.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetActivities godoc
// @Summary      Subscription history
// @Description  Subscriptions received by the caller, newest first
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200  {array}   entity.Activity
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /creator/activities [get]
func (h *CreatorHandler) GetActivities(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultActivityLimit)))

	activities, err := h.creatorUseCase.GetActivities(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities, "count": len(activities)})
}

// Register godoc
// @Summary      Prepare creator registration
// @Description  Validates fee and platform share and returns the registerCreator call to sign
// @Tags         creator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RegisterRequest true "Fee in ETH and platform share percent"
// @Success      200  {object}  eth.PreparedTx
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /creator/register [post]
func (h *CreatorHandler) Register(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.creatorUseCase.PrepareRegistration(c.Request.Context(), userID, req.Fee, req.PlatformShare)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Withdraw godoc
// @Summary      Prepare earnings withdrawal
// @Description  Returns the withdrawCreatorEarnings call to sign
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  eth.PreparedTx
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /creator/withdraw [post]
func (h *CreatorHandler) Withdraw(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tx, err := h.creatorUseCase.PrepareWithdrawal(c.Request.Context(), userID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// SetName godoc
// @Summary      Set display name
// @Description  Stores the caller's display name; blank names are ignored
// @Tags         creator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NameRequest true "Display name"
// @Success      200  {object}  entity.Profile
// @Failure      400  {object}  map[string]string
// @Router       /creator/profile/name [put]
func (h *CreatorHandler) SetName(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.creatorUseCase.SetName(userID, req.Name)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// RemoveName godoc
// @Summary      Remove display name
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /creator/profile/name [delete]
func (h *CreatorHandler) RemoveName(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.creatorUseCase.RemoveName(userID); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Name removed"})
}

// GetName godoc
// @Summary      Get display name
// @Description  Stored name of a creator, or the default derived from the address
// @Tags         creator
// @Produce      json
// @Param        address path string true "Creator address"
// @Success      200  {object}  NameResponse
// @Failure      400  {object}  map[string]string
// @Router       /creators/{address}/name [get]
func (h *CreatorHandler) GetName(c *gin.Context) {
	address := c.Param("address")

	name, err := h.creatorUseCase.GetName(address)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	hasName, err := h.creatorUseCase.HasName(address)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NameResponse{Address: strings.ToLower(address), Name: name, HasName: hasName})
}

// ListNames godoc
// @Summary      List display names
// @Description  Every stored creator name keyed by lowercase address
// @Tags         creator
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /creators/names [get]
func (h *CreatorHandler) ListNames(c *gin.Context) {
	names, err := h.creatorUseCase.ListNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, names)
}

// UploadAvatar godoc
// @Summary      Upload creator avatar
// @Description  Upload avatar image for the caller's creator profile
// @Tags         creator
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image file"
// @Success      200  {object}  entity.Profile
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /creator/profile/avatar [post]
func (h *CreatorHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".gif" && ext != ".webp" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format. Only jpg, jpeg, png, gif, webp are allowed"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer src.Close()

	fileKey := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New().String(), ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	profile, err := h.creatorUseCase.UploadAvatar(userID, src, fileKey, contentType)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
