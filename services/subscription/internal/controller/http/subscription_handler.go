package http

import (
	"errors"
	"net/http"

	"creatorpay/pkg/units"
	"creatorpay/services/subscription/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionUseCase usecase.SubscriptionUseCase
}

func NewSubscriptionHandler(subscriptionUseCase usecase.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, units.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotRegistered):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// ListSubscriptions godoc
// @Summary      List subscriptions
// @Description  Every registered creator with the caller's expiry and whether access is active
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Only active subscriptions"
// @Success      200  {array}   entity.Subscription
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	activeOnly := c.Query("active") == "true"
	subscriptions, err := h.subscriptionUseCase.ListForUser(c.Request.Context(), userID.(string), activeOnly)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subscriptions, "count": len(subscriptions)})
}

// Subscribe godoc
// @Summary      Prepare subscription
// @Description  Returns the payable subscribe call for the creator's current fee
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        creator path string true "Creator address"
// @Success      200  {object}  entity.SubscribeIntent
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/{creator} [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	intent, err := h.subscriptionUseCase.PrepareSubscribe(c.Request.Context(), userID.(string), c.Param("creator"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, intent)
}

// GetStatus godoc
// @Summary      Subscription status
// @Description  Whether the caller is subscribed to the creator and until when
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        creator path string true "Creator address"
// @Success      200  {object}  entity.Status
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /subscriptions/{creator} [get]
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.subscriptionUseCase.Status(c.Request.Context(), userID.(string), c.Param("creator"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}
