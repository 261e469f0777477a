package http

import (
	"errors"
	"net/http"

	"creatorpay/pkg/units"
	"creatorpay/services/discovery/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DiscoveryHandler struct {
	discoveryUseCase usecase.DiscoveryUseCase
}

func NewDiscoveryHandler(discoveryUseCase usecase.DiscoveryUseCase) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryUseCase: discoveryUseCase,
	}
}

// viewerAddress prefers the authenticated wallet over the viewer query parameter.
func viewerAddress(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return userID
	}
	return c.Query("viewer")
}

// ListCreators godoc
// @Summary      List creators
// @Description  Registered creators discovered from contract events, with resolved display names
// @Tags         discovery
// @Produce      json
// @Param        viewer query string false "Viewer wallet address"
// @Success      200  {object}  entity.Listing
// @Failure      500  {object}  map[string]string
// @Router       /creators [get]
func (h *DiscoveryHandler) ListCreators(c *gin.Context) {
	listing, err := h.discoveryUseCase.ListCreators(c.Request.Context(), viewerAddress(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetCreator godoc
// @Summary      Get creator card
// @Description  On-chain creator data with display name and the viewer's subscription state
// @Tags         discovery
// @Produce      json
// @Param        address path string true "Creator address"
// @Param        viewer query string false "Viewer wallet address"
// @Success      200  {object}  entity.CreatorCard
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /creators/{address} [get]
func (h *DiscoveryHandler) GetCreator(c *gin.Context) {
	card, err := h.discoveryUseCase.GetCreatorCard(c.Request.Context(), c.Param("address"), viewerAddress(c))
	if err != nil {
		if errors.Is(err, units.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, card)
}

// ContractStatus godoc
// @Summary      Contract status
// @Description  Checks that the subscription contract is deployed on the configured network
// @Tags         discovery
// @Produce      json
// @Success      200  {object}  eth.ContractStatus
// @Failure      503  {object}  map[string]interface{}
// @Router       /contract [get]
func (h *DiscoveryHandler) ContractStatus(c *gin.Context) {
	status, err := h.discoveryUseCase.ContractStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "contract": status})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Refresh godoc
// @Summary      Refresh creator listing
// @Description  Drops the cached listing so the next request reads the chain again
// @Tags         discovery
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /creators/refresh [post]
func (h *DiscoveryHandler) Refresh(c *gin.Context) {
	if err := h.discoveryUseCase.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Creator listing refreshed"})
}
