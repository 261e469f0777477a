package http

import (
	"errors"
	"net/http"

	"creatorpay/pkg/units"
	"creatorpay/services/admin/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, units.ErrInvalidAddress), errors.Is(err, usecase.ErrNoFunds):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotRegistered):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetOverview godoc
// @Summary      Platform overview
// @Description  Owner, registered creators with balances, totals and average platform share
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Overview
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/overview [get]
func (h *AdminHandler) GetOverview(c *gin.Context) {
	overview, err := h.adminUseCase.Overview(c.Request.Context())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// WithdrawPlatformCut godoc
// @Summary      Prepare platform withdrawal
// @Description  Unsigned withdrawPlatformCut transaction for one creator's accumulated platform balance
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        address path string true "Creator address"
// @Success      200  {object}  eth.PreparedTx
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/creators/{address}/withdraw [post]
func (h *AdminHandler) WithdrawPlatformCut(c *gin.Context) {
	tx, err := h.adminUseCase.PrepareWithdrawPlatformCut(c.Request.Context(), c.Param("address"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}
