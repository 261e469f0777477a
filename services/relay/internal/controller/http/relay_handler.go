package http

import (
	"errors"
	"net/http"
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/services/relay/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RelayHandler struct {
	relayUseCase usecase.RelayUseCase
}

func NewRelayHandler(relayUseCase usecase.RelayUseCase) *RelayHandler {
	return &RelayHandler{
		relayUseCase: relayUseCase,
	}
}

type SubmitRequest struct {
	RawTx string `json:"raw_tx" binding:"required"`
}

// errorStatus treats anything that is not a malformed request as an upstream node failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, eth.ErrInvalidRawTx),
		errors.Is(err, eth.ErrWrongTarget),
		errors.Is(err, eth.ErrWrongChain),
		errors.Is(err, usecase.ErrInvalidHash):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// Submit godoc
// @Summary      Relay a signed transaction
// @Description  Broadcasts a wallet-signed transaction to the subscription contract
// @Tags         relay
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitRequest true "Signed transaction"
// @Success      202  {object}  entity.Submission
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /tx [post]
func (h *RelayHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.relayUseCase.Submit(c.Request.Context(), req.RawTx)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, sub)
}

// GetReceipt godoc
// @Summary      Transaction receipt
// @Description  pending, success or failed, with block number and gas used once mined
// @Tags         relay
// @Produce      json
// @Param        hash path string true "Transaction hash"
// @Param        wait query string false "Wait for mining, e.g. 10s"
// @Success      200  {object}  eth.Receipt
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /tx/{hash} [get]
func (h *RelayHandler) GetReceipt(c *gin.Context) {
	var wait time.Duration
	if raw := c.Query("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wait duration"})
			return
		}
		wait = d
	}

	receipt, err := h.relayUseCase.Receipt(c.Request.Context(), c.Param("hash"), wait)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, receipt)
}
