package http

import (
	"net/http"

	"creatorpay/services/indexer/internal/usecase"

	"github.com/gin-gonic/gin"
)

type IndexerHandler struct {
	indexerUseCase usecase.IndexerUseCase
}

func NewIndexerHandler(indexerUseCase usecase.IndexerUseCase) *IndexerHandler {
	return &IndexerHandler{
		indexerUseCase: indexerUseCase,
	}
}

// GetStatus godoc
// @Summary      Indexer status
// @Description  Last indexed block, chain head, confirmed head and lag
// @Tags         indexer
// @Produce      json
// @Success      200  {object}  entity.Status
// @Failure      502  {object}  map[string]string
// @Router       /indexer/status [get]
func (h *IndexerHandler) GetStatus(c *gin.Context) {
	status, err := h.indexerUseCase.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Sync godoc
// @Summary      Run the indexer now
// @Description  Indexes the next confirmed block range; reports skipped when a run is already in progress
// @Tags         indexer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.SyncResult
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /indexer/sync [post]
func (h *IndexerHandler) Sync(c *gin.Context) {
	result, err := h.indexerUseCase.Sync(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
