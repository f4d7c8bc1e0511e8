package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cartamenu/carta-rag/internal/domains/embedjob"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// CatalogHandler receives change notifications from the catalog store.
type CatalogHandler struct {
	enqueuer embedjob.Enqueuer
	logger   *logger.Logger
}

func NewCatalogHandler(enqueuer embedjob.Enqueuer, lg *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		enqueuer: enqueuer,
		logger:   lg,
	}
}

// EnqueueEmbedding queues embedding regeneration for a product
// @Summary Trigger embedding regeneration
// @Description Fire-and-forget hook the catalog calls when a product's embeddable fields change
// @Tags Catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 202 {object} QueuedResponse "Job accepted"
// @Failure 400 {object} ErrorResponse "Invalid product id"
// @Failure 500 {object} ErrorResponse "Failed to enqueue"
// @Router /internal/products/{id}/embedding [post]
func (h *CatalogHandler) EnqueueEmbedding(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid product id"})
		return
	}

	if err := h.enqueuer.EnqueueProductEmbedding(c.Request.Context(), uint(id)); err != nil {
		h.logger.Errorf("failed to enqueue embedding for product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to enqueue embedding job"})
		return
	}

	c.JSON(http.StatusAccepted, QueuedResponse{Status: "queued", ProductID: uint(id)})
}
