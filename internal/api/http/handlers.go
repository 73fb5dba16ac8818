package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/domain/registry"
	"github.com/adi-os/plugin-registry/internal/domain/search"
	"github.com/adi-os/plugin-registry/internal/infrastructure/logging"
	"github.com/adi-os/plugin-registry/internal/infrastructure/monitoring"
)

// ServiceName appears in health documents and logs.
const ServiceName = "plugin-registry"

// Handlers holds HTTP handler dependencies
type Handlers struct {
	store   *registry.Store
	counter *registry.DownloadCounter
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandlers creates HTTP handlers
func NewHandlers(store *registry.Store, counter *registry.DownloadCounter, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		store:   store,
		counter: counter,
		metrics: metrics,
		logger:  logger,
	}
}

// Root handles the root endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"status":  "running",
		"version": "1.0.0",
	})
}

// Health handles health checks
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   ServiceName,
		"timestamp": time.Now().Unix(),
	})
}

// GetIndex serves the full registry index document
func (h *Handlers) GetIndex(c *gin.Context) {
	idx, err := h.store.LoadIndex()
	if err != nil {
		h.fail(c, "load index", err)
		return
	}
	if h.metrics != nil {
		h.metrics.SetIndexSize(len(idx.Packages), len(idx.Plugins))
	}
	c.JSON(http.StatusOK, idx)
}

// Search filters index entries by query and kind
func (h *Handlers) Search(c *gin.Context) {
	idx, err := h.store.LoadIndex()
	if err != nil {
		h.fail(c, "search", err)
		return
	}

	query := c.Query("q")
	scope := search.ParseScope(c.Query("kind"))
	c.JSON(http.StatusOK, search.Query(idx, query, scope))
}

// fail maps storage errors onto HTTP responses and logs server faults.
func (h *Handlers) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, registry.ErrEmptyPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty payload"})
	case errors.Is(err, registry.ErrCorruptData):
		h.logger.Error("corrupt stored data",
			zap.String("op", op),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "corrupt stored data"})
	default:
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
