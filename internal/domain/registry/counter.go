package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/adi-os/plugin-registry/internal/infrastructure/logging"
	"github.com/adi-os/plugin-registry/internal/shared/types"
)

// defaultCounterQueue bounds how many pending increments may queue before
// Record starts shedding, keeping download handlers non-blocking.
const defaultCounterQueue = 256

type downloadEvent struct {
	kind types.Kind
	id   string
}

// DownloadCounter applies download-count increments off the request path.
// Increments are funneled through a single worker goroutine so the index
// sees one writer; every failure or shed event is logged, never silent.
type DownloadCounter struct {
	store  *Store
	logger *logging.Logger
	events chan downloadEvent

	closeOnce sync.Once
	done      chan struct{}
}

// NewDownloadCounter starts the counter worker for the given store.
func NewDownloadCounter(store *Store, logger *logging.Logger) *DownloadCounter {
	if logger == nil {
		logger = logging.NewDefault()
	}
	c := &DownloadCounter{
		store:  store,
		logger: logger,
		events: make(chan downloadEvent, defaultCounterQueue),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Record enqueues one increment without blocking the caller. When the
// queue is full the event is shed and the loss logged.
func (c *DownloadCounter) Record(kind types.Kind, id string) {
	select {
	case c.events <- downloadEvent{kind: kind, id: id}:
	default:
		c.logger.Warn("download counter queue full, dropping increment",
			zap.String("kind", kind.String()),
			zap.String("id", id),
		)
	}
}

// Close drains pending increments and stops the worker.
func (c *DownloadCounter) Close() {
	c.closeOnce.Do(func() {
		close(c.events)
		<-c.done
	})
}

func (c *DownloadCounter) run() {
	defer close(c.done)
	for ev := range c.events {
		if err := c.store.IncrementDownloads(ev.kind, ev.id); err != nil {
			c.logger.Warn("download count update failed",
				zap.String("kind", ev.kind.String()),
				zap.String("id", ev.id),
				zap.Error(err),
			)
		}
	}
}
