package analytics

import (
	"context"
	"log/slog"

	"github.com/minisearch-labs/searchrank/pkg/logger"
)

// Collector buffers search events and drains them to the Store in the
// background. Track never blocks: when the buffer is full the event is
// dropped with a warning.
type Collector struct {
	store   *Store
	eventCh chan SearchEvent
	logger  *slog.Logger
	done    chan struct{}
}

func NewCollector(store *Store, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Collector{
		store:   store,
		eventCh: make(chan SearchEvent, bufferSize),
		logger:  logger.WithComponent("analytics-collector"),
		done:    make(chan struct{}),
	}
}

func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				if err := c.store.Save(ctx, event); err != nil {
					c.logger.Error("failed to save search event", "error", err)
				}
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

func (c *Collector) Track(event SearchEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("search event dropped (buffer full)")
	}
}

func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			if err := c.store.Save(context.Background(), event); err != nil {
				c.logger.Error("failed to save search event during drain", "error", err)
			}
		default:
			return
		}
	}
}
