package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fadilmartias/career-pulse/internal/logger"
	"github.com/fadilmartias/career-pulse/internal/model"
)

var (
	ErrPublishQueueFull = errors.New("publish queue full")
	ErrPublisherClosed  = errors.New("publisher closed")
)

const (
	asyncPublishTimeout   = 5 * time.Second
	defaultPublishBacklog = 256
)

// AsyncPublisher queues events and hands them to the wrapped publisher from
// one worker goroutine, so a slow broker never blocks the caller. Events keep
// their order; when the queue is full new events are dropped.
type AsyncPublisher struct {
	next   EventPublisherInterface
	queue  chan model.WorkspaceEvent
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncPublisher(next EventPublisherInterface, size int) *AsyncPublisher {
	if size <= 0 {
		size = defaultPublishBacklog
	}
	p := &AsyncPublisher{
		next:  next,
		queue: make(chan model.WorkspaceEvent, size),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) Publish(_ context.Context, event model.WorkspaceEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		if err := p.next.Publish(ctx, event); err != nil {
			logger.Log.WithField("workspace", event.WorkspaceID).Warnf("Failed to publish workspace event: %v", err)
		}
		cancel()
	}
}

// Close stops accepting events and waits until the queued ones are handed
// over or ctx ends.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
