package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher writes audit events to a store, either synchronously or via a
// buffered background worker. Emit never fails the calling request: a full
// buffer or store error is logged and dropped.
type Publisher struct {
	store  Store
	logger *slog.Logger
	buffer chan Event
	done   chan struct{}
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the
// given channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan Event, size)
		}
	}
}

func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: logger,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.buffer != nil {
		go p.drain()
	}
	return p
}

// Emit records an event. In async mode the event is enqueued; when the
// buffer is full the event is dropped rather than blocking the request.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.buffer == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "failed to append audit event",
				"action", string(event.Action),
				"form_id", event.FormID,
				"error", err.Error(),
			)
			return err
		}
		return nil
	}

	select {
	case p.buffer <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event",
			"action", string(event.Action),
			"form_id", event.FormID,
		)
	}
	return nil
}

// ListByForm exposes the trail for a form.
func (p *Publisher) ListByForm(ctx context.Context, formID string) ([]Event, error) {
	return p.store.ListByForm(ctx, formID)
}

func (p *Publisher) drain() {
	for {
		select {
		case event := <-p.buffer:
			if err := p.store.Append(context.Background(), event); err != nil {
				p.logger.Error("failed to append audit event",
					"action", string(event.Action),
					"form_id", event.FormID,
					"error", err.Error(),
				)
			}
		case <-p.done:
			// Flush whatever is still queued before exiting.
			for {
				select {
				case event := <-p.buffer:
					if err := p.store.Append(context.Background(), event); err != nil {
						p.logger.Error("failed to append audit event during flush",
							"action", string(event.Action),
							"error", err.Error(),
						)
					}
				default:
					return
				}
			}
		}
	}
}

// Close stops the background worker after flushing the buffer. Safe to
// call on a synchronous publisher.
func (p *Publisher) Close() {
	if p.buffer != nil {
		close(p.done)
	}
}
