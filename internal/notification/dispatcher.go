package notification

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dispatcher queues messages and delivers them in the background. Enqueue
// never blocks the caller: when the queue is full the message is dropped and
// logged, matching the best-effort delivery contract.
type Dispatcher struct {
	sender     Sender
	logger     *slog.Logger
	queue      chan Message
	maxRetries int
	retryDelay time.Duration
	group      *errgroup.Group
	cancel     context.CancelFunc
}

// NewDispatcher constructs a dispatcher with a bounded queue.
func NewDispatcher(sender Sender, logger *slog.Logger, queueSize, maxRetries int, retryDelay time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		sender:     sender,
		logger:     logger,
		queue:      make(chan Message, queueSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Start launches the delivery worker. Call Close to drain and stop.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.group, ctx = errgroup.WithContext(ctx)
	d.group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-d.queue:
				if !ok {
					return nil
				}
				d.deliver(ctx, msg)
			}
		}
	})
}

// Enqueue hands a message to the worker. It returns false when the queue is
// full and the message was dropped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("notification queue full, dropping message",
			"to", msg.To,
			"subject", msg.Subject,
		)
		return false
	}
}

// Close stops accepting messages, drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	close(d.queue)
	if d.group != nil {
		_ = d.group.Wait()
	}
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	var err error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.retryDelay):
			}
		}
		if err = d.sender.Send(ctx, msg); err == nil {
			d.logger.Debug("notification delivered", "to", msg.To, "subject", msg.Subject)
			return
		}
	}
	// Exhausted retries. Log and drop; the transition already succeeded.
	d.logger.Error("notification delivery failed",
		"to", msg.To,
		"subject", msg.Subject,
		"attempts", d.maxRetries+1,
		"error", err,
	)
}
