// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher delivers queued messages from a single background worker.
//
// Delivery failures are logged and dropped; callers only learn whether the
// message was accepted into the queue.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	done   chan struct{}
}

// NewDispatcher starts the worker. queueSize bounds the number of messages
// waiting for delivery.
func NewDispatcher(sender Sender, logger *slog.Logger, queueSize int, sendTimeout time.Duration) *Dispatcher {
	dispatcher := &Dispatcher{
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
		queue:       make(chan Message, queueSize),
		done:        make(chan struct{}),
	}

	go dispatcher.run()
	return dispatcher
}

// Dispatch enqueues message without blocking.
//
// It returns false when the queue is full or the dispatcher is closed.
func (dispatcher *Dispatcher) Dispatch(message Message) bool {
	dispatcher.mu.RLock()
	defer dispatcher.mu.RUnlock()

	if dispatcher.closed {
		dispatcher.logger.Warn("mail_dropped_dispatcher_closed", slog.String("to", message.To))
		return false
	}

	select {
	case dispatcher.queue <- message:
		return true
	default:
		dispatcher.logger.Warn("mail_dropped_queue_full", slog.String("to", message.To))
		return false
	}
}

// Close stops accepting messages and waits until the queue is drained or ctx ends.
func (dispatcher *Dispatcher) Close(ctx context.Context) error {
	dispatcher.mu.Lock()
	if !dispatcher.closed {
		dispatcher.closed = true
		close(dispatcher.queue)
	}
	dispatcher.mu.Unlock()

	select {
	case <-dispatcher.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (dispatcher *Dispatcher) run() {
	defer close(dispatcher.done)

	for message := range dispatcher.queue {
		ctx, cancel := context.WithTimeout(context.Background(), dispatcher.sendTimeout)
		err := dispatcher.sender.Send(ctx, message)
		cancel()

		if err != nil {
			dispatcher.logger.Error("mail_delivery_failed",
				slog.String("to", message.To),
				slog.String("subject", message.Subject),
				slog.Any("error", err),
			)
			continue
		}

		dispatcher.logger.Info("mail_delivered", slog.String("to", message.To))
	}
}
