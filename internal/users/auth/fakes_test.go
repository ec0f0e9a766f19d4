// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/avpech/yamdb-final/internal/platform/ctxutil"
	"github.com/avpech/yamdb-final/internal/platform/mailer"
	"github.com/avpech/yamdb-final/internal/platform/sec"
)

// mailbox records dispatched mail.
type mailbox struct {
	mu       sync.Mutex
	messages []mailer.Message
	refuse   bool
}

func (box *mailbox) Dispatch(message mailer.Message) bool {
	box.mu.Lock()
	defer box.mu.Unlock()
	if box.refuse {
		return false
	}
	box.messages = append(box.messages, message)
	return true
}

func (box *mailbox) count() int {
	box.mu.Lock()
	defer box.mu.Unlock()
	return len(box.messages)
}

// stubTokens issues a predictable token.
type stubTokens struct {
	lastUserID int64
	lastRole   sec.Role
}

func (tokens *stubTokens) GenerateAccessToken(userID int64, username string, role sec.Role, _ time.Duration) (string, error) {
	tokens.lastUserID = userID
	tokens.lastRole = role
	return "token-for-" + username, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// requestLog keeps the request ID seen by the handler for each message.
type requestLog struct {
	mu         sync.Mutex
	requestIDs map[string]string
}

func (log *requestLog) Enabled(context.Context, slog.Level) bool { return true }

func (log *requestLog) Handle(ctx context.Context, record slog.Record) error {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.requestIDs == nil {
		log.requestIDs = make(map[string]string)
	}
	log.requestIDs[record.Message] = ctxutil.GetRequestID(ctx)
	return nil
}

func (log *requestLog) WithAttrs([]slog.Attr) slog.Handler { return log }
func (log *requestLog) WithGroup(string) slog.Handler { return log }

func (log *requestLog) requestID(message string) (string, bool) {
	log.mu.Lock()
	defer log.mu.Unlock()
	id, found := log.requestIDs[message]
	return id, found
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
