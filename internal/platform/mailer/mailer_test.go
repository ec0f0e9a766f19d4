// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avpech/yamdb-final/internal/platform/mailer"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	fail     bool
	release  chan struct{}
}

func (sender *recordingSender) Send(_ context.Context, message mailer.Message) error {
	if sender.release != nil {
		<-sender.release
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.messages = append(sender.messages, message)
	if sender.fail {
		return errors.New("relay unavailable")
	}
	return nil
}

func (sender *recordingSender) count() int {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	return len(sender.messages)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestRender_ConfirmationCode verifies that the embedded template renders
both blocks with the supplied data.
*/
func TestRender_ConfirmationCode(t *testing.T) {
	message, err := mailer.Render(mailer.ConfirmationCodeTemplate, "critic@example.com", map[string]any{
		"Username":  "critic",
		"Code":      "abc-123",
		"ExpiresAt": time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "critic@example.com", message.To)
	assert.Equal(t, "YaMDb confirmation code", message.Subject)
	assert.Contains(t, message.Body, "abc-123")
	assert.Contains(t, message.Body, "Hi critic,")
	assert.Contains(t, message.Body, "2026-01-02 03:04 UTC")
}

/*
TestRender_UnknownTemplate verifies that a missing template is an error.
*/
func TestRender_UnknownTemplate(t *testing.T) {
	_, err := mailer.Render("missing.tmpl", "a@b.c", nil)
	assert.Error(t, err)
}

/*
TestDispatcher_DrainsOnClose verifies that every accepted message is
delivered before Close returns.
*/
func TestDispatcher_DrainsOnClose(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := mailer.NewDispatcher(sender, quietLogger(), 8, time.Second)

	for i := 0; i < 5; i++ {
		assert.True(t, dispatcher.Dispatch(mailer.Message{To: "user@example.com"}))
	}

	require.NoError(t, dispatcher.Close(context.Background()))
	assert.Equal(t, 5, sender.count())

	// A closed dispatcher refuses new work.
	assert.False(t, dispatcher.Dispatch(mailer.Message{To: "late@example.com"}))
	require.NoError(t, dispatcher.Close(context.Background()))
}

/*
TestDispatcher_FailuresAreSwallowed verifies that a failing relay does not
stop the worker.
*/
func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	sender := &recordingSender{fail: true}
	dispatcher := mailer.NewDispatcher(sender, quietLogger(), 4, time.Second)

	assert.True(t, dispatcher.Dispatch(mailer.Message{To: "a@example.com"}))
	assert.True(t, dispatcher.Dispatch(mailer.Message{To: "b@example.com"}))

	require.NoError(t, dispatcher.Close(context.Background()))
	assert.Equal(t, 2, sender.count())
}

/*
TestDispatcher_QueueFull verifies that Dispatch never blocks the caller.
*/
func TestDispatcher_QueueFull(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	dispatcher := mailer.NewDispatcher(sender, quietLogger(), 1, time.Second)

	// The worker holds at most one message in flight and one in the queue.
	accepted := 0
	for i := 0; i < 5; i++ {
		if dispatcher.Dispatch(mailer.Message{To: "user@example.com"}) {
			accepted++
		}
	}
	assert.GreaterOrEqual(t, accepted, 1)
	assert.LessOrEqual(t, accepted, 2)

	close(sender.release)
	require.NoError(t, dispatcher.Close(context.Background()))
	assert.Equal(t, accepted, sender.count())
}

/*
TestDispatcher_CloseHonoursContext verifies that Close gives up when its
context ends before the queue drains.
*/
func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	dispatcher := mailer.NewDispatcher(sender, quietLogger(), 2, time.Second)
	require.True(t, dispatcher.Dispatch(mailer.Message{To: "user@example.com"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, dispatcher.Close(ctx), context.DeadlineExceeded)

	close(sender.release)
	require.NoError(t, dispatcher.Close(context.Background()))
}

/*
TestLogSender verifies the fallback sender never fails.
*/
func TestLogSender(t *testing.T) {
	sender := mailer.NewLogSender(quietLogger())
	assert.NoError(t, sender.Send(context.Background(), mailer.Message{To: "a@b.c", Subject: "s", Body: "b"}))
}
