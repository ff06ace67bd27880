// Package tracker remembers the bot messages shown to each user so they can be
// expired individually or swept together on cancel.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/state"
)

// Message identifies a sent message.
type Message struct {
	ChatID    int64
	MessageID int
}

// Deleter removes a message.
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// BestEffortDelete deletes a message and reports whether it worked. Failures are swallowed.
func BestEffortDelete(ctx context.Context, d Deleter, chatID int64, messageID int) (ok bool) {
	if d == nil || messageID == 0 {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return d.DeleteMessage(ctx, chatID, messageID) == nil
}

// Tracker records messages per user.
type Tracker struct {
	transport bot.Transport
	store     state.Store[[]Message]
	logger    bot.Logger
	wg        sync.WaitGroup
}

// New creates a Tracker. A nil store uses an in-memory one.
func New(transport bot.Transport, store state.Store[[]Message], logger bot.Logger) *Tracker {
	if store == nil {
		store = state.NewMemoryStore[[]Message]()
	}
	return &Tracker{transport: transport, store: store, logger: logger}
}

// Track adds a message to the user's set. Duplicates are ignored.
func (t *Tracker) Track(userID, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	msg := Message{ChatID: chatID, MessageID: messageID}
	t.store.Update(userID, func(current []Message, _ bool) ([]Message, bool) {
		for _, m := range current {
			if m == msg {
				return current, true
			}
		}
		next := make([]Message, 0, len(current)+1)
		next = append(next, current...)
		return append(next, msg), true
	})
}

// Untrack removes one message from the user's set.
func (t *Tracker) Untrack(userID, chatID int64, messageID int) {
	msg := Message{ChatID: chatID, MessageID: messageID}
	t.store.Update(userID, func(current []Message, ok bool) ([]Message, bool) {
		if !ok {
			return nil, false
		}
		next := make([]Message, 0, len(current))
		for _, m := range current {
			if m != msg {
				next = append(next, m)
			}
		}
		return next, len(next) > 0
	})
}

// Tracked returns a copy of the user's tracked messages.
func (t *Tracker) Tracked(userID int64) []Message {
	current, ok := t.store.Get(userID)
	if !ok {
		return nil
	}
	out := make([]Message, len(current))
	copy(out, current)
	return out
}

// ExpireAfter deletes the message once delay has passed, without blocking the caller.
// The message stays tracked when the delete fails. Cancelling ctx drops the timer.
func (t *Tracker) ExpireAfter(ctx context.Context, userID, chatID int64, messageID int, delay time.Duration) {
	if messageID == 0 {
		return
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if BestEffortDelete(ctx, t.transport, chatID, messageID) {
			t.Untrack(userID, chatID, messageID)
			return
		}
		if t.logger != nil {
			t.logger.Debug("expire message failed", "user_id", userID, "chat_id", chatID, "message_id", messageID)
		}
	}()
}

// ClearAll deletes every tracked message of the user once and forgets them all,
// whether or not the deletes succeed.
func (t *Tracker) ClearAll(ctx context.Context, userID int64) int {
	var messages []Message
	t.store.Update(userID, func(current []Message, _ bool) ([]Message, bool) {
		messages = current
		return nil, false
	})

	deleted := 0
	for _, m := range messages {
		if BestEffortDelete(ctx, t.transport, m.ChatID, m.MessageID) {
			deleted++
		}
	}
	if t.logger != nil && len(messages) > 0 {
		t.logger.Debug("cleared tracked messages", "user_id", userID, "tracked", len(messages), "deleted", deleted)
	}
	return deleted
}

// Notify sends a text, tracks it and schedules its expiry when delay is positive.
// It returns the message ID, or 0 when sending failed.
func (t *Tracker) Notify(ctx context.Context, userID, chatID int64, text string, delay time.Duration) int {
	if t.transport == nil {
		return 0
	}
	messageID, err := t.transport.SendText(ctx, chatID, text, nil)
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("send notice failed", "user_id", userID, "chat_id", chatID, "error", err)
		}
		return 0
	}
	t.Track(userID, chatID, messageID)
	if delay > 0 {
		t.ExpireAfter(ctx, userID, chatID, messageID, delay)
	}
	return messageID
}

// Wait blocks until every scheduled expiry has run or been cancelled.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
