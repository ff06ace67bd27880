package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/liuran001/tunebot/bot/link"
	"github.com/liuran001/tunebot/bot/metrics"
	"github.com/liuran001/tunebot/bot/queue"
	"github.com/liuran001/tunebot/bot/session"
	"github.com/liuran001/tunebot/bot/tracker"
	"github.com/mymmrac/telego"
)

// Searcher finds videos for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]session.Result, error)
}

// LinkClassifier recognizes media links in a message.
type LinkClassifier interface {
	Classify(ctx context.Context, text string) (link.Link, bool)
}

// QueueRunner drains one user's queue.
type QueueRunner interface {
	Run(ctx context.Context, userID int64)
}

// Controller turns chat events into session, queue and tracker operations.
// Every piece of state is keyed by the sender's user ID.
type Controller struct {
	Transport botpkg.Transport
	Sessions  *session.Manager
	Queue     *queue.Queue
	Processor QueueRunner
	Tracker   *tracker.Tracker
	Links     LinkClassifier
	Search    Searcher
	Catalog   *i18n.Catalog
	Languages *i18n.Preferences
	Repo      botpkg.DeliveryRepository
	Metrics   *metrics.Metrics
	Logger    botpkg.Logger

	// Background outlives single updates; queue processors run under it.
	Background context.Context

	processors sync.WaitGroup
}

// actor is the user behind an update and the chat to answer in.
type actor struct {
	userID    int64
	chatID    int64
	firstName string
	langCode  string
}

func messageActor(message *telego.Message) (actor, bool) {
	if message == nil || message.From == nil {
		return actor{}, false
	}
	return actor{
		userID:    message.From.ID,
		chatID:    message.Chat.ID,
		firstName: message.From.FirstName,
		langCode:  message.From.LanguageCode,
	}, true
}

// Wait blocks until every started queue processor returned.
func (c *Controller) Wait() {
	c.processors.Wait()
}

func (c *Controller) lang(ctx context.Context, a actor) string {
	if c.Languages == nil {
		return c.Catalog.Fallback()
	}
	return c.Languages.Language(ctx, a.userID, a.langCode)
}

func (c *Controller) text(ctx context.Context, a actor, key i18n.Key, args ...any) string {
	return c.Catalog.T(c.lang(ctx, a), key, args...)
}

// notify sends a tracked notice that expires after delay, or stays when delay is zero.
func (c *Controller) notify(ctx context.Context, a actor, key i18n.Key, delay time.Duration, args ...any) int {
	return c.Tracker.Notify(ctx, a.userID, a.chatID, c.text(ctx, a, key, args...), delay)
}

// dismiss deletes a tracked message and forgets it once gone.
func (c *Controller) dismiss(ctx context.Context, a actor, chatID int64, messageID int) {
	if tracker.BestEffortDelete(ctx, c.Transport, chatID, messageID) {
		c.Tracker.Untrack(a.userID, chatID, messageID)
	}
}

func (c *Controller) enqueue(ctx context.Context, a actor, entry queue.Entry, source string) {
	entry.ChatID = a.chatID
	entry.ClientLanguage = a.langCode
	entry, outcome := c.Queue.Enqueue(a.userID, entry)
	c.Metrics.RecordEnqueue(source)
	if c.Logger != nil {
		c.Logger.Debug("queued", "user_id", a.userID, "url", entry.URL, "outcome", outcome.String())
	}
	c.notify(ctx, a, i18n.QueueAdded, queueAddedDelay, "title", entry.DisplayTitle())
	if outcome == queue.StartedNewProcessor {
		c.startProcessor(a.userID)
	}
}

func (c *Controller) startProcessor(userID int64) {
	ctx := c.Background
	if ctx == nil {
		ctx = context.Background()
	}
	c.processors.Add(1)
	go func() {
		defer c.processors.Done()
		c.Processor.Run(ctx, userID)
	}()
}

// cancel ends the search, drops pending entries and sweeps tracked messages.
// An entry already being fetched still completes.
func (c *Controller) cancel(ctx context.Context, a actor) {
	c.Sessions.End(a.userID)
	dropped := c.Queue.Clear(a.userID)
	deleted := c.Tracker.ClearAll(ctx, a.userID)
	if c.Logger != nil {
		c.Logger.Debug("session cancelled", "user_id", a.userID, "dropped", dropped, "deleted", deleted)
	}
	c.notify(ctx, a, i18n.CancelSearch, cancelDelay)
}

func truncateTitle(title string, limit int) string {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) <= limit {
		return title
	}
	return string(runes[:limit]) + "..."
}
