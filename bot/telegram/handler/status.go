package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/mymmrac/telego"
)

// QueueList shows the user's pending entries.
func (c *Controller) QueueList(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	pending := c.Queue.Pending(a.userID)
	if len(pending) == 0 {
		c.notify(ctx, a, i18n.QueueListEmpty, queueListDelay)
		return
	}
	lines := make([]string, 0, len(pending))
	for i, entry := range pending {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, truncateTitle(entry.DisplayTitle(), maxButtonTitle)))
	}
	c.notify(ctx, a, i18n.QueueList, queueListDelay, "count", len(pending), "items", strings.Join(lines, "\n"))
}

// Status reports delivery cache statistics.
func (c *Controller) Status(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	var total, mine, sent int64
	if c.Repo != nil {
		var err error
		if total, err = c.Repo.Count(ctx); err != nil {
			c.logRepo("count deliveries", err)
		}
		if mine, err = c.Repo.CountByUserID(ctx, a.userID); err != nil {
			c.logRepo("count user deliveries", err)
		}
		if sent, err = c.Repo.GetSendCount(ctx); err != nil {
			c.logRepo("read send count", err)
		}
	}
	c.notify(ctx, a, i18n.Status, statusDelay, "total", total, "user", mine, "sent", sent)
}

func (c *Controller) logRepo(action string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(action+" failed", "error", err)
	}
}
