package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/liuran001/tunebot/bot/link"
	"github.com/liuran001/tunebot/bot/queue"
	"github.com/liuran001/tunebot/bot/session"
	"github.com/mymmrac/telego"
)

// Search outcomes for metrics.
const (
	searchOK    = "ok"
	searchEmpty = "empty"
	searchError = "error"
)

// Text handles free text: a media link is queued, anything else is searched.
func (c *Controller) Text(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	if c.Links != nil {
		if l, found := c.Links.Classify(ctx, text); found {
			c.queueLink(ctx, a, l)
			return
		}
	}
	c.search(ctx, a, text)
}

func (c *Controller) queueLink(ctx context.Context, a actor, l link.Link) {
	if !l.Platform.Supported() {
		if c.Logger != nil {
			c.Logger.Info("link from unknown platform", "user_id", a.userID, "url", l.URL, "error", botpkg.ErrUnsupportedPlatform)
		}
		c.notify(ctx, a, i18n.PlatformUnsupported, unsupportedDelay)
		return
	}
	c.enqueue(ctx, a, queue.Entry{URL: l.URL, Platform: string(l.Platform)}, "link")
}

func (c *Controller) search(ctx context.Context, a actor, query string) {
	searchingID := c.notify(ctx, a, i18n.Searching, 0, "query", query)

	var results []session.Result
	var err error
	if c.Search == nil {
		err = errors.New("search client not configured")
	} else {
		results, err = c.Search.Search(ctx, query)
	}
	if err != nil {
		c.Metrics.RecordSearch(searchError)
		if c.Logger != nil {
			c.Logger.Warn("search failed", "user_id", a.userID, "query", query, "error", err)
		}
		c.dismiss(ctx, a, a.chatID, searchingID)
		c.notify(ctx, a, i18n.SearchError, searchErrorDelay)
		return
	}

	previous, err := c.Sessions.StartSearch(a.userID, a.chatID, query, results, searchingID)
	if errors.Is(err, botpkg.ErrEmptyResults) {
		c.Metrics.RecordSearch(searchEmpty)
		c.dismiss(ctx, a, a.chatID, searchingID)
		c.notify(ctx, a, i18n.NoResults, noResultsDelay)
		return
	}
	c.Metrics.RecordSearch(searchOK)

	if previous != nil && previous.ResultsMessageID != 0 {
		c.dismiss(ctx, a, previous.ChatID, previous.ResultsMessageID)
	}

	page, err := c.Sessions.Current(a.userID)
	if err != nil {
		return
	}
	c.renderPage(ctx, a, page)
}

// renderPage shows a page in the session's results message, or in a new one when
// that message cannot be edited.
func (c *Controller) renderPage(ctx context.Context, a actor, page session.Page) {
	text := c.text(ctx, a, i18n.Results, "query", page.Query, "page", page.Index+1, "user", a.firstName)
	keyboard := resultsKeyboard(page)
	chatID := page.ChatID
	if chatID == 0 {
		chatID = a.chatID
	}

	if page.ResultsMessageID != 0 {
		err := c.Transport.EditText(ctx, chatID, page.ResultsMessageID, text, keyboard)
		if err == nil {
			return
		}
		c.logTransport("edit results", a, err)
	}

	msgID, err := c.Transport.SendText(ctx, chatID, text, keyboard)
	if err != nil {
		c.logTransport("send results", a, err)
		return
	}
	c.Sessions.SetResultsMessage(a.userID, msgID)
	c.Tracker.Track(a.userID, chatID, msgID)
}

func resultsKeyboard(page session.Page) botpkg.Keyboard {
	keyboard := make(botpkg.Keyboard, 0, len(page.Items)+1)
	for i, item := range page.Items {
		index := page.Offset + i
		keyboard = append(keyboard, []botpkg.Button{{
			Text: fmt.Sprintf("%d. %s", index+1, truncateTitle(item.Title, maxButtonTitle)),
			Data: selectData(page.Gen, index),
		}})
	}

	nav := make([]botpkg.Button, 0, 3)
	if page.HasPrev {
		nav = append(nav, botpkg.Button{Text: navPrev, Data: pageData(page.Gen, "prev")})
	}
	nav = append(nav, botpkg.Button{Text: navCancel, Data: callbackCancel})
	if page.HasNext {
		nav = append(nav, botpkg.Button{Text: navNext, Data: pageData(page.Gen, "next")})
	}
	return append(keyboard, nav)
}

// Results buttons carry the session generation so a keyboard of an older
// search cannot act on the current one.
func selectData(gen uint64, index int) string {
	return callbackSelect + " " + strconv.FormatUint(gen, 10) + " " + strconv.Itoa(index)
}

func pageData(gen uint64, dir string) string {
	return callbackPage + " " + strconv.FormatUint(gen, 10) + " " + dir
}
