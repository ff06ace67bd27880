package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/liuran001/tunebot/bot/link"
	"github.com/liuran001/tunebot/bot/queue"
	"github.com/liuran001/tunebot/bot/session"
	"github.com/mymmrac/telego"
)

type parsedCallback struct {
	action string
	arg    string
}

func parseCallbackData(data string) parsedCallback {
	action, arg, _ := strings.Cut(strings.TrimSpace(data), " ")
	return parsedCallback{action: action, arg: strings.TrimSpace(arg)}
}

// sessionArg splits "<gen> <value>" of a results keyboard button.
func sessionArg(arg string) (uint64, string, bool) {
	raw, value, found := strings.Cut(arg, " ")
	if !found {
		return 0, "", false
	}
	gen, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return gen, strings.TrimSpace(value), true
}

// Callback handles keyboard presses. Every query is answered.
func (c *Controller) Callback(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	if update == nil || update.CallbackQuery == nil {
		return
	}
	query := update.CallbackQuery
	a := actor{
		userID:    query.From.ID,
		firstName: query.From.FirstName,
		langCode:  query.From.LanguageCode,
	}
	var messageID int
	if query.Message != nil {
		a.chatID = query.Message.GetChat().ID
		messageID = query.Message.GetMessageID()
	}
	if a.chatID == 0 {
		a.chatID = a.userID
	}

	if err := c.Transport.AnswerCallback(ctx, query.ID, ""); err != nil {
		c.logTransport("answer callback", a, err)
	}

	parsed := parseCallbackData(query.Data)
	switch parsed.action {
	case callbackPage:
		gen, arg, ok := sessionArg(parsed.arg)
		if !ok {
			c.expire(ctx, a, messageID)
			return
		}
		dir, ok := session.ParseDirection(arg)
		if !ok {
			return
		}
		page, err := c.Sessions.Paginate(a.userID, gen, dir)
		if err != nil {
			c.expire(ctx, a, messageID)
			return
		}
		c.renderPage(ctx, a, page)
	case callbackSelect:
		gen, arg, ok := sessionArg(parsed.arg)
		if !ok {
			c.expire(ctx, a, messageID)
			return
		}
		index, err := strconv.Atoi(arg)
		if err != nil {
			c.expire(ctx, a, messageID)
			return
		}
		result, err := c.Sessions.Result(a.userID, gen, index)
		if err != nil {
			c.expire(ctx, a, messageID)
			return
		}
		entry := queue.Entry{URL: watchURL + result.VideoID, Title: result.Title, Platform: string(link.YouTube)}
		c.enqueue(ctx, a, entry, "search")
	case callbackCancel:
		c.cancel(ctx, a)
	case callbackLang:
		c.selectLanguage(ctx, a, messageID, parsed.arg)
	}
}

// expire replaces a stale keyboard message with the session_expired text.
func (c *Controller) expire(ctx context.Context, a actor, messageID int) {
	if messageID == 0 {
		c.notify(ctx, a, i18n.SessionExpired, 0)
		return
	}
	if err := c.Transport.EditText(ctx, a.chatID, messageID, c.text(ctx, a, i18n.SessionExpired), nil); err != nil {
		c.logTransport("edit expired session", a, err)
	}
	c.Tracker.Track(a.userID, a.chatID, messageID)
}

func (c *Controller) selectLanguage(ctx context.Context, a actor, messageID int, code string) {
	var text string
	if c.Languages != nil && c.Languages.Set(ctx, a.userID, code) {
		text = c.Catalog.T(code, i18n.LangSelected, "lang", i18n.DisplayName(code))
	} else {
		text = c.text(ctx, a, i18n.LangInvalid)
	}

	if messageID != 0 {
		if err := c.Transport.EditText(ctx, a.chatID, messageID, text, nil); err == nil {
			return
		}
	}
	msgID, err := c.Transport.SendText(ctx, a.chatID, text, nil)
	if err != nil {
		c.logTransport("send language confirmation", a, err)
		return
	}
	c.Tracker.Track(a.userID, a.chatID, msgID)
}
