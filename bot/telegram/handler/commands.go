package handler

import (
	"context"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/mymmrac/telego"
)

// Start greets the user. The welcome stays until /cancel.
func (c *Controller) Start(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	c.notify(ctx, a, i18n.Welcome, 0)
}

// Help shows usage for a while.
func (c *Controller) Help(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	c.notify(ctx, a, i18n.Help, helpDelay)
}

// Lang offers the language keyboard.
func (c *Controller) Lang(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	msgID, err := c.Transport.SendText(ctx, a.chatID, c.text(ctx, a, i18n.LangPrompt), languageKeyboard())
	if err != nil {
		c.logTransport("send language prompt", a, err)
		return
	}
	c.Tracker.Track(a.userID, a.chatID, msgID)
}

// Cancel ends the session and clears the queue and chat.
func (c *Controller) Cancel(ctx context.Context, _ *telego.Bot, update *telego.Update) {
	a, ok := messageActor(update.Message)
	if !ok {
		return
	}
	c.cancel(ctx, a)
}

func languageKeyboard() botpkg.Keyboard {
	keyboard := make(botpkg.Keyboard, 0, len(i18n.Languages))
	for _, code := range i18n.Languages {
		keyboard = append(keyboard, []botpkg.Button{{Text: i18n.ButtonName(code), Data: callbackLang + " " + code}})
	}
	return keyboard
}

func (c *Controller) logTransport(action string, a actor, err error) {
	if c.Logger != nil {
		c.Logger.Debug(action+" failed", "user_id", a.userID, "chat_id", a.chatID, "error", err)
	}
}
