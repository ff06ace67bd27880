package handler

import (
	"context"
	"strings"
	"sync"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/mymmrac/telego"
)

// Router dispatches updates to feature handlers.
type Router struct {
	Start    MessageHandler
	Help     MessageHandler
	Lang     MessageHandler
	Cancel   MessageHandler
	Queue    MessageHandler
	Status   MessageHandler
	Text     MessageHandler
	Callback CallbackHandler
	Logger   botpkg.Logger

	wg sync.WaitGroup
}

// Run handles updates until the channel closes, then waits for in-flight handlers.
// Each update runs in its own goroutine so a slow search never blocks other users.
func (r *Router) Run(ctx context.Context, b *telego.Bot, updates <-chan telego.Update) {
	for update := range updates {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.Dispatch(ctx, b, &update)
		}()
	}
	r.wg.Wait()
}

// Dispatch routes a single update.
func (r *Router) Dispatch(ctx context.Context, b *telego.Bot, update *telego.Update) {
	if update == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil && r.Logger != nil {
			r.Logger.Error("update handler panicked", "update_id", update.UpdateID, "panic", rec)
		}
	}()

	if update.CallbackQuery != nil {
		call(ctx, b, update, r.Callback)
		return
	}
	message := update.Message
	if message == nil || message.From == nil || strings.TrimSpace(message.Text) == "" {
		return
	}

	if !isCommandMessage(message) {
		call(ctx, b, update, r.Text)
		return
	}
	switch commandName(message.Text) {
	case "start":
		call(ctx, b, update, r.Start)
	case "help":
		call(ctx, b, update, r.Help)
	case "lang":
		call(ctx, b, update, r.Lang)
	case "cancel":
		call(ctx, b, update, r.Cancel)
	case "queue":
		call(ctx, b, update, r.Queue)
	case "status":
		call(ctx, b, update, r.Status)
	}
}

func call(ctx context.Context, b *telego.Bot, update *telego.Update, handler MessageHandler) {
	if handler == nil {
		return
	}
	handler.Handle(ctx, b, update)
}

func isCommandMessage(message *telego.Message) bool {
	if message == nil || message.Text == "" {
		return false
	}
	if !strings.HasPrefix(message.Text, "/") {
		return false
	}
	for _, entity := range message.Entities {
		if entity.Type == "bot_command" && entity.Offset == 0 {
			return true
		}
	}
	return false
}

// commandName returns the lower-case command without slash or @botname.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name)
}
