package handler

import (
	"context"

	"github.com/mymmrac/telego"
)

// MessageHandler handles message-based commands.
type MessageHandler interface {
	Handle(ctx context.Context, b *telego.Bot, update *telego.Update)
}

// CallbackHandler handles callback queries.
type CallbackHandler interface {
	Handle(ctx context.Context, b *telego.Bot, update *telego.Update)
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(ctx context.Context, b *telego.Bot, update *telego.Update)

func (f MessageHandlerFunc) Handle(ctx context.Context, b *telego.Bot, update *telego.Update) {
	f(ctx, b, update)
}

// CallbackHandlerFunc adapts a function to CallbackHandler.
type CallbackHandlerFunc func(ctx context.Context, b *telego.Bot, update *telego.Update)

func (f CallbackHandlerFunc) Handle(ctx context.Context, b *telego.Bot, update *telego.Update) {
	f(ctx, b, update)
}
