package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/config"
	"github.com/mymmrac/telego"
)

// pollTimeout is the long polling wait in seconds; the poll client timeout must exceed it.
const pollTimeout = 50

// Bot wraps telego with application configuration.
type Bot struct {
	client *telego.Bot
	upload *telego.Bot
	config *config.Config
	logger botpkg.Logger
}

// New creates a new Telegram bot client.
func New(cfg *config.Config, logger botpkg.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	pollClient := &http.Client{
		Timeout:   2 * time.Minute,
		Transport: newHTTPTransport(),
	}
	uploadClient := &http.Client{
		Timeout:   15 * time.Minute,
		Transport: newHTTPTransport(),
	}

	client, err := telego.NewBot(cfg.GetString("BOT_TOKEN"), botOptions(cfg, logger, pollClient)...)
	if err != nil {
		return nil, err
	}
	upload, err := telego.NewBot(cfg.GetString("BOT_TOKEN"), botOptions(cfg, logger, uploadClient)...)
	if err != nil {
		return nil, err
	}

	return &Bot{client: client, upload: upload, config: cfg, logger: logger}, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func botOptions(cfg *config.Config, logger botpkg.Logger, client *http.Client) []telego.BotOption {
	options := []telego.BotOption{
		telego.WithHTTPClient(client),
		telego.WithLogger(telegoLogger{logger: logger}),
	}
	if api := cfg.GetString("BotAPI"); api != "" {
		options = append(options, telego.WithAPIServer(api))
	}
	if cfg.GetBool("BotDebug") {
		options = append(options, telego.WithDebugMode())
	}
	return options
}

// Updates starts long polling. The channel closes once ctx is done.
func (b *Bot) Updates(ctx context.Context) (<-chan telego.Update, error) {
	return b.client.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        pollTimeout,
		AllowedUpdates: []string{"message", "callback_query"},
	})
}

// Client exposes the underlying bot client.
func (b *Bot) Client() *telego.Bot {
	return b.client
}

// UploadClient exposes a dedicated client for uploads.
func (b *Bot) UploadClient() *telego.Bot {
	if b.upload != nil {
		return b.upload
	}
	return b.client
}

// GetMe retrieves bot info.
func (b *Bot) GetMe(ctx context.Context) (*telego.User, error) {
	return b.client.GetMe(ctx)
}

// SetCommands publishes the command menu.
func (b *Bot) SetCommands(ctx context.Context, commands []telego.BotCommand) error {
	return b.client.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands})
}

type telegoLogger struct {
	logger botpkg.Logger
}

func (l telegoLogger) Debugf(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l telegoLogger) Errorf(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Error(fmt.Sprintf(format, args...))
}
