package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
)

// Transport implements bot.Transport over the Bot API with per-chat rate limiting.
type Transport struct {
	bot     *Bot
	limiter *RateLimiter
	logger  botpkg.Logger
}

var _ botpkg.Transport = (*Transport)(nil)

// NewTransport creates a Transport. A nil limiter sends without throttling.
func NewTransport(b *Bot, limiter *RateLimiter, logger botpkg.Logger) *Transport {
	return &Transport{bot: b, limiter: limiter, logger: logger}
}

func (t *Transport) SendText(ctx context.Context, chatID int64, text string, keyboard botpkg.Keyboard) (int, error) {
	params := &telego.SendMessageParams{ChatID: telego.ChatID{ID: chatID}, Text: text}
	if markup := InlineKeyboard(keyboard); markup != nil {
		params.ReplyMarkup = markup
	}
	msg, err := SendMessageWithRetry(ctx, t.limiter, t.bot.Client(), params)
	if err != nil {
		return 0, transportError(err)
	}
	if msg == nil {
		return 0, botpkg.ErrTransport
	}
	return msg.MessageID, nil
}

// EditText edits a message in place. An edit that changes nothing counts as success.
func (t *Transport) EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard botpkg.Keyboard) error {
	params := &telego.EditMessageTextParams{
		ChatID:      telego.ChatID{ID: chatID},
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: InlineKeyboard(keyboard),
	}
	_, err := EditMessageTextWithRetry(ctx, t.limiter, t.bot.Client(), params)
	if err != nil && !IsMessageNotModified(err) {
		return transportError(err)
	}
	return nil
}

func (t *Transport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	params := &telego.DeleteMessageParams{ChatID: telego.ChatID{ID: chatID}, MessageID: messageID}
	if err := DeleteMessageWithRetry(ctx, t.limiter, t.bot.Client(), params); err != nil {
		return transportError(err)
	}
	return nil
}

// SendAudio uploads the file, or re-sends by FileID, and returns Telegram's file ID.
func (t *Transport) SendAudio(ctx context.Context, chatID int64, audio *botpkg.Audio) (string, error) {
	if audio == nil {
		return "", errors.New("telegram: nil audio")
	}
	if audio.FileID == "" && audio.FilePath == "" {
		return "", errors.New("telegram: audio needs a file or file id")
	}

	var msg *telego.Message
	// files are reopened per attempt since a failed upload consumes the reader
	err := WithRetry(ctx, t.limiter, chatID, func() error {
		params, closeFiles, err := t.audioParams(chatID, audio)
		if err != nil {
			return err
		}
		defer closeFiles()
		sent, err := t.bot.UploadClient().SendAudio(ctx, params)
		if err != nil {
			return err
		}
		msg = sent
		return nil
	})
	if err != nil {
		t.limiter.logFailure("SendAudio failed", "chat_id", chatID, "error", err)
		return "", transportError(err)
	}
	if msg == nil || msg.Audio == nil {
		if msg != nil && msg.Document != nil {
			return msg.Document.FileID, nil
		}
		return "", fmt.Errorf("%w: response carries no audio", botpkg.ErrTransport)
	}
	return msg.Audio.FileID, nil
}

func (t *Transport) audioParams(chatID int64, audio *botpkg.Audio) (*telego.SendAudioParams, func(), error) {
	params := &telego.SendAudioParams{
		ChatID:    telego.ChatID{ID: chatID},
		Caption:   audio.Caption,
		Title:     audio.Title,
		Performer: audio.Performer,
	}
	var files []*os.File
	closeFiles := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if audio.FileID != "" {
		params.Audio = telegoutil.FileFromID(audio.FileID)
		return params, closeFiles, nil
	}

	file, err := os.Open(audio.FilePath)
	if err != nil {
		return nil, closeFiles, err
	}
	files = append(files, file)
	params.Audio = telego.InputFile{File: telegoutil.NameReader(file, filepath.Base(audio.FilePath))}

	if audio.ThumbPath != "" {
		if thumb, err := os.Open(audio.ThumbPath); err == nil {
			files = append(files, thumb)
			params.Thumbnail = &telego.InputFile{File: telegoutil.NameReader(thumb, "cover.jpg")}
		} else if t.logger != nil {
			t.logger.Debug("thumbnail unavailable", "path", audio.ThumbPath, "error", err)
		}
	}
	return params, closeFiles, nil
}

func (t *Transport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	err := t.bot.Client().AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return transportError(err)
	}
	return nil
}

// InlineKeyboard converts a keyboard to Bot API markup. Empty keyboards yield nil.
func InlineKeyboard(keyboard botpkg.Keyboard) *telego.InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}
	rows := make([][]telego.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		if len(row) == 0 {
			continue
		}
		buttons := make([]telego.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, telego.InlineKeyboardButton{Text: button.Text, CallbackData: button.Data})
		}
		rows = append(rows, buttons)
	}
	if len(rows) == 0 {
		return nil
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func transportError(err error) error {
	if err == nil || errors.Is(err, botpkg.ErrTransport) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", botpkg.ErrTransport, err)
}
