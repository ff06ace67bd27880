// Package bottest provides in-memory collaborators for tests.
package bottest

import (
	"context"
	"errors"
	"sync"

	"github.com/liuran001/tunebot/bot"
)

// SentText is a recorded SendText or EditText call.
type SentText struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  bot.Keyboard
}

// Transport records every call and hands out increasing message IDs.
type Transport struct {
	mu sync.Mutex

	nextID    int
	Sent      []SentText
	Edits     []SentText
	Deleted   []int
	Audios    []bot.Audio
	Answered  []string
	deleteErr map[int]error

	// SendErr, EditErr and AudioErr fail the matching calls when set.
	SendErr  error
	EditErr  error
	AudioErr error
}

// NewTransport creates an empty Transport.
func NewTransport() *Transport {
	return &Transport{nextID: 100, deleteErr: make(map[int]error)}
}

// FailDelete makes deleting messageID fail.
func (t *Transport) FailDelete(messageID int) {
	t.mu.Lock()
	t.deleteErr[messageID] = errors.New("message can't be deleted")
	t.mu.Unlock()
}

func (t *Transport) SendText(_ context.Context, chatID int64, text string, keyboard bot.Keyboard) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SendErr != nil {
		return 0, t.SendErr
	}
	t.nextID++
	t.Sent = append(t.Sent, SentText{ChatID: chatID, MessageID: t.nextID, Text: text, Keyboard: keyboard})
	return t.nextID, nil
}

func (t *Transport) EditText(_ context.Context, chatID int64, messageID int, text string, keyboard bot.Keyboard) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EditErr != nil {
		return t.EditErr
	}
	t.Edits = append(t.Edits, SentText{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
	return nil
}

func (t *Transport) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.deleteErr[messageID]; err != nil {
		return err
	}
	t.Deleted = append(t.Deleted, messageID)
	return nil
}

func (t *Transport) SendAudio(_ context.Context, _ int64, audio *bot.Audio) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.AudioErr != nil {
		return "", t.AudioErr
	}
	t.Audios = append(t.Audios, *audio)
	if audio.FileID != "" {
		return audio.FileID, nil
	}
	return "file-" + audio.Title, nil
}

func (t *Transport) AnswerCallback(_ context.Context, callbackID, _ string) error {
	t.mu.Lock()
	t.Answered = append(t.Answered, callbackID)
	t.mu.Unlock()
	return nil
}

// Texts returns the text of every sent message.
func (t *Transport) Texts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.Sent))
	for i, s := range t.Sent {
		out[i] = s.Text
	}
	return out
}

// EditedTexts returns the text of every edit.
func (t *Transport) EditedTexts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.Edits))
	for i, s := range t.Edits {
		out[i] = s.Text
	}
	return out
}

// DeletedIDs returns the deleted message IDs.
func (t *Transport) DeletedIDs() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.Deleted...)
}

// SentAudios returns the delivered audio attachments.
func (t *Transport) SentAudios() []bot.Audio {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]bot.Audio(nil), t.Audios...)
}

// Logger discards everything.
type Logger struct{}

func (Logger) Debug(string, ...any)     {}
func (Logger) Info(string, ...any)      {}
func (Logger) Warn(string, ...any)      {}
func (Logger) Error(string, ...any)     {}
func (l Logger) With(...any) bot.Logger { return l }
