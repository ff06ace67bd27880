package bot

import "context"

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config provides typed access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
}

// Transport is the subset of the chat API the core talks to.
// Message IDs are chat-scoped, as in the Bot API.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, keyboard Keyboard) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendAudio(ctx context.Context, chatID int64, audio *Audio) (string, error)
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// DeliveryRepository stores delivered audio so repeated requests reuse the uploaded file.
// Lookups return nil, nil when nothing is cached.
type DeliveryRepository interface {
	FindByURL(ctx context.Context, url string) (*Delivery, error)
	Create(ctx context.Context, delivery *Delivery) error
	Count(ctx context.Context) (int64, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	Last(ctx context.Context) (*Delivery, error)
	GetSendCount(ctx context.Context) (int64, error)
	IncrementSendCount(ctx context.Context) error
}

// SettingsRepository persists per-user preferences.
type SettingsRepository interface {
	GetUserSettings(ctx context.Context, userID int64) (*UserSettings, error)
	UpdateUserSettings(ctx context.Context, settings *UserSettings) error
}

// WorkerPool limits concurrency for background tasks.
type WorkerPool interface {
	Submit(task func()) error
	SubmitWait(task func() error) error
	SubmitWaitContext(ctx context.Context, task func() error) error
	Shutdown(ctx context.Context) error
	Size() int
}
