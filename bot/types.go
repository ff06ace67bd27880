package bot

import "time"

// Button is one inline keyboard button.
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard, row by row. A nil keyboard sends no markup.
type Keyboard [][]Button

// Audio describes an outgoing audio attachment. FileID takes precedence over FilePath.
type Audio struct {
	FilePath  string
	FileID    string
	Title     string
	Performer string
	ThumbPath string
	Caption   string
}

// Delivery is a cached record of an audio file already uploaded to Telegram.
type Delivery struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	URL         string
	Platform    string
	Title       string
	Artist      string
	Genre       string
	Featuring   bool
	FileID      string
	FileSize    int64
	FromUserID  int64
	FromChatID  int64
	DisplayName string
}

// UserSettings represents user preferences for the bot.
type UserSettings struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    int64
	Language  string
}
