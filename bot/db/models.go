package db

import (
	"github.com/liuran001/tunebot/bot"
	"gorm.io/gorm"
)

// DeliveryModel maps a source URL to the Telegram file it was uploaded as.
type DeliveryModel struct {
	gorm.Model
	URL         string `gorm:"not null;uniqueIndex"`
	Platform    string `gorm:"not null;default:'youtube';index"`
	Title       string
	Artist      string
	Genre       string
	Featuring   bool
	FileID      string `gorm:"not null"`
	FileSize    int64
	FromUserID  int64 `gorm:"index"`
	FromChatID  int64
	DisplayName string
}

func (DeliveryModel) TableName() string {
	return "deliveries"
}

// BotStatModel stores aggregated bot statistics.
type BotStatModel struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value int64
}

func (BotStatModel) TableName() string {
	return "bot_stats"
}

// UserSettingsModel stores user preferences for the bot.
type UserSettingsModel struct {
	gorm.Model
	UserID   int64  `gorm:"uniqueIndex;not null"`
	Language string `gorm:"not null;default:''"`
}

func (UserSettingsModel) TableName() string {
	return "user_settings"
}

func toInternal(model DeliveryModel) *bot.Delivery {
	return &bot.Delivery{
		ID:          model.ID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		URL:         model.URL,
		Platform:    model.Platform,
		Title:       model.Title,
		Artist:      model.Artist,
		Genre:       model.Genre,
		Featuring:   model.Featuring,
		FileID:      model.FileID,
		FileSize:    model.FileSize,
		FromUserID:  model.FromUserID,
		FromChatID:  model.FromChatID,
		DisplayName: model.DisplayName,
	}
}

func toModel(d *bot.Delivery) *DeliveryModel {
	if d == nil {
		return &DeliveryModel{}
	}
	model := &DeliveryModel{
		URL:         d.URL,
		Platform:    d.Platform,
		Title:       d.Title,
		Artist:      d.Artist,
		Genre:       d.Genre,
		Featuring:   d.Featuring,
		FileID:      d.FileID,
		FileSize:    d.FileSize,
		FromUserID:  d.FromUserID,
		FromChatID:  d.FromChatID,
		DisplayName: d.DisplayName,
	}
	if model.Platform == "" {
		model.Platform = "youtube"
	}
	if d.ID != 0 {
		model.ID = d.ID
	}
	if !d.CreatedAt.IsZero() {
		model.CreatedAt = d.CreatedAt
	}
	if !d.UpdatedAt.IsZero() {
		model.UpdatedAt = d.UpdatedAt
	}
	return model
}

func userSettingsToInternal(settings UserSettingsModel) *bot.UserSettings {
	return &bot.UserSettings{
		ID:        settings.ID,
		CreatedAt: settings.CreatedAt,
		UpdatedAt: settings.UpdatedAt,
		UserID:    settings.UserID,
		Language:  settings.Language,
	}
}
