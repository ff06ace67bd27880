package bottest

import (
	"context"
	"sync"

	"github.com/liuran001/tunebot/bot"
)

// Repository is an in-memory DeliveryRepository and SettingsRepository.
type Repository struct {
	mu         sync.Mutex
	deliveries map[string]*bot.Delivery
	order      []string
	settings   map[int64]*bot.UserSettings
	sendCount  int64
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		deliveries: make(map[string]*bot.Delivery),
		settings:   make(map[int64]*bot.UserSettings),
	}
}

func (r *Repository) FindByURL(_ context.Context, url string) (*bot.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.deliveries[url]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *Repository) Create(_ context.Context, delivery *bot.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deliveries[delivery.URL]; !ok {
		r.order = append(r.order, delivery.URL)
	}
	cp := *delivery
	r.deliveries[delivery.URL] = &cp
	return nil
}

func (r *Repository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.deliveries)), nil
}

func (r *Repository) CountByUserID(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.deliveries {
		if d.FromUserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *Repository) Last(context.Context) (*bot.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return nil, nil
	}
	cp := *r.deliveries[r.order[len(r.order)-1]]
	return &cp, nil
}

func (r *Repository) GetSendCount(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sendCount, nil
}

func (r *Repository) IncrementSendCount(context.Context) error {
	r.mu.Lock()
	r.sendCount++
	r.mu.Unlock()
	return nil
}

func (r *Repository) GetUserSettings(_ context.Context, userID int64) (*bot.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.settings[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *Repository) UpdateUserSettings(_ context.Context, settings *bot.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings[settings.UserID] = &cp
	return nil
}
