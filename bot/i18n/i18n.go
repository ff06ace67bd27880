// Package i18n renders user-facing texts and tracks each user's language.
package i18n

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/state"
	"golang.org/x/text/language"
)

// Catalog formats translated messages.
type Catalog struct {
	fallback string

	mu   sync.Mutex
	rand *rand.Rand
}

// NewCatalog creates a catalog. Unknown or empty fallback codes use French.
func NewCatalog(fallback string) *Catalog {
	if !Supported(fallback) {
		fallback = Languages[0]
	}
	return &Catalog{fallback: fallback, rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Fallback returns the language used when nothing else applies.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// Seed makes variant selection deterministic.
func (c *Catalog) Seed(seed uint64) {
	c.mu.Lock()
	c.rand = rand.New(rand.NewPCG(seed, seed))
	c.mu.Unlock()
}

// T renders key in lang. args are name/value pairs filling {name} placeholders.
// Keys with several variants pick one at random.
func (c *Catalog) T(lang string, key Key, args ...any) string {
	texts, ok := translations[lang]
	if !ok {
		texts = translations[c.fallback]
	}
	variants := texts[key]
	if len(variants) == 0 {
		return string(key)
	}

	text := variants[0]
	if len(variants) > 1 {
		c.mu.Lock()
		text = variants[c.rand.IntN(len(variants))]
		c.mu.Unlock()
	}
	return fill(text, args)
}

// Variants returns every variant of key in lang.
func (c *Catalog) Variants(lang string, key Key) []string {
	texts, ok := translations[lang]
	if !ok {
		texts = translations[c.fallback]
	}
	return append([]string(nil), texts[key]...)
}

func fill(text string, args []any) string {
	if len(args) < 2 {
		return text
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+fmt.Sprint(args[i])+"}", fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Supported reports whether code is one of Languages.
func Supported(code string) bool {
	for _, l := range Languages {
		if l == code {
			return true
		}
	}
	return false
}

// ButtonName is the label of code in the language keyboard.
func ButtonName(code string) string {
	return buttonNames[code]
}

// DisplayName is the name of code shown after a selection.
func DisplayName(code string) string {
	return displayNames[code]
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Languages))
	for i, code := range Languages {
		tags[i] = language.Make(code)
	}
	return language.NewMatcher(tags)
}()

// Match maps a client language code such as "en-US" to a supported code.
func Match(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return "", false
	}
	return Languages[index], true
}

// Preferences stores the language chosen by each user. An explicit choice wins
// over the client language, which wins over the fallback.
type Preferences struct {
	store    state.Store[string]
	repo     bot.SettingsRepository
	fallback string
	logger   bot.Logger
}

// NewPreferences creates a preference store. repo may be nil.
func NewPreferences(store state.Store[string], repo bot.SettingsRepository, fallback string, logger bot.Logger) *Preferences {
	if store == nil {
		store = state.NewMemoryStore[string]()
	}
	if !Supported(fallback) {
		fallback = Languages[0]
	}
	return &Preferences{store: store, repo: repo, fallback: fallback, logger: logger}
}

// Language resolves the user's language. clientCode is the Telegram language_code.
func (p *Preferences) Language(ctx context.Context, userID int64, clientCode string) string {
	if lang, ok := p.store.Get(userID); ok {
		return lang
	}
	if p.repo != nil {
		settings, err := p.repo.GetUserSettings(ctx, userID)
		if err != nil {
			if p.logger != nil {
				p.logger.Debug("load user language failed", "user_id", userID, "error", err)
			}
		} else if settings != nil && Supported(settings.Language) {
			p.store.Put(userID, settings.Language)
			return settings.Language
		}
	}
	if lang, ok := Match(clientCode); ok {
		return lang
	}
	return p.fallback
}

// Set records an explicit choice. It returns false for unsupported codes.
func (p *Preferences) Set(ctx context.Context, userID int64, code string) bool {
	if !Supported(code) {
		return false
	}
	p.store.Put(userID, code)
	if p.repo != nil {
		err := p.repo.UpdateUserSettings(ctx, &bot.UserSettings{UserID: userID, Language: code})
		if err != nil && p.logger != nil {
			p.logger.Warn("save user language failed", "user_id", userID, "error", err)
		}
	}
	return true
}
