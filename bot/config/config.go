package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// EnvPrefix prefixes every environment override, e.g. TUNEBOT_LOGLEVEL.
const EnvPrefix = "TUNEBOT"

// ErrMissingToken is returned by Validate when no bot token is configured.
var ErrMissingToken = errors.New("config: BOT_TOKEN is required")

// Config wraps viper and provides typed accessors.
type Config struct {
	v *viper.Viper
}

// Load reads an INI (or any viper-supported) config file and prepares defaults.
// A .env file next to the config file or in the working directory is loaded first.
// A missing config file is not an error; values then come from defaults and env.
func Load(path string) (*Config, error) {
	loadDotEnv(path)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// bare names kept for .env files written for earlier deployments
	_ = v.BindEnv("BOT_TOKEN", EnvPrefix+"_BOT_TOKEN", "BOT_TOKEN")
	_ = v.BindEnv("YOUTUBE_API_KEY", EnvPrefix+"_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")

	setDefaults(v)

	path = strings.TrimSpace(path)
	if path == "" {
		return &Config{v: v}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Config{v: v}, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		if err := loadINI(v, path); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return &Config{v: v}, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &Config{v: v}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("BotAPI", "https://api.telegram.org")
	v.SetDefault("BotDebug", false)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
	v.SetDefault("LogDir", "./log")
	v.SetDefault("CacheDir", "")
	v.SetDefault("CookieFile", "cookies.txt")
	v.SetDefault("YtDlpPath", "")
	v.SetDefault("AudioFormat", "mp3")
	v.SetDefault("AudioQuality", "192K")
	v.SetDefault("FetchRetries", 3)
	v.SetDefault("FetchRetryDelaySec", 2)
	v.SetDefault("FetchTimeoutSec", 600)
	v.SetDefault("WorkerPoolSize", 4)
	v.SetDefault("SearchMaxResults", 50)
	v.SetDefault("SearchTimeoutSec", 15)
	v.SetDefault("RedirectTimeoutSec", 10)
	v.SetDefault("DefaultLanguage", "fr")
	v.SetDefault("Database", "cache.db")
	v.SetDefault("EnableDeliveryCache", true)
	v.SetDefault("RateLimitPerSecond", 1.0)
	v.SetDefault("RateLimitBurst", 3)
	v.SetDefault("MetricsAddr", "")
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GetString("BOT_TOKEN")) == "" {
		return ErrMissingToken
	}
	return nil
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 returns a float64 value.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetSeconds reads an integer number of seconds. Non-positive values fall back to def.
func (c *Config) GetSeconds(key string, def time.Duration) time.Duration {
	sec := c.v.GetInt(key)
	if sec <= 0 {
		return def
	}
	return time.Duration(sec) * time.Second
}

// loadINI merges the file below env overrides. Named sections become "section.key".
func loadINI(v *viper.Viper, path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return err
	}

	values := make(map[string]any)
	for _, section := range cfg.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || name == "" {
			for _, key := range section.Keys() {
				values[key.Name()] = key.Value()
			}
			continue
		}
		nested := make(map[string]any, len(section.Keys()))
		for _, key := range section.Keys() {
			nested[key.Name()] = key.Value()
		}
		values[name] = nested
	}

	return v.MergeConfigMap(values)
}

func loadDotEnv(configPath string) {
	candidates := []string{".env"}
	if dir := filepath.Dir(strings.TrimSpace(configPath)); configPath != "" && dir != "." {
		candidates = append([]string{filepath.Join(dir, ".env")}, candidates...)
	}
	for _, file := range candidates {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		// existing environment wins over the file
		_ = godotenv.Load(file)
	}
}
