package telegram

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/mymmrac/telego"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per chat.
type RateLimiter struct {
	limiters map[int64]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	logger   botpkg.Logger
}

func NewRateLimiter(msgPerSec float64, burst int) *RateLimiter {
	if msgPerSec <= 0 {
		msgPerSec = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		rate:     rate.Limit(msgPerSec),
		burst:    burst,
	}
}

func (rl *RateLimiter) SetLogger(logger botpkg.Logger) {
	rl.logger = logger
}

// logFailure reports a failed call. Callers treat these as best-effort, so debug is enough.
func (rl *RateLimiter) logFailure(msg string, args ...any) {
	if rl != nil && rl.logger != nil {
		rl.logger.Debug(msg, args...)
	}
}

func (rl *RateLimiter) getLimiter(chatID int64) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[chatID]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[chatID]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[chatID] = limiter
	return limiter
}

func (rl *RateLimiter) Wait(ctx context.Context, chatID int64) error {
	limiter := rl.getLimiter(chatID)
	return limiter.Wait(ctx)
}

type APIError struct {
	Code       int
	Message    string
	RetryAfter int
}

var retryAfterPattern = regexp.MustCompile(`(?i)retry\s+after[:\s]+(\d+)`)

func (e *APIError) Error() string {
	return e.Message
}

func parseRetryAfter(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter, true
	}

	errMsg := err.Error()
	if len(errMsg) == 0 {
		return 0, false
	}
	if matches := retryAfterPattern.FindStringSubmatch(errMsg); len(matches) == 2 {
		if parsed, parseErr := strconv.Atoi(matches[1]); parseErr == nil {
			return parsed, parsed > 0
		}
	}

	if parsed, parseErr := strconv.Atoi(errMsg); parseErr == nil {
		return parsed, parsed > 0
	}
	return 0, false
}

// IsMessageNotModified reports the Bot API answer for an edit that changes nothing.
func IsMessageNotModified(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "message is not modified")
}

// WithRetry waits for the chat's rate limit and retries fn when Telegram asks to back off.
func WithRetry(ctx context.Context, rl *RateLimiter, chatID int64, fn func() error) error {
	if fn == nil {
		return nil
	}
	if rl == nil {
		return fn()
	}
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := rl.Wait(ctx, chatID); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}

		retryAfter, shouldRetry := parseRetryAfter(err)
		if !shouldRetry {
			return err
		}

		if attempt < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(retryAfter) * time.Second):
			}
		}
	}

	return &APIError{Code: 429, Message: "max retries exceeded"}
}

func SendMessageWithRetry(ctx context.Context, rl *RateLimiter, b *telego.Bot, params *telego.SendMessageParams) (*telego.Message, error) {
	var result *telego.Message
	var lastErr error

	chatID := params.ChatID.ID
	err := WithRetry(ctx, rl, chatID, func() error {
		msg, err := b.SendMessage(ctx, params)
		if err != nil {
			lastErr = err
			return err
		}
		result = msg
		return nil
	})

	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		rl.logFailure("SendMessage failed", "chat_id", chatID, "error", lastErr)
		return result, lastErr
	}
	return result, nil
}

func EditMessageTextWithRetry(ctx context.Context, rl *RateLimiter, b *telego.Bot, params *telego.EditMessageTextParams) (*telego.Message, error) {
	var result *telego.Message
	var lastErr error

	chatID := params.ChatID.ID
	err := WithRetry(ctx, rl, chatID, func() error {
		msg, err := b.EditMessageText(ctx, params)
		if err != nil {
			lastErr = err
			return err
		}
		result = msg
		return nil
	})

	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		if !IsMessageNotModified(lastErr) {
			rl.logFailure("EditMessageText failed", "chat_id", chatID, "message_id", params.MessageID, "error", lastErr)
		}
		return result, lastErr
	}
	return result, nil
}

func DeleteMessageWithRetry(ctx context.Context, rl *RateLimiter, b *telego.Bot, params *telego.DeleteMessageParams) error {
	chatID := params.ChatID.ID
	err := WithRetry(ctx, rl, chatID, func() error {
		return b.DeleteMessage(ctx, params)
	})

	if err != nil {
		rl.logFailure("DeleteMessage failed", "chat_id", chatID, "message_id", params.MessageID, "error", err)
	}
	return err
}

func SendAudioWithRetry(ctx context.Context, rl *RateLimiter, b *telego.Bot, params *telego.SendAudioParams) (*telego.Message, error) {
	var result *telego.Message
	var lastErr error

	chatID := params.ChatID.ID
	err := WithRetry(ctx, rl, chatID, func() error {
		msg, err := b.SendAudio(ctx, params)
		if err != nil {
			lastErr = err
			return err
		}
		result = msg
		return nil
	})

	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		rl.logFailure("SendAudio failed", "chat_id", chatID, "error", lastErr)
		return result, lastErr
	}
	return result, nil
}
