package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/liuran001/tunebot/bot/bottest"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/liuran001/tunebot/bot/link"
	"github.com/liuran001/tunebot/bot/metrics"
	"github.com/liuran001/tunebot/bot/queue"
	"github.com/liuran001/tunebot/bot/session"
	"github.com/liuran001/tunebot/bot/tracker"
	"github.com/mymmrac/telego"
)

// stubSearcher returns canned results and records queries.
type stubSearcher struct {
	mu      sync.Mutex
	queries []string
	results []session.Result
	err     error
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]session.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return append([]session.Result(nil), s.results...), nil
}

// stubClassifier reports a fixed link for every message.
type stubClassifier struct {
	link link.Link
}

func (s stubClassifier) Classify(context.Context, string) (link.Link, bool) {
	return s.link, true
}

// recordingRunner notes which users got a processor. It leaves the queue alone.
type recordingRunner struct {
	mu    sync.Mutex
	users []int64
}

func (r *recordingRunner) Run(_ context.Context, userID int64) {
	r.mu.Lock()
	r.users = append(r.users, userID)
	r.mu.Unlock()
}

func (r *recordingRunner) Users() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.users...)
}

type harness struct {
	c         *Controller
	transport *bottest.Transport
	queue     *queue.Queue
	sessions  *session.Manager
	tracker   *tracker.Tracker
	runner    *recordingRunner
	search    *stubSearcher
	repo      *bottest.Repository
	catalog   *i18n.Catalog
	metrics   *metrics.Metrics
	ctx       context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		transport: bottest.NewTransport(),
		queue:     queue.New(),
		sessions:  session.NewManager(nil),
		runner:    &recordingRunner{},
		search:    &stubSearcher{},
		repo:      bottest.NewRepository(),
		catalog:   i18n.NewCatalog("en"),
		metrics:   metrics.New(),
		ctx:       ctx,
	}
	h.tracker = tracker.New(h.transport, nil, nil)
	h.c = &Controller{
		Transport:  h.transport,
		Sessions:   h.sessions,
		Queue:      h.queue,
		Processor:  h.runner,
		Tracker:    h.tracker,
		Links:      &link.Classifier{},
		Search:     h.search,
		Catalog:    h.catalog,
		Languages:  i18n.NewPreferences(nil, h.repo, "en", nil),
		Repo:       h.repo,
		Metrics:    h.metrics,
		Logger:     bottest.Logger{},
		Background: ctx,
	}
	t.Cleanup(func() {
		cancel()
		h.c.Wait()
		h.tracker.Wait()
	})
	return h
}

func results(n int) []session.Result {
	out := make([]session.Result, n)
	for i := range out {
		out[i] = session.Result{VideoID: fmt.Sprintf("vid%d", i), Title: fmt.Sprintf("Title %d", i)}
	}
	return out
}

func newMessage(userID int64, text string) *telego.Message {
	msg := &telego.Message{
		MessageID: 1,
		Text:      text,
		From:      &telego.User{ID: userID, FirstName: "Ada", LanguageCode: "en"},
		Chat:      telego.Chat{ID: userID, Type: "private"},
	}
	if strings.HasPrefix(text, "/") {
		command := strings.Fields(text)[0]
		msg.Entities = []telego.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	}
	return msg
}

func textUpdate(userID int64, text string) *telego.Update {
	return &telego.Update{Message: newMessage(userID, text)}
}

func callbackUpdate(userID int64, messageID int, data string) *telego.Update {
	return &telego.Update{CallbackQuery: &telego.CallbackQuery{
		ID:   "cb-" + data,
		From: telego.User{ID: userID, FirstName: "Ada", LanguageCode: "en"},
		Data: data,
		Message: &telego.Message{
			MessageID: messageID,
			Chat:      telego.Chat{ID: userID, Type: "private"},
		},
	}}
}

func (h *harness) en(key i18n.Key, args ...any) string {
	return h.catalog.T("en", key, args...)
}

func contains(texts []string, want string) bool {
	for _, text := range texts {
		if text == want {
			return true
		}
	}
	return false
}
