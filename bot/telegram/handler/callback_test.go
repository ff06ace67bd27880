package handler

import (
	"context"
	"strings"
	"testing"

	botpkg "github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		data   string
		action string
		arg    string
	}{
		{data: "select 3 7", action: "select", arg: "3 7"},
		{data: "page 3 next", action: "page", arg: "3 next"},
		{data: "cancel", action: "cancel", arg: ""},
		{data: " lang  ru ", action: "lang", arg: "ru"},
		{data: "", action: "", arg: ""},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got := parseCallbackData(tt.data)
			if got.action != tt.action || got.arg != tt.arg {
				t.Fatalf("parseCallbackData(%q) = %+v", tt.data, got)
			}
		})
	}
}

func TestSessionArg(t *testing.T) {
	gen, value, ok := sessionArg("12 next")
	require.True(t, ok)
	assert.Equal(t, uint64(12), gen)
	assert.Equal(t, "next", value)

	for _, arg := range []string{"", "next", "x 1", "-1 2"} {
		_, _, ok := sessionArg(arg)
		assert.False(t, ok, arg)
	}
}

func TestPaginationEditsResultsMessage(t *testing.T) {
	h := newHarness(t)
	h.search.results = results(12)
	h.c.Text(h.ctx, nil, textUpdate(1, "wizkid"))
	resultsID := h.transport.Sent[0].MessageID

	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "page 1 next"))

	assert.Equal(t, []string{"cb-page 1 next"}, h.transport.Answered)
	require.Len(t, h.transport.Edits, 2)
	edit := h.transport.Edits[1]
	assert.Equal(t, resultsID, edit.MessageID)
	assert.True(t, strings.Contains(edit.Text, "Page 2"))
	assert.Equal(t, "6. Title 5", edit.Keyboard[0][0].Text)
	assert.Equal(t, []botpkg.Button{
		{Text: navPrev, Data: "page 1 prev"},
		{Text: navCancel, Data: "cancel"},
		{Text: navNext, Data: "page 1 next"},
	}, edit.Keyboard[len(edit.Keyboard)-1])

	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "page 1 next"))
	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "page 1 next"))
	page, err := h.sessions.Current(1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Index, "clamped at the last page")
	assert.Len(t, page.Items, 2)
}

func TestCallbackWithoutSessionExpiresMessage(t *testing.T) {
	for _, data := range []string{"page 1 next", "select 1 0", "select 1 nope", "select 0", "page next"} {
		t.Run(data, func(t *testing.T) {
			h := newHarness(t)

			h.c.Callback(h.ctx, nil, callbackUpdate(1, 42, data))

			require.Len(t, h.transport.Edits, 1)
			assert.Equal(t, 42, h.transport.Edits[0].MessageID)
			assert.Equal(t, h.en(i18n.SessionExpired), h.transport.Edits[0].Text)
			assert.Nil(t, h.transport.Edits[0].Keyboard)
			assert.Len(t, h.tracker.Tracked(1), 1)
			assert.Len(t, h.transport.Answered, 1)
		})
	}
}

func TestSelectEnqueuesVideo(t *testing.T) {
	h := newHarness(t)
	h.search.results = results(8)
	h.c.Text(h.ctx, nil, textUpdate(1, "wizkid"))
	resultsID := h.transport.Sent[0].MessageID

	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "select 1 6"))
	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "select 1 0"))
	h.c.Wait()

	pending := h.queue.Pending(1)
	require.Len(t, pending, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid6", pending[0].URL)
	assert.Equal(t, "Title 6", pending[0].Title)
	assert.Equal(t, "youtube", pending[0].Platform)
	assert.Equal(t, []int64{1}, h.runner.Users())
	assert.True(t, contains(h.transport.Texts(), h.en(i18n.QueueAdded, "title", "Title 6")))

	_, err := h.sessions.Current(1)
	assert.NoError(t, err, "the session stays open for more picks")
}

func TestStaleKeyboardExpires(t *testing.T) {
	h := newHarness(t)
	h.search.results = results(8)
	h.c.Text(h.ctx, nil, textUpdate(1, "first"))
	firstID := h.transport.Sent[0].MessageID
	h.transport.FailDelete(firstID)
	h.c.Text(h.ctx, nil, textUpdate(1, "second"))
	edits := len(h.transport.Edits)

	// buttons of the first results message still carry its generation
	h.c.Callback(h.ctx, nil, callbackUpdate(1, firstID, "select 1 6"))
	h.c.Callback(h.ctx, nil, callbackUpdate(1, firstID, "page 1 next"))
	h.c.Wait()

	assert.Zero(t, h.queue.Len(1))
	assert.Empty(t, h.runner.Users())
	require.Len(t, h.transport.Edits, edits+2)
	for _, edit := range h.transport.Edits[edits:] {
		assert.Equal(t, firstID, edit.MessageID)
		assert.Equal(t, h.en(i18n.SessionExpired), edit.Text)
	}
	page, err := h.sessions.Current(1)
	require.NoError(t, err)
	assert.Equal(t, "second", page.Query)
	assert.Equal(t, 0, page.Index)

	h.c.Callback(h.ctx, nil, callbackUpdate(1, page.ResultsMessageID, "select 2 6"))
	h.c.Wait()
	require.Len(t, h.queue.Pending(1), 1)
}

func TestCancelCallbackClearsEverything(t *testing.T) {
	h := newHarness(t)
	h.search.results = results(3)
	h.c.Text(h.ctx, nil, textUpdate(1, "wizkid"))
	resultsID := h.transport.Sent[0].MessageID
	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "select 1 1"))
	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "select 1 2"))
	h.transport.FailDelete(resultsID)

	tracked := len(h.tracker.Tracked(1))
	h.c.Callback(h.ctx, nil, callbackUpdate(1, resultsID, "cancel"))

	assert.Zero(t, h.queue.Len(1))
	_, err := h.sessions.Current(1)
	assert.ErrorIs(t, err, botpkg.ErrNoActiveSession)
	assert.Len(t, h.transport.DeletedIDs(), tracked-1, "one delete failed and is not retried")

	remaining := h.tracker.Tracked(1)
	require.Len(t, remaining, 1, "only the cancel notice is tracked")
	assert.True(t, contains(h.transport.Texts(), h.en(i18n.CancelSearch)))
}

func TestLanguageSelection(t *testing.T) {
	h := newHarness(t)
	h.c.Lang(h.ctx, nil, textUpdate(1, "/lang"))
	require.Len(t, h.transport.Sent, 1)
	prompt := h.transport.Sent[0]
	require.Len(t, prompt.Keyboard, len(i18n.Languages))
	assert.Equal(t, botpkg.Button{Text: "中文", Data: "lang zh"}, prompt.Keyboard[2][0])

	h.c.Callback(h.ctx, nil, callbackUpdate(1, prompt.MessageID, "lang ru"))

	require.Len(t, h.transport.Edits, 1)
	assert.Equal(t, h.catalog.T("ru", i18n.LangSelected, "lang", "Русский"), h.transport.Edits[0].Text)
	settings, _ := h.repo.GetUserSettings(context.Background(), 1)
	require.NotNil(t, settings)
	assert.Equal(t, "ru", settings.Language)

	h.c.Help(h.ctx, nil, textUpdate(1, "/help"))
	assert.Equal(t, h.catalog.T("ru", i18n.Help), h.transport.Texts()[len(h.transport.Texts())-1])
}

func TestInvalidLanguage(t *testing.T) {
	h := newHarness(t)
	h.c.Callback(h.ctx, nil, callbackUpdate(1, 9, "lang xx"))

	require.Len(t, h.transport.Edits, 1)
	assert.Equal(t, h.en(i18n.LangInvalid), h.transport.Edits[0].Text)
}
