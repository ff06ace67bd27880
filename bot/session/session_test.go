package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/liuran001/tunebot/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(n int) []Result {
	out := make([]Result, n)
	for i := range out {
		out[i] = Result{VideoID: fmt.Sprintf("id%d", i), Title: fmt.Sprintf("Song %d", i)}
	}
	return out
}

func TestStartSearchEmpty(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "nothing", nil, 0)
	require.ErrorIs(t, err, bot.ErrEmptyResults)

	_, err = m.Current(1)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
}

func TestStartSearchReplacesPrevious(t *testing.T) {
	m := NewManager(nil)
	prev, err := m.StartSearch(1, 10, "first", results(7), 41)
	require.NoError(t, err)
	assert.Nil(t, prev)

	m.SetResultsMessage(1, 42)
	first, err := m.Paginate(1, 1, Next)
	require.NoError(t, err)

	prev, err = m.StartSearch(1, 10, "second", results(3), 43)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "first", prev.Query)
	assert.Equal(t, 42, prev.ResultsMessageID)

	page, err := m.Current(1)
	require.NoError(t, err)
	assert.Equal(t, "second", page.Query)
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, 43, page.ResultsMessageID)
	assert.Greater(t, page.Gen, first.Gen)
}

func TestOverlappingSearchesSeeEachOthersMessage(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "first", results(3), 100)
	require.NoError(t, err)

	// the second search starts before the first one rendered its page
	prev, err := m.StartSearch(1, 10, "second", results(3), 101)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 100, prev.ResultsMessageID, "the replaced results message can be removed")

	page, err := m.Current(1)
	require.NoError(t, err)
	assert.Equal(t, 101, page.ResultsMessageID)
}

func TestStaleGenerationIsRejected(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "first", results(8), 0)
	require.NoError(t, err)
	old, err := m.Current(1)
	require.NoError(t, err)
	_, err = m.StartSearch(1, 10, "second", results(8), 0)
	require.NoError(t, err)

	_, err = m.Result(1, old.Gen, 0)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
	_, err = m.Paginate(1, old.Gen, Next)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)

	page, err := m.Current(1)
	require.NoError(t, err)
	assert.Equal(t, "second", page.Query)
	assert.Equal(t, 0, page.Index, "a stale page press leaves the new session alone")

	r, err := m.Result(1, page.Gen, 0)
	require.NoError(t, err)
	assert.Equal(t, "id0", r.VideoID)
}

func TestPagination(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "q", results(12), 0)
	require.NoError(t, err)

	page, err := m.Current(1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page, err = m.Paginate(1, 1, Prev)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index, "prev at first page is a no-op")

	page, _ = m.Paginate(1, 1, Next)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, 5, page.Offset)
	assert.True(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page, _ = m.Paginate(1, 1, Next)
	assert.Equal(t, 2, page.Index)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "id10", page.Items[0].VideoID)
	assert.False(t, page.HasNext)

	page, _ = m.Paginate(1, 1, Next)
	assert.Equal(t, 2, page.Index, "next at last page is a no-op")
}

func TestPaginationExactMultiple(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "q", results(10), 0)
	require.NoError(t, err)

	page, _ := m.Paginate(1, 1, Next)
	assert.Equal(t, 1, page.Index)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasNext)

	page, _ = m.Paginate(1, 1, Next)
	assert.Equal(t, 1, page.Index)
}

func TestPaginateWithoutSession(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Paginate(7, 1, Next)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
}

func TestResultByIndex(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "q", results(6), 0)
	require.NoError(t, err)

	r, err := m.Result(1, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "id5", r.VideoID)

	_, err = m.Result(1, 1, 6)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
	_, err = m.Result(1, 1, -1)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
	_, err = m.Result(2, 1, 0)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
}

func TestEnd(t *testing.T) {
	m := NewManager(nil)
	_, err := m.StartSearch(1, 10, "q", results(2), 0)
	require.NoError(t, err)

	s, ok := m.End(1)
	require.True(t, ok)
	assert.Equal(t, "q", s.Query)

	_, ok = m.End(1)
	assert.False(t, ok)

	// SetResultsMessage must not recreate an ended session.
	m.SetResultsMessage(1, 9)
	_, err = m.Current(1)
	assert.ErrorIs(t, err, bot.ErrNoActiveSession)
}

func TestUsersAreIsolated(t *testing.T) {
	m := NewManager(nil)
	var wg sync.WaitGroup
	for u := int64(1); u <= 20; u++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, _ = m.StartSearch(user, user, fmt.Sprintf("q%d", user), results(int(user)), 0)
			page, _ := m.Current(user)
			_, _ = m.Paginate(user, page.Gen, Next)
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= 20; u++ {
		page, err := m.Current(u)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("q%d", u), page.Query)
		assert.Equal(t, u, page.ChatID)
	}
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("prev")
	assert.True(t, ok)
	assert.Equal(t, Prev, d)
	d, ok = ParseDirection("next")
	assert.True(t, ok)
	assert.Equal(t, Next, d)
	_, ok = ParseDirection("up")
	assert.False(t, ok)
}
