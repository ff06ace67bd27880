package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liuran001/tunebot/bot/bottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickyDeleter struct{}

func (panickyDeleter) DeleteMessage(context.Context, int64, int) error { panic("boom") }

func TestBestEffortDelete(t *testing.T) {
	tr := bottest.NewTransport()
	tr.FailDelete(2)

	assert.True(t, BestEffortDelete(context.Background(), tr, 1, 1))
	assert.False(t, BestEffortDelete(context.Background(), tr, 1, 2))
	assert.False(t, BestEffortDelete(context.Background(), tr, 1, 0))
	assert.False(t, BestEffortDelete(context.Background(), nil, 1, 3))
	assert.False(t, BestEffortDelete(context.Background(), panickyDeleter{}, 1, 4))
}

func TestTrackIgnoresDuplicates(t *testing.T) {
	tk := New(bottest.NewTransport(), nil, nil)
	tk.Track(1, 10, 5)
	tk.Track(1, 10, 5)
	tk.Track(1, 10, 6)
	tk.Track(1, 10, 0)

	assert.Equal(t, []Message{{10, 5}, {10, 6}}, tk.Tracked(1))
	assert.Empty(t, tk.Tracked(2))
}

func TestClearAllContinuesPastFailures(t *testing.T) {
	tr := bottest.NewTransport()
	tr.FailDelete(2)
	tk := New(tr, nil, nil)
	tk.Track(1, 10, 1)
	tk.Track(1, 10, 2)
	tk.Track(1, 10, 3)

	deleted := tk.ClearAll(context.Background(), 1)

	assert.Equal(t, 2, deleted)
	assert.Equal(t, []int{1, 3}, tr.DeletedIDs())
	assert.Empty(t, tk.Tracked(1), "key must be removed even when a delete fails")
}

func TestExpireAfterUntracksOnSuccess(t *testing.T) {
	tr := bottest.NewTransport()
	tk := New(tr, nil, nil)
	tk.Track(1, 10, 7)

	tk.ExpireAfter(context.Background(), 1, 10, 7, 5*time.Millisecond)
	tk.Wait()

	assert.Equal(t, []int{7}, tr.DeletedIDs())
	assert.Empty(t, tk.Tracked(1))
}

func TestExpireAfterKeepsOnFailure(t *testing.T) {
	tr := bottest.NewTransport()
	tr.FailDelete(7)
	tk := New(tr, nil, nil)
	tk.Track(1, 10, 7)

	tk.ExpireAfter(context.Background(), 1, 10, 7, time.Millisecond)
	tk.Wait()

	assert.Equal(t, []Message{{10, 7}}, tk.Tracked(1))
}

func TestExpireAfterDoesNotBlock(t *testing.T) {
	tk := New(bottest.NewTransport(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	start := time.Now()
	tk.ExpireAfter(ctx, 1, 10, 7, time.Hour)
	assert.Less(t, time.Since(start), time.Second)

	cancel()
	tk.Wait()
}

func TestNotify(t *testing.T) {
	tr := bottest.NewTransport()
	tk := New(tr, nil, nil)

	id := tk.Notify(context.Background(), 1, 10, "hello", 0)
	require.NotZero(t, id)
	assert.Equal(t, []string{"hello"}, tr.Texts())
	assert.Equal(t, []Message{{10, id}}, tk.Tracked(1))

	id2 := tk.Notify(context.Background(), 1, 10, "bye", time.Millisecond)
	tk.Wait()
	assert.Contains(t, tr.DeletedIDs(), id2)
	assert.Equal(t, []Message{{10, id}}, tk.Tracked(1))
}

func TestNotifySendFailure(t *testing.T) {
	tr := bottest.NewTransport()
	tr.SendErr = errors.New("chat not found")
	tk := New(tr, nil, nil)

	assert.Zero(t, tk.Notify(context.Background(), 1, 10, "hello", time.Second))
	assert.Empty(t, tk.Tracked(1))
}
