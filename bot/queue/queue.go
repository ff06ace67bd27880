// Package queue holds each user's pending downloads and drains them one at a time.
package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/liuran001/tunebot/bot/state"
)

// Entry is one requested download. It is not modified after Enqueue.
type Entry struct {
	ID             string
	URL            string
	Title          string
	Platform       string
	ChatID         int64
	ClientLanguage string
	EnqueuedAt     time.Time
}

// DisplayTitle is the title, or the URL when the title is unknown.
func (e Entry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.URL
}

// Outcome tells the caller whether it must start a processor.
type Outcome int

const (
	// StartedNewProcessor means no processor was running; the caller now owns one.
	StartedNewProcessor Outcome = iota
	// AppendedToRunning means the running processor will pick the entry up.
	AppendedToRunning
)

func (o Outcome) String() string {
	if o == StartedNewProcessor {
		return "started"
	}
	return "appended"
}

type userQueue struct {
	entries []Entry
	running bool
}

// Queue is the set of per-user FIFO queues.
type Queue struct {
	store state.Store[userQueue]
	now   func() time.Time
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{store: state.NewMemoryStore[userQueue](), now: time.Now}
}

// Enqueue appends entry and registers a processor when none is running.
// Missing IDs and timestamps are filled in.
func (q *Queue) Enqueue(userID int64, entry Entry) (Entry, Outcome) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.EnqueuedAt.IsZero() {
		entry.EnqueuedAt = q.now()
	}

	outcome := AppendedToRunning
	q.store.Update(userID, func(current userQueue, _ bool) (userQueue, bool) {
		next := userQueue{
			entries: append(append(make([]Entry, 0, len(current.entries)+1), current.entries...), entry),
			running: true,
		}
		if !current.running {
			outcome = StartedNewProcessor
		}
		return next, true
	})
	return entry, outcome
}

// Head returns the oldest entry without removing it.
func (q *Queue) Head(userID int64) (Entry, bool) {
	current, ok := q.store.Get(userID)
	if !ok || len(current.entries) == 0 {
		return Entry{}, false
	}
	return current.entries[0], true
}

// Pop removes the head if its ID is entryID. It reports whether something was removed.
func (q *Queue) Pop(userID int64, entryID string) bool {
	popped := false
	q.store.Update(userID, func(current userQueue, ok bool) (userQueue, bool) {
		if !ok {
			return current, false
		}
		if len(current.entries) > 0 && current.entries[0].ID == entryID {
			popped = true
			current.entries = append([]Entry(nil), current.entries[1:]...)
		}
		return current, current.running || len(current.entries) > 0
	})
	return popped
}

// Len returns the number of entries waiting, including the one being handled.
func (q *Queue) Len(userID int64) int {
	current, _ := q.store.Get(userID)
	return len(current.entries)
}

// Pending returns a copy of the user's entries in order.
func (q *Queue) Pending(userID int64) []Entry {
	current, _ := q.store.Get(userID)
	return append([]Entry(nil), current.entries...)
}

// Running reports whether a processor is registered for the user.
func (q *Queue) Running(userID int64) bool {
	current, _ := q.store.Get(userID)
	return current.running
}

// Clear drops every entry and returns how many were dropped. A running
// processor stays registered and finishes on its next look at the queue.
func (q *Queue) Clear(userID int64) int {
	dropped := 0
	q.store.Update(userID, func(current userQueue, ok bool) (userQueue, bool) {
		if !ok {
			return current, false
		}
		dropped = len(current.entries)
		current.entries = nil
		return current, current.running
	})
	return dropped
}

// Finish unregisters the processor if the queue is empty. When it returns
// false an entry arrived and the processor must keep going.
func (q *Queue) Finish(userID int64) bool {
	finished := false
	q.store.Update(userID, func(current userQueue, ok bool) (userQueue, bool) {
		if len(current.entries) > 0 {
			return current, true
		}
		finished = true
		return userQueue{}, false
	})
	return finished
}

// Abandon drops the entries and the registration. Used when the processor stops early.
func (q *Queue) Abandon(userID int64) {
	q.store.Delete(userID)
}
