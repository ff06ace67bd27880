// Package session keeps the paginated search results of each user.
package session

import (
	"sync/atomic"

	"github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/state"
)

// PageSize is the number of results shown per page.
const PageSize = 5

// Direction moves the current page.
type Direction int

const (
	Prev Direction = iota
	Next
)

// ParseDirection maps callback payloads "prev" and "next".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "prev":
		return Prev, true
	case "next":
		return Next, true
	default:
		return 0, false
	}
}

// Result is one search hit.
type Result struct {
	VideoID string
	Title   string
}

// Session is a user's search in progress.
type Session struct {
	// Gen identifies this search among all sessions of the manager.
	Gen              uint64
	Query            string
	Results          []Result
	Page             int
	ResultsMessageID int
	ChatID           int64
}

// Page is a rendered view of one page of a session.
type Page struct {
	Gen              uint64
	Query            string
	Items            []Result
	Index            int
	Offset           int
	HasPrev          bool
	HasNext          bool
	ResultsMessageID int
	ChatID           int64
}

// Manager owns the sessions of all users.
type Manager struct {
	store state.Store[*Session]
	gen   atomic.Uint64
}

// NewManager creates a Manager. A nil store uses an in-memory one.
func NewManager(store state.Store[*Session]) *Manager {
	if store == nil {
		store = state.NewMemoryStore[*Session]()
	}
	return &Manager{store: store}
}

// StartSearch replaces the user's session with a fresh one at page 0, shown in
// resultsMessageID, and returns the replaced session, if any, so its results
// message can be removed.
func (m *Manager) StartSearch(userID, chatID int64, query string, results []Result, resultsMessageID int) (*Session, error) {
	if len(results) == 0 {
		return nil, bot.ErrEmptyResults
	}
	items := make([]Result, len(results))
	copy(items, results)

	gen := m.gen.Add(1)
	var previous *Session
	m.store.Update(userID, func(current *Session, ok bool) (*Session, bool) {
		if ok {
			previous = current
		}
		return &Session{Gen: gen, Query: query, Results: items, ChatID: chatID, ResultsMessageID: resultsMessageID}, true
	})
	return previous, nil
}

// Paginate moves one page in dir of the session gen. Moving past either end
// leaves the page unchanged.
func (m *Manager) Paginate(userID int64, gen uint64, dir Direction) (Page, error) {
	var (
		page  Page
		found bool
	)
	m.store.Update(userID, func(current *Session, ok bool) (*Session, bool) {
		if !ok || current == nil {
			return nil, false
		}
		if current.Gen != gen {
			return current, true
		}
		found = true
		next := *current
		switch dir {
		case Prev:
			if next.Page > 0 {
				next.Page--
			}
		case Next:
			if (next.Page+1)*PageSize < len(next.Results) {
				next.Page++
			}
		}
		page = render(&next)
		return &next, true
	})
	if !found {
		return Page{}, bot.ErrNoActiveSession
	}
	return page, nil
}

// Current returns the page the user is looking at.
func (m *Manager) Current(userID int64) (Page, error) {
	s, ok := m.store.Get(userID)
	if !ok || s == nil {
		return Page{}, bot.ErrNoActiveSession
	}
	return render(s), nil
}

// Result returns the result at an absolute index of the session gen.
func (m *Manager) Result(userID int64, gen uint64, index int) (Result, error) {
	s, ok := m.store.Get(userID)
	if !ok || s == nil || s.Gen != gen || index < 0 || index >= len(s.Results) {
		return Result{}, bot.ErrNoActiveSession
	}
	return s.Results[index], nil
}

// SetResultsMessage records the message that displays the results.
func (m *Manager) SetResultsMessage(userID int64, messageID int) {
	m.store.Update(userID, func(current *Session, ok bool) (*Session, bool) {
		if !ok || current == nil {
			return nil, false
		}
		next := *current
		next.ResultsMessageID = messageID
		return &next, true
	})
}

// End discards the user's session and returns it.
func (m *Manager) End(userID int64) (*Session, bool) {
	var ended *Session
	m.store.Update(userID, func(current *Session, ok bool) (*Session, bool) {
		ended = current
		return nil, false
	})
	return ended, ended != nil
}

func render(s *Session) Page {
	offset := s.Page * PageSize
	end := offset + PageSize
	if end > len(s.Results) {
		end = len(s.Results)
	}
	items := make([]Result, end-offset)
	copy(items, s.Results[offset:end])
	return Page{
		Gen:              s.Gen,
		Query:            s.Query,
		Items:            items,
		Index:            s.Page,
		Offset:           offset,
		HasPrev:          s.Page > 0,
		HasNext:          end < len(s.Results),
		ResultsMessageID: s.ResultsMessageID,
		ChatID:           s.ChatID,
	}
}
