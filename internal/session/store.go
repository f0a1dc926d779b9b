// Package session owns the per-user conversational state.
//
// Sessions live only as long as the process. Every mutation of one user's
// session goes through Update, which holds that user's lock for the whole
// read-call-write cycle; different users never contend beyond a shard
// lookup.
package session

import (
	"context"
	"sync"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

const shardCount = 32

type entry struct {
	mu      sync.Mutex
	session domain.Session
}

type shard struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// Store maps a user identity to exactly one Session.
type Store struct {
	shards [shardCount]*shard
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[int64]*entry)}
	}
	return s
}

func (s *Store) shardFor(userID int64) *shard {
	idx := userID % shardCount
	if idx < 0 {
		idx = -idx
	}
	return s.shards[idx]
}

// entry returns the user's entry, creating a WELCOME session on first
// contact.
func (s *Store) entry(userID int64) *entry {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[userID]
	if !ok {
		e = &entry{session: domain.NewSession(userID)}
		sh.entries[userID] = e
	}
	return e
}

// Get returns a snapshot of the user's session.
func (s *Store) Get(userID int64) domain.Session {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// Reset replaces the user's session with a fresh WELCOME one.
// It waits for an in-flight Update of the same user to finish.
func (s *Store) Reset(userID int64) domain.Session {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = domain.NewSession(userID)
	return e.session.Clone()
}

// Update runs fn against the user's session while holding that user's
// lock and stores the session fn returns. fn receives a private copy.
func (s *Store) Update(ctx context.Context, userID int64, fn func(domain.Session) domain.Session) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next := fn(e.session.Clone())
	next.UserID = userID
	e.session = next
	return next.Clone(), nil
}

// Len reports how many users have a session.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}
