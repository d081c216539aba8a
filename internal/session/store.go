package session

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
)

const (
	defaultCapacity = 1000
	defaultTTL      = 2 * time.Hour

	// turnLockStripes bounds the lock table; sessions hashing to the
	// same stripe share a lock, which only costs throughput, never
	// correctness.
	turnLockStripes = 64
)

// State is everything a conversation carries between turns.
type State struct {
	History []conversation.Turn
	Pending *conversation.PendingProposal
}

// Store keeps per-session conversation state in an expiring LRU. Idle
// sessions age out; a returning caller simply starts a fresh one.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *State]

	turnLocks [turnLockStripes]sync.Mutex
}

// NewStore creates a session store. Non-positive capacity or TTL fall
// back to the defaults.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		sessions: expirable.NewLRU[string, *State](capacity, nil, ttl),
	}
}

// NewSessionID mints a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// LockSession serializes turns within one session: it blocks until any
// in-flight turn for the same session finishes and returns the unlock.
// Deliveries hold the lock across their read-turn-write cycle so
// overlapping messages cannot drop each other's state.
func (s *Store) LockSession(sessionID string) (unlock func()) {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	m := &s.turnLocks[h.Sum32()%turnLockStripes]
	m.Lock()
	return m.Unlock
}

// Get returns the state for a session. ok is false when the session is
// unknown or expired; lookups never create state, only Put does.
func (s *Store) Get(sessionID string) (st *State, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Get(sessionID)
}

// Put stores the updated state for a session.
func (s *Store) Put(sessionID string, st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Add(sessionID, st)
}

// Reset clears a session's history and pending proposal.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(sessionID)
}

// Len reports how many live sessions the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len()
}
