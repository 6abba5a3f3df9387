package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"fitclub/internal/domain/access"
)

// ErrNoSession is returned by a SessionStore for unknown or expired tokens.
var ErrNoSession = errors.New("session not found")

// Flash levels, matching the message classes the templates style.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Session is the per-client state. Anonymous clients have a session too, so
// access flags survive until logout even without a login.
type Session struct {
	AccountID string       `json:"account_id,omitempty"`
	Username  string       `json:"username,omitempty"`
	Flags     access.Flags `json:"flags"`
	Flashes   []Flash      `json:"flashes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// IsAuthenticated reports whether an account is logged in.
// INVARIANT: Session fields are not mutated
func (s Session) IsAuthenticated() bool {
	return s.AccountID != ""
}

// SessionStore persists sessions by opaque token.
type SessionStore interface {
	// Create stores s under a fresh token.
	Create(ctx context.Context, s Session) (string, error)
	// Get returns ErrNoSession for unknown or expired tokens.
	Get(ctx context.Context, token string) (Session, error)
	// Save replaces the session stored under token and refreshes its lifetime.
	Save(ctx context.Context, token string, s Session) error
	Delete(ctx context.Context, token string) error
}

// DefaultSessionTTL is used when a store is built with a zero TTL.
const DefaultSessionTTL = 24 * time.Hour

// sessionSweepInterval bounds how often writes scan for expired sessions.
const sessionSweepInterval = time.Minute

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemorySessionStore keeps sessions in process memory. Sessions are lost on restart.
// Expired entries are dropped on lookup and by a sweep run from Create and Save.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemorySessionStore creates an empty store with the given idle lifetime.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// PRE: none
// POST: Session is stored, token is returned
func (ss *MemorySessionStore) Create(_ context.Context, s Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	ss.sweepLocked(now)
	ss.sessions[token] = memoryEntry{session: s, expires: now.Add(ss.ttl)}
	return token, nil
}

// Get retrieves a session by token. Expired entries are removed.
// PRE: token is non-empty
// POST: Returns the session if present and not expired, ErrNoSession otherwise
func (ss *MemorySessionStore) Get(_ context.Context, token string) (Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	e, ok := ss.sessions[token]
	if !ok {
		return Session{}, ErrNoSession
	}
	if !ss.now().Before(e.expires) {
		delete(ss.sessions, token)
		return Session{}, ErrNoSession
	}
	return e.session, nil
}

// Save replaces the session for a given token.
// PRE: token was returned by Create
// POST: Session is replaced and its expiry pushed out by the TTL
func (ss *MemorySessionStore) Save(_ context.Context, token string, s Session) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	ss.sweepLocked(now)
	if _, ok := ss.sessions[token]; !ok {
		return ErrNoSession
	}
	ss.sessions[token] = memoryEntry{session: s, expires: now.Add(ss.ttl)}
	return nil
}

// sweepLocked drops expired sessions, at most once per sweep interval.
// PRE: ss.mu is held
func (ss *MemorySessionStore) sweepLocked(now time.Time) {
	if now.Sub(ss.lastSweep) < sessionSweepInterval {
		return
	}
	for token, e := range ss.sessions {
		if !now.Before(e.expires) {
			delete(ss.sessions, token)
		}
	}
	ss.lastSweep = now
}

// Delete removes a session by token. Unknown tokens are ignored.
func (ss *MemorySessionStore) Delete(_ context.Context, token string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (ss *MemorySessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
