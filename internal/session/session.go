// Package session holds per-user conversational state: the active flow,
// its current step, scratch values collected so far, and the short-token
// map used by paginated selection screens. State lives for the process
// lifetime only; nothing here touches the database.
package session

import (
	"sync"
)

// Session is one user's conversational state. A user has at most one
// active flow at a time; starting a new flow discards everything the
// previous one stored.
type Session struct {
	Flow     string
	Step     string
	Data     map[string]interface{}
	Attempts int

	tokens map[string]uint
}

// Active reports whether a flow is in progress.
func (s *Session) Active() bool {
	return s.Flow != ""
}

// Value returns a scratch value by key.
func (s *Session) Value(key string) (interface{}, bool) {
	v, ok := s.Data[key]
	return v, ok
}

// String returns a scratch value asserted as string.
func (s *Session) String(key string) (string, bool) {
	v, ok := s.Data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Uint returns a scratch value asserted as uint.
func (s *Session) Uint(key string) (uint, bool) {
	v, ok := s.Data[key]
	if !ok {
		return 0, false
	}
	u, ok := v.(uint)
	return u, ok
}

// Float returns a scratch value asserted as float64.
func (s *Session) Float(key string) (float64, bool) {
	v, ok := s.Data[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Manager owns all sessions, keyed by Telegram user ID. Updates for one
// user are processed sequentially by the bot's worker pool, but sessions
// for different users are touched concurrently, hence the lock.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Get returns the session for a user, creating an idle one if needed.
func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[userID]; exists {
		return session
	}

	session := &Session{Data: make(map[string]interface{})}
	m.sessions[userID] = session
	return session
}

// Start begins a flow at its first step. The whole scratch map and the
// token map are replaced, so no key of a previous flow survives.
func (m *Manager) Start(userID int64, flow, step string) *Session {
	session := m.Get(userID)
	session.Flow = flow
	session.Step = step
	session.Data = make(map[string]interface{})
	session.Attempts = 0
	session.tokens = nil
	return session
}

// Advance merges partial values into the scratch state and moves the
// step pointer. Values collected by earlier steps are preserved.
func (m *Manager) Advance(userID int64, step string, partial map[string]interface{}) {
	session := m.Get(userID)
	session.Step = step
	for k, v := range partial {
		session.Data[k] = v
	}
}

// FailAttempt records one failed validation attempt and returns the
// running count, used by flows with a bounded-retry policy.
func (m *Manager) FailAttempt(userID int64) int {
	session := m.Get(userID)
	session.Attempts++
	return session.Attempts
}

// Complete ends the active flow and clears everything it stored.
func (m *Manager) Complete(userID int64) {
	m.Clear(userID)
}

// Cancel ends the active flow and clears everything it stored.
func (m *Manager) Cancel(userID int64) {
	m.Clear(userID)
}

// Clear resets a user's session to idle.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = &Session{Data: make(map[string]interface{})}
}
