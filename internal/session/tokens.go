package session

import (
	"fmt"
)

// Telegram caps callback payloads at 64 bytes, so list buttons never
// carry entity IDs. Each render of a page assigns every visible row a
// short token ("T0", "T1", ...) and stores token -> entity ID here; the
// payload carries only the token. A token from an older render resolves
// to nothing and the router re-renders the list instead of failing.

// SetTokens replaces the user's token map with a fresh one for the ids
// just rendered, in row order. Returns the tokens for button payloads.
func (m *Manager) SetTokens(userID int64, ids []uint) []string {
	session := m.Get(userID)

	tokens := make([]string, len(ids))
	session.tokens = make(map[string]uint, len(ids))
	for i, id := range ids {
		token := fmt.Sprintf("T%d", i)
		tokens[i] = token
		session.tokens[token] = id
	}
	return tokens
}

// ResolveToken maps a short token back to the entity ID it was assigned
// on the most recent render. ok is false for stale or unknown tokens.
func (m *Manager) ResolveToken(userID int64, token string) (uint, bool) {
	session := m.Get(userID)
	if session.tokens == nil {
		return 0, false
	}
	id, ok := session.tokens[token]
	return id, ok
}

// ClearTokens drops the token map without touching flow state.
func (m *Manager) ClearTokens(userID int64) {
	session := m.Get(userID)
	session.tokens = nil
}
