package core

import (
	"sync"

	"pkt.systems/rolepost/schema"
)

// SessionStore records which persona a user speaks as in a channel.
// A key is present exactly while speaking mode is on.
type SessionStore interface {
	IsActive(channelID schema.ChannelID, userID schema.UserID) bool
	ActiveRole(channelID schema.ChannelID, userID schema.UserID) (schema.RoleID, bool)
	Activate(channelID schema.ChannelID, userID schema.UserID, roleID schema.RoleID)
	Deactivate(channelID schema.ChannelID, userID schema.UserID)
}

type sessionKey struct {
	channel schema.ChannelID
	user    schema.UserID
}

// MemoryStore is a process-local SessionStore. Sessions never expire and are
// lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]schema.RoleID
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[sessionKey]schema.RoleID)}
}

// IsActive reports whether the user is in speaking mode in the channel.
func (s *MemoryStore) IsActive(channelID schema.ChannelID, userID schema.UserID) bool {
	_, ok := s.ActiveRole(channelID, userID)
	return ok
}

// ActiveRole returns the role the user speaks as in the channel.
func (s *MemoryStore) ActiveRole(channelID schema.ChannelID, userID schema.UserID) (schema.RoleID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roleID, ok := s.sessions[sessionKey{channel: channelID, user: userID}]
	return roleID, ok
}

// Activate starts or replaces the session for the key.
func (s *MemoryStore) Activate(channelID schema.ChannelID, userID schema.UserID, roleID schema.RoleID) {
	s.mu.Lock()
	s.sessions[sessionKey{channel: channelID, user: userID}] = roleID
	s.mu.Unlock()
}

// Deactivate ends the session for the key if there is one.
func (s *MemoryStore) Deactivate(channelID schema.ChannelID, userID schema.UserID) {
	s.mu.Lock()
	delete(s.sessions, sessionKey{channel: channelID, user: userID})
	s.mu.Unlock()
}

// Len returns the number of active sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
