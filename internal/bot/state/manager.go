package state

import (
	"sync"
	"time"
)

// Conversation states
const (
	None                  = "none"
	ChatMode              = "chat_mode"
	WaitingForIngredients = "waiting_for_ingredients"
)

// Temp data keys
const (
	KeyIngredients = "ingredients"
)

// TTL after which an idle conversation state is forgotten.
const TTL = 24 * time.Hour

// StateManager keeps per-chat conversation state between updates.
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	SetTempData(userID int64, key, value string)
	GetTempData(userID int64, key string) (string, bool)
	ClearTempData(userID int64)
	ClearUser(userID int64)
}

type stateEntry struct {
	value     string
	expiresAt time.Time
}

// Manager is the in-process StateManager.
type Manager struct {
	userStates map[int64]stateEntry
	tempData   map[int64]map[string]stateEntry
	now        func() time.Time
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]stateEntry),
		tempData:   make(map[int64]map[string]stateEntry),
		now:        time.Now,
	}
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == None {
		delete(m.userStates, userID)
		return
	}
	m.userStates[userID] = stateEntry{value: state, expiresAt: m.now().Add(TTL)}
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, exists := m.userStates[userID]
	if !exists || !m.now().Before(e.expiresAt) {
		return None
	}
	return e.value
}

// SetTempData sets temporary data for a user
func (m *Manager) SetTempData(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[userID] == nil {
		m.tempData[userID] = make(map[string]stateEntry)
	}
	m.tempData[userID][key] = stateEntry{value: value, expiresAt: m.now().Add(TTL)}
}

// GetTempData gets temporary data for a user
func (m *Manager) GetTempData(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, exists := m.tempData[userID][key]
	if !exists || !m.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// ClearTempData clears all temporary data for a user
func (m *Manager) ClearTempData(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData, userID)
}

// ClearUser drops both state and temp data.
func (m *Manager) ClearUser(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, userID)
	delete(m.tempData, userID)
}
