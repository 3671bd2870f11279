package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory, indexed by id and by email.
// Everything is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Session
	byEmail map[string]map[string]struct{}

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore starts a sweeper when cleanupInterval is positive.
// Expired sessions are also dropped lazily on Get.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		byID:    make(map[string]Session),
		byEmail: make(map[string]map[string]struct{}),
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.sweep(cleanupInterval)
	}
	return m
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s == nil || s.ID == "" || s.Email == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byID[s.ID]; ok {
		m.unindex(old)
	}
	m.byID[s.ID] = *s
	ids := m.byEmail[s.Email]
	if ids == nil {
		ids = make(map[string]struct{})
		m.byEmail[s.Email] = ids
	}
	ids[s.ID] = struct{}{}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.byID[id]
	m.mu.RUnlock()

	switch {
	case !ok:
		return nil, ErrSessionNotFound
	case s.IsExpired():
		m.mu.Lock()
		m.remove(id)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(id), nil
}

// FindTokenByEmail returns the token of the newest live session for email.
func (m *MemoryStore) FindTokenByEmail(_ context.Context, email string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var newest *Session
	for id := range m.byEmail[email] {
		s := m.byID[id]
		if !s.HasToken() || s.IsExpired() {
			continue
		}
		if newest == nil || s.CreatedAt.After(newest.CreatedAt) {
			newest = &s
		}
	}
	if newest == nil {
		return "", ErrSessionNotFound
	}
	return newest.EncryptedToken, nil
}

// DeleteExpired drops every expired session and returns how many went.
func (m *MemoryStore) DeleteExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.byID {
		if s.IsExpired() && m.remove(id) {
			n++
		}
	}
	return n
}

// Len counts stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryStore) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.DeleteExpired()
		case <-m.stop:
			return
		}
	}
}

// remove and unindex expect m.mu to be held.
func (m *MemoryStore) remove(id string) bool {
	s, ok := m.byID[id]
	if !ok {
		return false
	}
	delete(m.byID, id)
	m.unindex(s)
	return true
}

func (m *MemoryStore) unindex(s Session) {
	ids := m.byEmail[s.Email]
	delete(ids, s.ID)
	if len(ids) == 0 {
		delete(m.byEmail, s.Email)
	}
}
