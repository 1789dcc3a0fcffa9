package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tritonlifts/api/internal/models"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
	newID    func() string
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (m *MemoryStore) Open(_ context.Context, user *models.User) (*Session, error) {
	now := m.now().UTC()
	s := Session{
		ID:        m.newID(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return copySession(s), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	return copySession(s), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[s.ID]
	if !ok || current.Expired(m.now()) {
		delete(m.sessions, s.ID)
		return ErrSessionNotFound
	}
	m.sessions[s.ID] = *copySession(*s)
	return nil
}

func (m *MemoryStore) Close(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func copySession(s Session) *Session {
	if s.Drafts != nil {
		drafts := make(map[int64]SetDraft, len(s.Drafts))
		for k, v := range s.Drafts {
			drafts[k] = v
		}
		s.Drafts = drafts
	}
	return &s
}
