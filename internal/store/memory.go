package store

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/travelx/internal/model"
)

// MemoryUserStore keeps users in a slice for the life of the process.
// Lookups are linear scans; the mutex makes check-and-insert atomic so two
// concurrent registrations cannot both claim an email.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users []*model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	stored := *u
	s.users = append(s.users, &stored)
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) UpdatePassword(_ context.Context, id, digest string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.PasswordDigest = digest
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored users.
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// MemoryResetTokenStore keys reset tokens by their opaque value.
type MemoryResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.ResetToken
}

func NewMemoryResetTokenStore() *MemoryResetTokenStore {
	return &MemoryResetTokenStore{tokens: make(map[string]model.ResetToken)}
}

func (s *MemoryResetTokenStore) Create(_ context.Context, t *model.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = *t
	return nil
}

func (s *MemoryResetTokenStore) Get(_ context.Context, token string) (*model.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *MemoryResetTokenStore) Delete(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return false, nil
	}
	delete(s.tokens, token)
	return true, nil
}

func (s *MemoryResetTokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, t := range s.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(s.tokens, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live tokens.
func (s *MemoryResetTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
