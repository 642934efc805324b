package user

import (
	"context"
	"fmt"
	"sync"

	"stellariq/internal/auth/models"
	id "stellariq/pkg/domain"
	"stellariq/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in process memory. Records are copied on the
// way in and out so callers never share mutable state across requests.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Create inserts a new user. The email must not be taken.
func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[user.Email]; taken {
		return fmt.Errorf("user email %s: %w", user.Email, sentinel.ErrConflict)
	}
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("user id %s: %w", user.ID, sentinel.ErrConflict)
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

// Save replaces an existing user record.
func (s *InMemoryUserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, sentinel.ErrNotFound)
	}
	if existing.Email != user.Email {
		if owner, taken := s.byEmail[user.Email]; taken && owner != user.ID {
			return fmt.Errorf("user email %s: %w", user.Email, sentinel.ErrConflict)
		}
		delete(s.byEmail, existing.Email)
		s.byEmail[user.Email] = user.ID
	}
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return &user, nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[email]; ok {
		user := s.users[userID]
		return &user, nil
	}
	return nil, fmt.Errorf("user email %s: %w", email, sentinel.ErrNotFound)
}
