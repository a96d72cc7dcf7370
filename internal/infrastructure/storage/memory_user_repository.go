package storage

import (
	"context"
	"sync"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

// MemoryUserRepository keeps users in memory; access is lost on restart.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get returns a copy of the user, creating a locked one if not found.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	cp := *user
	return &cp, nil
}

// Save stores a copy of the user.
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	cp := *user

	r.mu.Lock()
	r.users[user.ID] = &cp
	r.mu.Unlock()

	return nil
}

// UpdateState changes the dialogue state of a known user.
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
	}

	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
