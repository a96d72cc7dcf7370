package port

import (
	"context"

	"nail-studio-bot/internal/domain/entity"
)

// UserRepository stores bot users and their access state.
type UserRepository interface {
	// Get returns the user, creating a locked one if not found
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save persists the whole user
	Save(ctx context.Context, user *entity.User) error

	// UpdateState changes only the dialogue state
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
