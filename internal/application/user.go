package app

import (
	"context"
	"strings"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) Save(ctx context.Context, user *entity.User) error {
	return s.repo.Save(ctx, user)
}

// SetState changes only the dialogue state of the user.
func (s *UserService) SetState(ctx context.Context, userID int64, state entity.UserState) error {
	return s.repo.UpdateState(ctx, userID, state)
}

// SetClientName starts a consultation for the named client.
func (s *UserService) SetClientName(ctx context.Context, userID, chatID int64, name string) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.ClientName = strings.TrimSpace(name)
	user.SetState(entity.StateAwaitingPhoto)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Cancel ends the current consultation: the client name is cleared and an
// authorized user returns to the main menu.
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.ClientName = ""
	if user.Authorized {
		user.SetState(entity.StateMainMenu)
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
