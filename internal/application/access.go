package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"nail-studio-bot/internal/domain/entity"
)

// ErrWrongSalonCode is returned when the passphrase does not match.
var ErrWrongSalonCode = errors.New("wrong salon code")

// AccessService is the shared-passphrase gate in front of the analysis.
type AccessService struct {
	users     *UserService
	salonCode string
}

// NewAccessService creates a gate; codes are compared case-insensitively.
func NewAccessService(users *UserService, salonCode string) *AccessService {
	return &AccessService{
		users:     users,
		salonCode: normalizeCode(salonCode),
	}
}

// Unlock authorizes the user when code matches the salon code.
func (s *AccessService) Unlock(ctx context.Context, userID, chatID int64, code string) (*entity.User, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	given := normalizeCode(code)
	if subtle.ConstantTimeCompare([]byte(given), []byte(s.salonCode)) != 1 {
		return user, ErrWrongSalonCode
	}

	user.Authorize()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Lock revokes the user's access.
func (s *AccessService) Lock(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.Revoke()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
