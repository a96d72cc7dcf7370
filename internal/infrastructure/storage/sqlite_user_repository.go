package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

// SQLiteUserRepository persists users so access survives restarts.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository opens the database at path and creates the schema.
// Use ":memory:" for a throwaway database.
func NewSQLiteUserRepository(path string) (*SQLiteUserRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		state TEXT NOT NULL,
		authorized INTEGER NOT NULL DEFAULT 0,
		client_name TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}

	return &SQLiteUserRepository{db: db}, nil
}

func (r *SQLiteUserRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get returns the user, inserting a locked one if not found.
func (r *SQLiteUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, chat_id, state, authorized, client_name FROM users WHERE id = ?", userID)

	var (
		user  entity.User
		state string
	)
	err := row.Scan(&user.ID, &user.ChatID, &state, &user.Authorized, &user.ClientName)
	if errors.Is(err, sql.ErrNoRows) {
		newUser := entity.NewUser(userID, chatID)
		if err := r.Save(ctx, newUser); err != nil {
			return nil, err
		}
		return newUser, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", userID, err)
	}

	user.State = entity.UserState(state)
	return &user, nil
}

// Save upserts the user.
func (r *SQLiteUserRepository) Save(ctx context.Context, user *entity.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, chat_id, state, authorized, client_name)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chat_id = excluded.chat_id,
			state = excluded.state,
			authorized = excluded.authorized,
			client_name = excluded.client_name`,
		user.ID, user.ChatID, string(user.State), user.Authorized, user.ClientName)
	if err != nil {
		return fmt.Errorf("save user %d: %w", user.ID, err)
	}
	return nil
}

// UpdateState changes the dialogue state of a known user.
func (r *SQLiteUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET state = ? WHERE id = ?", string(state), userID)
	if err != nil {
		return fmt.Errorf("update state of user %d: %w", userID, err)
	}
	return nil
}

var _ port.UserRepository = (*SQLiteUserRepository)(nil)
