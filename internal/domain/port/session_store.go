package port

import "nail-studio-bot/internal/domain/entity"

// Session is the consultation currently shown to a user.
type Session struct {
	ClientName string
	Image      entity.ImageInput
	Result     *entity.NailAnalysisResult
}

// SessionStore keeps the last result per user until it is reset.
type SessionStore interface {
	Put(userID int64, session *Session)
	Get(userID int64) (*Session, bool)
	Discard(userID int64)
}
