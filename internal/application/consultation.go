package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nail-studio-bot/internal/domain/entity"
	"nail-studio-bot/internal/domain/port"
)

var (
	// ErrNotAuthorized is returned when a locked user sends a photo.
	ErrNotAuthorized = errors.New("user is not authorized")
	// ErrBusy is returned while another photo of the same user is being analyzed.
	ErrBusy = errors.New("analysis already in progress")
)

// ConsultationService drives one client consultation: photo in, result out.
type ConsultationService struct {
	users    *UserService
	analyzer *AnalysisService
	preparer port.ImagePreparer
	sessions port.SessionStore

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// ConsultationOutput is what the presentation layer renders.
type ConsultationOutput struct {
	ClientName string
	Image      entity.ImageInput
	Result     *entity.NailAnalysisResult
}

// NewConsultationService creates the service; preparer may be nil.
func NewConsultationService(users *UserService, analyzer *AnalysisService, preparer port.ImagePreparer, sessions port.SessionStore) *ConsultationService {
	return &ConsultationService{
		users:    users,
		analyzer: analyzer,
		preparer: preparer,
		sessions: sessions,
		inFlight: make(map[int64]struct{}),
	}
}

// ProcessPhoto analyzes a captured photo for the user's current client.
// The user ends in StateShowingResult on success and StateMainMenu otherwise.
// Only one photo per user is analyzed at a time; others get ErrBusy.
func (s *ConsultationService) ProcessPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*ConsultationOutput, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !user.Authorized {
		return nil, ErrNotAuthorized
	}

	if !s.begin(userID) {
		return nil, ErrBusy
	}
	defer s.end(userID)

	// a new capture discards the previous result
	s.sessions.Discard(userID)

	if err := s.users.SetState(ctx, userID, entity.StateProcessing); err != nil {
		return nil, err
	}

	// the final transition must land even after ctx expires
	stateCtx := context.WithoutCancel(ctx)

	out, err := s.analyze(ctx, user, photo)
	if err != nil {
		if stateErr := s.users.SetState(stateCtx, userID, entity.StateMainMenu); stateErr != nil {
			return nil, errors.Join(err, stateErr)
		}
		return nil, err
	}

	s.sessions.Put(userID, &port.Session{
		ClientName: out.ClientName,
		Image:      out.Image,
		Result:     out.Result,
	})
	if err := s.users.SetState(stateCtx, userID, entity.StateShowingResult); err != nil {
		return nil, err
	}
	return out, nil
}

// InProgress reports whether a photo of the user is being analyzed.
func (s *ConsultationService) InProgress(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, busy := s.inFlight[userID]
	return busy
}

func (s *ConsultationService) begin(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *ConsultationService) end(userID int64) {
	s.mu.Lock()
	delete(s.inFlight, userID)
	s.mu.Unlock()
}

func (s *ConsultationService) analyze(ctx context.Context, user *entity.User, photo []byte) (*ConsultationOutput, error) {
	if s.preparer != nil {
		prepared, err := s.preparer.Prepare(ctx, photo)
		if err != nil {
			return nil, fmt.Errorf("prepare photo: %w", err)
		}
		photo = prepared
	}

	image, err := entity.NewImageInput(photo, "")
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		return nil, err
	}

	return &ConsultationOutput{
		ClientName: user.ClientName,
		Image:      image,
		Result:     result,
	}, nil
}

// Current returns the result still shown to the user, if any.
func (s *ConsultationService) Current(userID int64) (*ConsultationOutput, bool) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, false
	}
	return &ConsultationOutput{
		ClientName: session.ClientName,
		Image:      session.Image,
		Result:     session.Result,
	}, true
}

// Reset discards the current result and clears the client name.
func (s *ConsultationService) Reset(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.sessions.Discard(userID)
	return s.users.Cancel(ctx, userID, chatID)
}
