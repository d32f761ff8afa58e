package services

import (
	"context"
	"errors"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/internal/repository"
)

var ErrSessionVanished = errors.New("session disappeared during processing")

type SessionRepository interface {
	Create(ctx context.Context, m *model.Session) error
	FindActiveByCustomer(ctx context.Context, customerID string) (*model.Session, error)
	Update(ctx context.Context, m *model.Session) error
}

type SessionService struct {
	sessions SessionRepository
}

func NewSessionService(sessions SessionRepository) *SessionService {
	return &SessionService{
		sessions: sessions,
	}
}

// GetOrCreate returns the customer's active session, or starts a fresh one
// in the initial state when none exists. Expired sessions count as absent.
func (s *SessionService) GetOrCreate(ctx context.Context, customerID string) (*model.Session, error) {
	session, err := s.sessions.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}

	session = model.NewSession(customerID)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Persist writes the session back. Called exactly once per processed event,
// after the dialogue machine ran and before the reply is dispatched. A
// missing row is fatal for the event, not retried.
func (s *SessionService) Persist(ctx context.Context, session *model.Session) error {
	err := s.sessions.Update(ctx, session)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrSessionVanished
	}
	return err
}
