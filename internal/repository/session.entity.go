package repository

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/zapstore/chat-gateway/internal/model"
)

// SessionEntity persists the context bag as a JSON document so new context
// keys never require a schema change.
type SessionEntity struct {
	ID         string    `db:"id"          gorm:"primaryKey;column:id"`
	CustomerID string    `db:"customer_id" gorm:"column:customer_id;not null;index"`
	State      string    `db:"state"       gorm:"column:state;not null"`
	Context    string    `db:"context"     gorm:"column:context;type:text;not null"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `db:"updated_at"  gorm:"column:updated_at;not null"`
	ExpiresAt  time.Time `db:"expires_at"  gorm:"column:expires_at;not null;index"`
}

func (SessionEntity) TableName() string {
	return "sessions"
}

func toSessionEntity(m *model.Session) (*SessionEntity, error) {
	if m == nil {
		return nil, nil
	}
	ctxJSON, err := json.Marshal(m.Context)
	if err != nil {
		return nil, errors.Wrap(err, "encoding session context")
	}
	return &SessionEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		State:      string(m.State),
		Context:    string(ctxJSON),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ExpiresAt:  m.ExpiresAt,
	}, nil
}

func toSessionModel(e *SessionEntity) (*model.Session, error) {
	if e == nil {
		return nil, nil
	}
	sessionCtx := map[string]model.ContextValue{}
	if e.Context != "" {
		if err := json.Unmarshal([]byte(e.Context), &sessionCtx); err != nil {
			return nil, errors.Wrap(err, "decoding session context")
		}
	}
	return &model.Session{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		State:      model.SessionState(e.State),
		Context:    sessionCtx,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		ExpiresAt:  e.ExpiresAt,
	}, nil
}
