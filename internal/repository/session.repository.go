package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/pkg/pg"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	*pg.DB
}

func NewSessionRepository(db *pg.DB) *SessionRepository {
	return &SessionRepository{
		db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, m *model.Session) error {
	entity, err := toSessionEntity(m)
	if err != nil {
		return err
	}
	return r.Write(ctx).WithContext(ctx).Create(entity).Error
}

// FindActiveByCustomer returns the customer's most recent unexpired session.
// Expired rows are invisible here even before the sweeper removes them.
func (r *SessionRepository) FindActiveByCustomer(ctx context.Context, customerID string) (*model.Session, error) {
	var entity SessionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ? AND expires_at > ?", customerID, time.Now()).
		Order("created_at DESC").
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return toSessionModel(&entity)
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var entity SessionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return toSessionModel(&entity)
}

func (r *SessionRepository) Update(ctx context.Context, m *model.Session) error {
	entity, err := toSessionEntity(m)
	if err != nil {
		return err
	}
	result := r.Write(ctx).WithContext(ctx).
		Model(&SessionEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"state":      entity.State,
			"context":    entity.Context,
			"updated_at": entity.UpdatedAt,
			"expires_at": entity.ExpiresAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes sessions whose expiry has passed and reports how
// many rows went away. Run periodically by the sweeper.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.Write(ctx).WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&SessionEntity{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
