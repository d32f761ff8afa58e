package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/pkg/pg"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	*pg.DB
}

func NewOrderRepository(db *pg.DB) *OrderRepository {
	return &OrderRepository{
		db,
	}
}

func (r *OrderRepository) Create(ctx context.Context, m *model.Order) error {
	return r.Write(ctx).WithContext(ctx).Create(toOrderEntity(m)).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var entity OrderEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderModel(&entity), nil
}

// FindByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string, limit int) ([]*model.Order, error) {
	var entities []*OrderEntity
	q := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return toOrderModels(entities), nil
}

// FindActiveByCustomer returns orders that are neither delivered nor
// cancelled, newest first.
func (r *OrderRepository) FindActiveByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	var entities []*OrderEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("customer_id = ? AND status NOT IN ?", customerID,
			[]string{string(model.OrderStatusDelivered), string(model.OrderStatusCancelled)}).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toOrderModels(entities), nil
}

func (r *OrderRepository) Update(ctx context.Context, m *model.Order) error {
	entity := toOrderEntity(m)
	result := r.Write(ctx).WithContext(ctx).
		Model(&OrderEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"status":     entity.Status,
			"updated_at": entity.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
