package repository

import (
	"time"

	"github.com/lib/pq"

	"github.com/zapstore/chat-gateway/internal/model"
)

type OrderEntity struct {
	ID         string         `db:"id"          gorm:"primaryKey;column:id"`
	CustomerID string         `db:"customer_id" gorm:"column:customer_id;not null;index"`
	Status     string         `db:"status"      gorm:"column:status;not null"`
	TotalCents int64          `db:"total_cents" gorm:"column:total_cents;not null"`
	ProductIDs pq.StringArray `db:"product_ids" gorm:"column:product_ids;type:text"`
	CreatedAt  time.Time      `db:"created_at"  gorm:"column:created_at;not null"`
	UpdatedAt  time.Time      `db:"updated_at"  gorm:"column:updated_at;not null"`
}

func (OrderEntity) TableName() string {
	return "orders"
}

func toOrderEntity(m *model.Order) *OrderEntity {
	if m == nil {
		return nil
	}
	return &OrderEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Status:     string(m.Status),
		TotalCents: m.TotalCents,
		ProductIDs: pq.StringArray(m.ProductIDs),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toOrderModel(e *OrderEntity) *model.Order {
	if e == nil {
		return nil
	}
	return &model.Order{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Status:     model.OrderStatus(e.Status),
		TotalCents: e.TotalCents,
		ProductIDs: []string(e.ProductIDs),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func toOrderModels(entities []*OrderEntity) []*model.Order {
	if entities == nil {
		return nil
	}
	models := make([]*model.Order, len(entities))
	for i, e := range entities {
		models[i] = toOrderModel(e)
	}
	return models
}
