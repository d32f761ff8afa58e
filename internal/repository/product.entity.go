package repository

import (
	"time"

	"github.com/zapstore/chat-gateway/internal/model"
)

type ProductEntity struct {
	ID          string    `db:"id"          gorm:"primaryKey;column:id"`
	Name        string    `db:"name"        gorm:"column:name;not null"`
	Description string    `db:"description" gorm:"column:description"`
	PriceCents  int64     `db:"price_cents" gorm:"column:price_cents;not null"`
	Category    string    `db:"category"    gorm:"column:category;not null;index"`
	Stock       int       `db:"stock"       gorm:"column:stock;not null;default:0"`
	Active      bool      `db:"active"      gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `db:"created_at"  gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `db:"updated_at"  gorm:"column:updated_at;not null"`
}

func (ProductEntity) TableName() string {
	return "products"
}

func toProductEntity(m *model.Product) *ProductEntity {
	if m == nil {
		return nil
	}
	return &ProductEntity{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Category:    m.Category,
		Stock:       m.Stock,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toProductModel(e *ProductEntity) *model.Product {
	if e == nil {
		return nil
	}
	return &model.Product{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		PriceCents:  e.PriceCents,
		Category:    e.Category,
		Stock:       e.Stock,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toProductModels(entities []*ProductEntity) []*model.Product {
	if entities == nil {
		return nil
	}
	models := make([]*model.Product, len(entities))
	for i, e := range entities {
		models[i] = toProductModel(e)
	}
	return models
}
