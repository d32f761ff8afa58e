package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/pkg/pg"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	*pg.DB
}

func NewProductRepository(db *pg.DB) *ProductRepository {
	return &ProductRepository{
		db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, m *model.Product) error {
	return r.Write(ctx).WithContext(ctx).Create(toProductEntity(m)).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var entity ProductEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return toProductModel(&entity), nil
}

// FindAllAvailable returns sellable products, grouped for catalog display:
// ordered by category then name.
func (r *ProductRepository) FindAllAvailable(ctx context.Context) ([]*model.Product, error) {
	var entities []*ProductEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("active = ? AND stock > 0", true).
		Order("category ASC, name ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toProductModels(entities), nil
}

func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]*model.Product, error) {
	var entities []*ProductEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("category = ? AND active = ? AND stock > 0", category, true).
		Order("name ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toProductModels(entities), nil
}

func (r *ProductRepository) Update(ctx context.Context, m *model.Product) error {
	entity := toProductEntity(m)
	result := r.Write(ctx).WithContext(ctx).
		Model(&ProductEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":        entity.Name,
			"description": entity.Description,
			"price_cents": entity.PriceCents,
			"category":    entity.Category,
			"stock":       entity.Stock,
			"active":      entity.Active,
			"updated_at":  entity.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
