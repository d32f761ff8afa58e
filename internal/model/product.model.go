package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativePrice     = errors.New("product price cannot be negative")
	ErrNegativeStock     = errors.New("product stock cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProduct(name string, priceCents int64, category string, stock int) (*Product, error) {
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	now := time.Now()
	return &Product{
		ID:         uuid.New().String(),
		Name:       name,
		PriceCents: priceCents,
		Category:   category,
		Stock:      stock,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsAvailable reports whether the product can be offered to customers.
func (p *Product) IsAvailable() bool {
	return p.Active && p.Stock > 0
}

func (p *Product) DecreaseStock(quantity int) error {
	if quantity > p.Stock {
		return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, p.Stock, quantity)
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) IncreaseStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}
