package repository

import (
	"time"

	"github.com/zapstore/chat-gateway/internal/model"
)

type CustomerEntity struct {
	ID          string    `db:"id"           gorm:"primaryKey;column:id"`
	PhoneNumber string    `db:"phone_number" gorm:"column:phone_number;not null;unique"`
	Name        string    `db:"name"         gorm:"column:name"`
	Email       string    `db:"email"        gorm:"column:email"`
	CreatedAt   time.Time `db:"created_at"   gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `db:"updated_at"   gorm:"column:updated_at;not null"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:          m.ID,
		PhoneNumber: m.PhoneNumber,
		Name:        m.Name,
		Email:       m.Email,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:          e.ID,
		PhoneNumber: e.PhoneNumber,
		Name:        e.Name,
		Email:       e.Email,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
