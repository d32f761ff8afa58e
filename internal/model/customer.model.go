package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPhone = errors.New("phone number must have between 10 and 15 digits")
	ErrInvalidEmail = errors.New("invalid email address")
)

// Customer is a shopper identified by their WhatsApp phone number. The
// number is stored digits-only; formatting differences coming from the
// provider must never create a second customer row.
type Customer struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCustomer(phoneNumber, name string) (*Customer, error) {
	normalized, err := NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Customer{
		ID:          uuid.New().String(),
		PhoneNumber: normalized,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizePhone strips every non-digit rune and validates the remaining
// length. Runs before any customer lookup so "+55 (11) 99999-9999" and
// "5511999999999" resolve to the same record.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

func (c *Customer) UpdateName(name string) {
	c.Name = name
	c.UpdatedAt = time.Now()
}

func (c *Customer) UpdateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return ErrInvalidEmail
	}
	c.Email = email
	c.UpdatedAt = time.Now()
	return nil
}
