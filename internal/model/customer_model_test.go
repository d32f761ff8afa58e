package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer_PhoneNormalization(t *testing.T) {
	t.Run("formatted number is stored digits-only", func(t *testing.T) {
		c, err := NewCustomer("+55 (11) 99999-9999", "João Silva")
		require.NoError(t, err)
		assert.Equal(t, "5511999999999", c.PhoneNumber)
		assert.Equal(t, "João Silva", c.Name)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("bare digits pass through", func(t *testing.T) {
		c, err := NewCustomer("5511988887777", "")
		require.NoError(t, err)
		assert.Equal(t, "5511988887777", c.PhoneNumber)
	})

	t.Run("minimum length of 10 digits", func(t *testing.T) {
		c, err := NewCustomer("1234567890", "")
		require.NoError(t, err)
		assert.Equal(t, "1234567890", c.PhoneNumber)
	})

	t.Run("maximum length of 15 digits", func(t *testing.T) {
		c, err := NewCustomer("123456789012345", "")
		require.NoError(t, err)
		assert.Equal(t, "123456789012345", c.PhoneNumber)
	})

	t.Run("too short fails", func(t *testing.T) {
		_, err := NewCustomer("123456789", "")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("too long fails", func(t *testing.T) {
		_, err := NewCustomer("1234567890123456", "")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("formatting does not rescue an invalid length", func(t *testing.T) {
		_, err := NewCustomer("+55 (11) 1234", "")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestCustomer_UpdateEmail(t *testing.T) {
	c, err := NewCustomer("5511999999999", "Maria")
	require.NoError(t, err)

	t.Run("valid email", func(t *testing.T) {
		err := c.UpdateEmail("maria@example.com")
		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", c.Email)
	})

	t.Run("missing at sign", func(t *testing.T) {
		err := c.UpdateEmail("maria.example.com")
		assert.ErrorIs(t, err, ErrInvalidEmail)
		assert.Equal(t, "maria@example.com", c.Email)
	})

	t.Run("missing dot", func(t *testing.T) {
		err := c.UpdateEmail("maria@example")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestCustomer_UpdateName(t *testing.T) {
	c, err := NewCustomer("5511999999999", "")
	require.NoError(t, err)

	before := c.UpdatedAt
	c.UpdateName("Ana")
	assert.Equal(t, "Ana", c.Name)
	assert.False(t, c.UpdatedAt.Before(before))
}
