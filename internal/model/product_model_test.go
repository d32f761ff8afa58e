package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p, err := NewProduct("Camiseta Azul", 4990, "Vestuário", 10)
		require.NoError(t, err)
		assert.True(t, p.Active)
		assert.True(t, p.IsAvailable())
	})

	t.Run("negative price fails", func(t *testing.T) {
		_, err := NewProduct("X", -1, "Y", 0)
		assert.ErrorIs(t, err, ErrNegativePrice)
	})

	t.Run("negative stock fails", func(t *testing.T) {
		_, err := NewProduct("X", 1, "Y", -1)
		assert.ErrorIs(t, err, ErrNegativeStock)
	})
}

func TestProduct_Availability(t *testing.T) {
	p, err := NewProduct("Caneca", 2990, "Casa", 3)
	require.NoError(t, err)

	t.Run("active with stock is available", func(t *testing.T) {
		assert.True(t, p.IsAvailable())
	})

	t.Run("deactivated is unavailable", func(t *testing.T) {
		p.Deactivate()
		assert.False(t, p.IsAvailable())
		p.Activate()
		assert.True(t, p.IsAvailable())
	})

	t.Run("zero stock is unavailable", func(t *testing.T) {
		require.NoError(t, p.DecreaseStock(3))
		assert.False(t, p.IsAvailable())
	})
}

func TestProduct_Stock(t *testing.T) {
	p, err := NewProduct("Caneca", 2990, "Casa", 5)
	require.NoError(t, err)

	t.Run("decrease beyond stock fails", func(t *testing.T) {
		err := p.DecreaseStock(6)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 5, p.Stock)
	})

	t.Run("increase rejects negatives", func(t *testing.T) {
		err := p.IncreaseStock(-1)
		assert.ErrorIs(t, err, ErrNegativeStock)
	})

	t.Run("decrease and increase", func(t *testing.T) {
		require.NoError(t, p.DecreaseStock(2))
		require.NoError(t, p.IncreaseStock(4))
		assert.Equal(t, 7, p.Stock)
	})
}
