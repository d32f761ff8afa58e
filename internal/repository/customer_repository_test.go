package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapstore/chat-gateway/internal/model"
)

func newTestCustomer(t *testing.T, phone string) *model.Customer {
	t.Helper()
	c, err := model.NewCustomer(phone, "João Silva")
	require.NoError(t, err)
	return c
}

func TestCustomerRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	customer := newTestCustomer(t, "5511999999999")
	require.NoError(t, repo.Create(ctx, customer))

	t.Run("find by phone", func(t *testing.T) {
		found, err := repo.FindByPhone(ctx, "5511999999999")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		assert.Equal(t, "João Silva", found.Name)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.PhoneNumber, found.PhoneNumber)
	})

	t.Run("unknown phone", func(t *testing.T) {
		_, err := repo.FindByPhone(ctx, "5511000000000")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("duplicate phone rejected", func(t *testing.T) {
		dup := newTestCustomer(t, "5511999999999")
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicatePhone)
	})
}

func TestCustomerRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	customer := newTestCustomer(t, "5511988887777")
	require.NoError(t, repo.Create(ctx, customer))

	customer.UpdateName("Maria")
	require.NoError(t, customer.UpdateEmail("maria@example.com"))
	require.NoError(t, repo.Update(ctx, customer))

	found, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", found.Name)
	assert.Equal(t, "maria@example.com", found.Email)

	t.Run("update of missing row", func(t *testing.T) {
		ghost := newTestCustomer(t, "5511977776666")
		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}
