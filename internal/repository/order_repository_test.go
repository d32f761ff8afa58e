package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapstore/chat-gateway/internal/model"
)

func TestOrderRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db.DB)
	ctx := context.Background()

	order, err := model.NewOrder("customer-1", 14990, []string{"p1", "p2"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	t.Run("find by id keeps product list", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, found.Status)
		assert.Equal(t, int64(14990), found.TotalCents)
		assert.Equal(t, []string{"p1", "p2"}, found.ProductIDs)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderRepository_FindByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db.DB)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		o, err := model.NewOrder("customer-1", int64(1000*(i+1)), nil)
		require.NoError(t, err)
		o.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, o))
		ids = append(ids, o.ID)
	}

	t.Run("newest first", func(t *testing.T) {
		orders, err := repo.FindByCustomer(ctx, "customer-1", 0)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, ids[2], orders[0].ID)
		assert.Equal(t, ids[0], orders[2].ID)
	})

	t.Run("limit applies", func(t *testing.T) {
		orders, err := repo.FindByCustomer(ctx, "customer-1", 2)
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("no orders means empty slice", func(t *testing.T) {
		orders, err := repo.FindByCustomer(ctx, "customer-2", 0)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestOrderRepository_FindActiveByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db.DB)
	ctx := context.Background()

	active, err := model.NewOrder("customer-1", 1000, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, active))

	done, err := model.NewOrder("customer-1", 2000, nil)
	require.NoError(t, err)
	done.Status = model.OrderStatusDelivered
	require.NoError(t, repo.Create(ctx, done))

	cancelled, err := model.NewOrder("customer-1", 3000, nil)
	require.NoError(t, err)
	cancelled.Status = model.OrderStatusCancelled
	require.NoError(t, repo.Create(ctx, cancelled))

	orders, err := repo.FindActiveByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, active.ID, orders[0].ID)
}

func TestOrderRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db.DB)
	ctx := context.Background()

	order, err := model.NewOrder("customer-1", 1000, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, order.Confirm())
	require.NoError(t, repo.Update(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, found.Status)
}
