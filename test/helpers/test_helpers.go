package helpers

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/internal/repository"
	"github.com/zapstore/chat-gateway/pkg/pg"
	"github.com/zapstore/chat-gateway/pkg/redis"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.CustomerEntity{},
		&repository.SessionEntity{},
		&repository.OrderEntity{},
		&repository.ProductEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	// Unique connection name per call, the adapter registry is global.
	connName := fmt.Sprintf("test-%d", time.Now().UnixNano())
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestCustomer(t *testing.T, db *pg.DB, phone, name string) *model.Customer {
	customer, err := model.NewCustomer(phone, name)
	require.NoError(t, err)
	err = repository.NewCustomerRepository(db).Create(context.Background(), customer)
	require.NoError(t, err)
	return customer
}

func CreateTestProduct(t *testing.T, db *pg.DB, name string, priceCents int64, category string, stock int) *model.Product {
	product, err := model.NewProduct(name, priceCents, category, stock)
	require.NoError(t, err)
	err = repository.NewProductRepository(db).Create(context.Background(), product)
	require.NoError(t, err)
	return product
}

func CreateTestOrder(t *testing.T, db *pg.DB, customerID string, totalCents int64, status model.OrderStatus) *model.Order {
	order, err := model.NewOrder(customerID, totalCents, nil)
	require.NoError(t, err)
	// Order numbers are uppercase on the wire and normalized before lookup.
	order.ID = "PED-" + strings.ToUpper(order.ID[:6])
	order.Status = status
	err = repository.NewOrderRepository(db).Create(context.Background(), order)
	require.NoError(t, err)
	return order
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
