package e2e

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/internal/repository"
	"github.com/zapstore/chat-gateway/internal/services"
	"github.com/zapstore/chat-gateway/pkg/pg"
	"github.com/zapstore/chat-gateway/test/fixtures"
	"github.com/zapstore/chat-gateway/test/helpers"
)

type TestEnvironment struct {
	DB           *pg.DB
	CustomerRepo *repository.CustomerRepository
	SessionRepo  *repository.SessionRepository
	OrderRepo    *repository.OrderRepository
	ProductRepo  *repository.ProductRepository
	Conversation *services.ConversationService
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)
	_, redisAdapter := helpers.SetupTestRedis(t)

	customerRepo := repository.NewCustomerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	conversation := services.NewConversationService(
		services.NewIdentityService(customerRepo),
		services.NewSessionService(sessionRepo),
		services.NewIntentClassifier(),
		services.NewDialogService(productRepo, orderRepo),
		services.NewSessionLock(redisAdapter, 5*time.Second),
	)

	return &TestEnvironment{
		DB:           db,
		CustomerRepo: customerRepo,
		SessionRepo:  sessionRepo,
		OrderRepo:    orderRepo,
		ProductRepo:  productRepo,
		Conversation: conversation,
	}
}

func TestE2E_FirstContactGreeting(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "oi"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Contains(t, envelope.Text, "Bem-vindo")
	assert.False(t, envelope.TransferToHuman)

	customer, err := env.CustomerRepo.FindByPhone(ctx, "5511999999999")
	require.NoError(t, err)

	session, err := env.SessionRepo.FindActiveByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateMenu, session.State)
}

func TestE2E_SessionIsReusedAcrossMessages(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	_, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "oi"))
	require.NoError(t, err)

	_, err = env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "dúvidas"))
	require.NoError(t, err)

	customer, err := env.CustomerRepo.FindByPhone(ctx, "5511999999999")
	require.NoError(t, err)

	var count int64
	env.DB.Read(ctx).Model(&repository.SessionEntity{}).
		Where("customer_id = ?", customer.ID).Count(&count)
	assert.Equal(t, int64(1), count, "second message must reuse the session")

	session, err := env.SessionRepo.FindActiveByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateFAQ, session.State)
}

func TestE2E_ExpiredSessionGetsReplaced(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	customer := helpers.CreateTestCustomer(t, env.DB, "5511988887777", "Maria")

	stale := model.NewSession(customer.ID)
	stale.State = model.StateFAQ
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, env.SessionRepo.Create(ctx, stale))

	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511988887777", "oi"))
	require.NoError(t, err)
	require.NotNil(t, envelope)

	session, err := env.SessionRepo.FindActiveByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, session.ID, "expired session must not be revived")
	assert.Equal(t, model.StateMenu, session.State)
}

func TestE2E_ProductCatalogFlow(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	helpers.CreateTestProduct(t, env.DB, "Camiseta Básica", 4990, "Vestuário", 10)
	helpers.CreateTestProduct(t, env.DB, "Tênis Runner", 29990, "Calçados", 3)
	helpers.CreateTestProduct(t, env.DB, "Meia Kit 3", 1990, "Vestuário", 0)

	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "quero ver os produtos"))
	require.NoError(t, err)
	require.NotNil(t, envelope)

	assert.Contains(t, envelope.Text, "📦 *Nossos Produtos*")
	assert.Contains(t, envelope.Text, "Camiseta Básica - R$ 49.90")
	assert.Contains(t, envelope.Text, "Tênis Runner - R$ 299.90")
	assert.NotContains(t, envelope.Text, "Meia Kit 3", "out-of-stock products stay hidden")

	customer, err := env.CustomerRepo.FindByPhone(ctx, "5511999999999")
	require.NoError(t, err)
	session, err := env.SessionRepo.FindActiveByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateProducts, session.State)
}

func TestE2E_OrderTrackingFlow(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	customer := helpers.CreateTestCustomer(t, env.DB, "5511999999999", "João")
	order := helpers.CreateTestOrder(t, env.DB, customer.ID, 14990, model.OrderStatusShipped)

	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "meus pedidos"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Contains(t, envelope.Text, "Rastrear Pedido")

	// The order number arrives as free text; lowercase and padding are
	// normalized before lookup.
	envelope, err = env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "  "+order.ID+"  "))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Contains(t, envelope.Text, order.ID)
	assert.Contains(t, envelope.Text, "🚚 Enviado - A caminho")
	assert.Contains(t, envelope.Text, "R$ 149.90")

	session, err := env.SessionRepo.FindActiveByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateOrderStatus, session.State, "lookup keeps the tracking state")
}

func TestE2E_UnknownOrderNumber(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	_, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "rastrear pedido"))
	require.NoError(t, err)

	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "ped-000000"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Contains(t, envelope.Text, "PED-000000")
	assert.Contains(t, envelope.Text, "não encontrado")
}

func TestE2E_IntentOverridesState(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	_, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "rastrear pedido"))
	require.NoError(t, err)

	// A recognized intent wins even while the machine waits for an order
	// number.
	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "menu"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Contains(t, envelope.Text, "Como posso ajudar")

	customer, err := env.CustomerRepo.FindByPhone(ctx, "5511999999999")
	require.NoError(t, err)
	session, err := env.SessionRepo.FindActiveByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateMenu, session.State)
}

func TestE2E_ButtonReplyTriggersIntent(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	helpers.CreateTestProduct(t, env.DB, "Caneca", 2490, "Casa", 8)

	envelope, err := env.Conversation.Handle(ctx, fixtures.ButtonEvent("5511999999999", "btn_products", "Ver Produtos"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.Contains(t, envelope.Text, "📦 *Nossos Produtos*")
	assert.Contains(t, envelope.Text, "Caneca")
}

func TestE2E_HumanHandoff(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	envelope, err := env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "quero falar com atendente"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.True(t, envelope.TransferToHuman)
	assert.Contains(t, envelope.Text, "Atendimento Humano")

	// Conversation resumes normally after the hand-off.
	envelope, err = env.Conversation.Handle(ctx, fixtures.TextEvent("5511999999999", "menu"))
	require.NoError(t, err)
	require.NotNil(t, envelope)
	assert.False(t, envelope.TransferToHuman)
}

func TestE2E_MediaOnlyEventIsDropped(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	envelope, err := env.Conversation.Handle(ctx, fixtures.ImageEvent("5511999999999", "img-1"))
	require.NoError(t, err)
	assert.Nil(t, envelope, "no text, nothing to answer")

	_, err = env.CustomerRepo.FindByPhone(ctx, "5511999999999")
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound, "dropped events must not create customers")
}

func TestE2E_ConcurrentMessagesSingleSession(t *testing.T) {
	env := setupE2EEnvironment(t)
	ctx := context.Background()

	// Pre-create the customer so the goroutines only race on the session,
	// which the per-customer lock serializes.
	customer := helpers.CreateTestCustomer(t, env.DB, "5511999999999", "Ana")

	concurrency := 4
	var wg sync.WaitGroup
	errs := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ev := fixtures.TextEvent("5511999999999", fmt.Sprintf("oi %d", n))
			if _, err := env.Conversation.Handle(ctx, ev); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent handle failed: %v", err)
	}

	var count int64
	env.DB.Read(ctx).Model(&repository.SessionEntity{}).
		Where("customer_id = ?", customer.ID).Count(&count)
	assert.Equal(t, int64(1), count, "same sender must never hold two live sessions")
}
