package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/internal/repository"
)

const productsPerCategory = 5

type ProductFinder interface {
	FindAllAvailable(ctx context.Context) ([]*model.Product, error)
}

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
}

// DialogService is the dialogue state machine. It is intent-first: a
// recognized intent forces its state and reply regardless of the current
// state; only an unknown intent falls back to the state-specific handler.
type DialogService struct {
	products ProductFinder
	orders   OrderFinder
}

func NewDialogService(products ProductFinder, orders OrderFinder) *DialogService {
	return &DialogService{
		products: products,
		orders:   orders,
	}
}

func (s *DialogService) Respond(ctx context.Context, session *model.Session, intent model.Intent, text string) (*model.ResponseEnvelope, error) {
	switch intent {
	case model.IntentGreeting, model.IntentMenu:
		return s.mainMenu(session), nil
	case model.IntentProducts:
		return s.listProducts(ctx, session)
	case model.IntentOrderStatus:
		return s.askOrderNumber(session), nil
	case model.IntentFAQ:
		return s.faq(session), nil
	case model.IntentHuman:
		return s.humanTransfer(session), nil
	}

	// Unknown intent: only the order_status state interprets raw text.
	if session.State == model.StateOrderStatus {
		return s.lookupOrder(ctx, session, text)
	}
	return s.fallback(), nil
}

func (s *DialogService) mainMenu(session *model.Session) *model.ResponseEnvelope {
	session.UpdateState(model.StateMenu)
	return &model.ResponseEnvelope{
		Text: "Olá! 👋 Bem-vindo à nossa loja!\n\n" +
			"Como posso ajudar você hoje?\n\n" +
			"1️⃣ Ver produtos\n" +
			"2️⃣ Rastrear pedido\n" +
			"3️⃣ Dúvidas frequentes\n" +
			"4️⃣ Falar com atendente\n\n" +
			"Digite o número da opção desejada ou escreva sua dúvida.",
	}
}

func (s *DialogService) listProducts(ctx context.Context, session *model.Session) (*model.ResponseEnvelope, error) {
	session.UpdateState(model.StateProducts)

	products, err := s.products.FindAllAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return &model.ResponseEnvelope{
			Text: "No momento não temos produtos disponíveis. Tente novamente mais tarde!",
		}, nil
	}

	// Group by category, keeping first-seen category order.
	var categories []string
	byCategory := map[string][]*model.Product{}
	for _, p := range products {
		if _, seen := byCategory[p.Category]; !seen {
			categories = append(categories, p.Category)
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	var b strings.Builder
	b.WriteString("📦 *Nossos Produtos*\n\n")
	for _, category := range categories {
		items := byCategory[category]
		fmt.Fprintf(&b, "*%s:*\n", category)
		for i, item := range items {
			if i == productsPerCategory {
				break
			}
			fmt.Fprintf(&b, "  • %s - %s\n", item.Name, formatPrice(item.PriceCents))
		}
		b.WriteString("\n")
	}
	b.WriteString("Digite o nome do produto para mais detalhes ou 'menu' para voltar.")

	return &model.ResponseEnvelope{Text: b.String()}, nil
}

func (s *DialogService) askOrderNumber(session *model.Session) *model.ResponseEnvelope {
	session.UpdateState(model.StateOrderStatus)
	return &model.ResponseEnvelope{
		Text: "📦 *Rastrear Pedido*\n\n" +
			"Por favor, digite o número do seu pedido.\n\n" +
			"Exemplo: `PED-123456`",
	}
}

var orderStatusLabels = map[model.OrderStatus]string{
	model.OrderStatusPending:    "⏳ Aguardando confirmação",
	model.OrderStatusConfirmed:  "✅ Pedido confirmado",
	model.OrderStatusProcessing: "📦 Em preparação",
	model.OrderStatusShipped:    "🚚 Enviado - A caminho",
	model.OrderStatusDelivered:  "✅ Entregue",
	model.OrderStatusCancelled:  "❌ Cancelado",
}

func (s *DialogService) lookupOrder(ctx context.Context, session *model.Session, text string) (*model.ResponseEnvelope, error) {
	orderID := strings.ToUpper(strings.TrimSpace(text))

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return &model.ResponseEnvelope{
				Text: fmt.Sprintf("❌ Pedido *%s* não encontrado.\n\n"+
					"Verifique o número e tente novamente, ou digite 'menu' para voltar.", orderID),
			}, nil
		}
		return nil, err
	}

	label, ok := orderStatusLabels[order.Status]
	if !ok {
		label = string(order.Status)
	}
	return &model.ResponseEnvelope{
		Text: fmt.Sprintf("📦 *Pedido %s*\n\n"+
			"Status: %s\n"+
			"Valor: %s\n"+
			"Data: %s\n\n"+
			"Digite 'menu' para voltar.",
			orderID, label, formatPrice(order.TotalCents), order.CreatedAt.Format("02/01/2006")),
	}, nil
}

func (s *DialogService) faq(session *model.Session) *model.ResponseEnvelope {
	session.UpdateState(model.StateFAQ)
	return &model.ResponseEnvelope{
		Text: "❓ *Perguntas Frequentes*\n\n" +
			"1️⃣ Qual o prazo de entrega?\n" +
			"2️⃣ Como faço para trocar?\n" +
			"3️⃣ Quais formas de pagamento?\n" +
			"4️⃣ Como cancelar um pedido?\n\n" +
			"Digite o número da pergunta ou 'menu' para voltar.",
	}
}

func (s *DialogService) humanTransfer(session *model.Session) *model.ResponseEnvelope {
	session.UpdateState(model.StateHumanTransfer)
	return &model.ResponseEnvelope{
		Text: "👤 *Atendimento Humano*\n\n" +
			"Vou transferir você para um de nossos atendentes.\n" +
			"Aguarde um momento, por favor.\n\n" +
			"Horário de atendimento:\n" +
			"Segunda a Sexta: 9h às 18h\n" +
			"Sábado: 9h às 13h",
		TransferToHuman: true,
	}
}

func (s *DialogService) fallback() *model.ResponseEnvelope {
	return &model.ResponseEnvelope{
		Text: "🤔 Desculpe, não entendi sua mensagem.\n\n" +
			"Você pode:\n" +
			"• Digitar 'menu' para ver as opções\n" +
			"• Digitar 'atendente' para falar com uma pessoa\n",
	}
}

// formatPrice renders cents as "R$ 49.90".
func formatPrice(cents int64) string {
	return fmt.Sprintf("R$ %.2f", float64(cents)/100)
}
