package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapstore/chat-gateway/internal/model"
)

func TestIntentClassifier_Classify(t *testing.T) {
	c := NewIntentClassifier()

	tests := []struct {
		text string
		want model.Intent
	}{
		{"oi", model.IntentGreeting},
		{"Olá, tudo bem?", model.IntentGreeting},
		{"BOM DIA", model.IntentGreeting},
		{"quero comprar uma camiseta", model.IntentProducts},
		{"tem catálogo?", model.IntentProducts},
		{"qual o preço da caneca", model.IntentProducts},
		{"rastrear meu pacote", model.IntentOrderStatus},
		{"onde está minha encomenda", model.IntentOrderStatus},
		{"status da entrega", model.IntentOrderStatus},
		{"tenho uma dúvida", model.IntentFAQ},
		{"como funciona a troca", model.IntentFAQ},
		{"quero falar com atendente", model.IntentHuman},
		{"me passa pro suporte", model.IntentHuman},
		{"menu", model.IntentMenu},
		{"voltar", model.IntentMenu},
		{"xyzzy", model.IntentUnknown},
		{"PED-123456", model.IntentUnknown},
		{"", model.IntentUnknown},
		{"   ", model.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

// Earlier table rows shadow later ones. These inputs would match several
// rows; the test pins which one wins.
func TestIntentClassifier_TableOrder(t *testing.T) {
	c := NewIntentClassifier()

	tests := []struct {
		text string
		want model.Intent
	}{
		// "ver" (products) beats "menu" (menu).
		{"quero ver o menu", model.IntentProducts},
		// "oi" (greeting) beats "produto" (products).
		{"oi, quero um produto", model.IntentGreeting},
		// "pedido" (order_status) beats "duvida" (faq).
		{"duvida sobre meu pedido", model.IntentOrderStatus},
		// "ajuda" (faq) beats "atendente" (human).
		{"ajuda de um atendente", model.IntentFAQ},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}
