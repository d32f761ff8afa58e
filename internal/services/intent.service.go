package services

import (
	"strings"

	"github.com/zapstore/chat-gateway/internal/model"
)

type intentTriggers struct {
	intent   model.Intent
	triggers []string
}

// intentTable is scanned top to bottom and the first hit wins, so the row
// order is part of the classifier's contract. "menu" sits last on purpose:
// its triggers ("voltar", "início") show up inside longer sentences that
// earlier rows should claim first.
var intentTable = []intentTriggers{
	{model.IntentGreeting, []string{
		"oi", "olá", "ola", "bom dia", "boa tarde",
		"boa noite", "hey", "hi", "hello", "e aí", "eai",
	}},
	{model.IntentProducts, []string{
		"produto", "produtos", "catalogo", "catálogo",
		"comprar", "preço", "preco", "ver", "mostrar",
	}},
	{model.IntentOrderStatus, []string{
		"pedido", "rastreio", "rastrear", "onde está",
		"onde esta", "entrega", "status", "acompanhar",
	}},
	{model.IntentFAQ, []string{
		"dúvida", "duvida", "ajuda", "como funciona",
		"informação", "informacao", "pergunta",
	}},
	{model.IntentHuman, []string{
		"atendente", "humano", "pessoa", "falar com alguém",
		"falar com alguem", "suporte", "reclamação",
	}},
	{model.IntentMenu, []string{
		"menu", "voltar", "início", "inicio",
		"opcoes", "opções", "começar", "comecar",
	}},
}

// IntentClassifier maps free text onto the closed intent set by substring
// matching against a fixed, ordered trigger table.
type IntentClassifier struct{}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

func (c *IntentClassifier) Classify(text string) model.Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return model.IntentUnknown
	}
	for _, row := range intentTable {
		for _, trigger := range row.triggers {
			if strings.Contains(normalized, trigger) {
				return row.intent
			}
		}
	}
	return model.IntentUnknown
}
