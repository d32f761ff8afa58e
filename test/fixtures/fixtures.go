package fixtures

import (
	"github.com/zapstore/chat-gateway/internal/model"
)

var (
	ValidPhoneNumbers = []string{
		"5511999999999",
		"+55 11 98888-7777",
		"(11) 97777-6666",
		"14155552671",
	}

	InvalidPhoneNumbers = []string{
		"",
		"123",
		"abc",
		"+",
	}

	GreetingMessages = []string{
		"oi",
		"Olá!",
		"bom dia",
		"boa tarde, tudo bem?",
	}

	ProductMessages = []string{
		"quero ver os produtos",
		"o que vocês vendem?",
		"catálogo",
	}

	OrderStatusMessages = []string{
		"meus pedidos",
		"rastrear",
		"cadê minha entrega?",
	}
)

func TextEvent(from, text string) *model.MessageEvent {
	return &model.MessageEvent{
		From:      from,
		MessageID: "wamid.test-" + text,
		Type:      model.EventTypeText,
		Text:      text,
	}
}

func ButtonEvent(from, buttonID, buttonText string) *model.MessageEvent {
	return &model.MessageEvent{
		From:       from,
		MessageID:  "wamid.test-" + buttonID,
		Type:       model.EventTypeInteractive,
		ButtonID:   buttonID,
		ButtonText: buttonText,
	}
}

func ImageEvent(from, imageID string) *model.MessageEvent {
	return &model.MessageEvent{
		From:      from,
		MessageID: "wamid.test-" + imageID,
		Type:      model.EventTypeImage,
		ImageID:   imageID,
	}
}
