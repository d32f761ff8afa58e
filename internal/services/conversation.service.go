package services

import (
	"context"
	"strings"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/pkg/logger"
	"github.com/zapstore/chat-gateway/pkg/prom"
)

// buttonPhrases turns interactive reply ids into the canned phrases the
// classifier already understands. Unknown ids fall through as-is so list
// selections (product ids and the like) reach the state handlers.
var buttonPhrases = map[string]string{
	"btn_products": "ver produtos",
	"btn_orders":   "meus pedidos",
	"btn_faq":      "dúvidas",
	"btn_human":    "falar com atendente",
	"btn_menu":     "menu",
}

// ConversationService runs one inbound event through the full pipeline:
// identity, session, intent, dialogue, persistence. Work for one customer
// is serialized under the session lock; different customers proceed in
// parallel.
type ConversationService struct {
	identity *IdentityService
	sessions *SessionService
	intents  *IntentClassifier
	dialog   *DialogService
	lock     *SessionLock
}

func NewConversationService(
	identity *IdentityService,
	sessions *SessionService,
	intents *IntentClassifier,
	dialog *DialogService,
	lock *SessionLock,
) *ConversationService {
	return &ConversationService{
		identity: identity,
		sessions: sessions,
		intents:  intents,
		dialog:   dialog,
		lock:     lock,
	}
}

// Handle processes one event and returns the reply to dispatch. A nil
// envelope with a nil error means the event carried nothing actionable and
// was dropped without touching customer or session state.
func (s *ConversationService) Handle(ctx context.Context, ev *model.MessageEvent) (*model.ResponseEnvelope, error) {
	text := ev.Text
	if sel := ev.SelectionID(); sel != "" {
		if phrase, ok := buttonPhrases[sel]; ok {
			text = phrase
		} else {
			text = sel
		}
	}
	if strings.TrimSpace(text) == "" {
		prom.IncEventsDropped()
		return nil, nil
	}

	customer, err := s.identity.Resolve(ctx, ev.From, ev.ProfileName)
	if err != nil {
		return nil, err
	}

	release, err := s.lock.Acquire(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.sessions.GetOrCreate(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	intent := s.intents.Classify(text)
	prom.IncIntentClassified(string(intent))

	envelope, err := s.dialog.Respond(ctx, session, intent, text)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Persist(ctx, session); err != nil {
		logger.Error("failed to persist session",
			"session_id", session.ID,
			"customer_id", customer.ID,
			"error", err,
		)
		return nil, err
	}

	return envelope, nil
}
